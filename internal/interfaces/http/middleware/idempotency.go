package middleware

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/cache"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Idempotency headers
const (
	IdempotencyKeyHeader   = "Idempotency-Key"
	IdempotentReplayHeader = "Idempotent-Replayed"
	maxIdempotencyKeyLen   = 255
)

// Idempotency replays the stored response when a caller repeats a request with
// the same Idempotency-Key. Keys are scoped to the caller, method and path.
// Server errors release the key so the caller can retry. A store outage lets
// the request through: the ledger itself still refuses a double settlement.
func Idempotency(store cache.IdempotencyStore, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" {
			c.Next()
			return
		}
		requestID := c.GetString(RequestIDKey)
		if len(key) > maxIdempotencyKeyLen {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeValidation, "Idempotency-Key is too long", requestID))
			return
		}

		caller := "anonymous"
		if p, ok := GetPrincipal(c); ok {
			caller = p.UserID.String()
		}
		storeKey := caller + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + key
		ctx := c.Request.Context()

		reserved, err := store.Reserve(ctx, storeKey, ttl)
		if err != nil {
			log.Warn("Idempotency store unavailable, processing request without replay protection", zap.Error(err))
			c.Next()
			return
		}

		if !reserved {
			resp, found, err := store.Lookup(ctx, storeKey)
			if err != nil {
				log.Warn("Idempotency lookup failed", zap.Error(err))
			}
			if found && resp != nil {
				c.Header(IdempotentReplayHeader, "true")
				c.Data(resp.Status, resp.ContentType, resp.Body)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponse(
				dto.ErrCodeRequestInProgress,
				"A request with this Idempotency-Key is still being processed",
				requestID,
			))
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		// the request context may already be cancelled
		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		status := rec.Status()
		if status >= http.StatusInternalServerError {
			if err := store.Release(bg, storeKey); err != nil {
				log.Warn("Failed to release idempotency key", zap.Error(err))
			}
			return
		}
		err = store.Complete(bg, storeKey, cache.StoredResponse{
			Status:      status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		}, ttl)
		if err != nil {
			log.Warn("Failed to store idempotent response", zap.Error(err))
		}
	}
}

// bodyRecorder copies the response body while it is written
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
