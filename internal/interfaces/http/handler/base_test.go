package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/identity"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/interfaces/http/dto"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
}

func newContext(method, target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	c.Set(middleware.RequestIDKey, "req-1")
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"duplicate period", billing.ErrDuplicatePeriod, http.StatusConflict, "ERR_DUPLICATE_PERIOD", billing.ErrDuplicatePeriod.Message},
		{"insufficient balance", shared.ErrInsufficientBalance, http.StatusUnprocessableEntity, "ERR_INSUFFICIENT_BALANCE", shared.ErrInsufficientBalance.Message},
		{"wrapped not found", fmt.Errorf("load: %w", billing.ErrFeeNotFound), http.StatusNotFound, "ERR_FEE_NOT_FOUND", billing.ErrFeeNotFound.Message},
		{"admin required", identity.ErrAdminRequired, http.StatusForbidden, "ERR_ADMIN_REQUIRED", identity.ErrAdminRequired.Message},
		{"storage text hidden", errors.New("pq: relation fee_payments does not exist"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newContext(http.MethodGet, "/", "")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.True(t, c.IsAborted())
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
			if tt.status < http.StatusInternalServerError {
				assert.Equal(t, tt.message, resp.Error.Message)
			} else {
				assert.NotContains(t, resp.Error.Message, "pq:")
			}
		})
	}
}

func TestBaseHandler_PrincipalRequired(t *testing.T) {
	h := &BaseHandler{}
	c, w := newContext(http.MethodGet, "/", "")

	_, ok := h.principal(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, decodeResponse(t, w).Error.Code)
}

func TestBaseHandler_PathID(t *testing.T) {
	h := &BaseHandler{}

	c, _ := newContext(http.MethodGet, "/", "")
	id := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	got, ok := h.pathID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	c, w := newContext(http.MethodGet, "/", "")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	_, ok = h.pathID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid id: must be a UUID", decodeResponse(t, w).Error.Message)
}

func TestBindingError_Messages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "missing fields",
			body: `{}`,
			want: []string{"resident_id is required", "month is required", "year is required"},
		},
		{
			name: "bad uuid and month",
			body: `{"resident_id":"abc","month":"January","year":2025}`,
			want: []string{"resident_id must be a UUID", "month must be a month name such as Januari"},
		},
		{
			name: "malformed json",
			body: `{"resident_id":`,
			want: []string{"Invalid request body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newContext(http.MethodPost, "/fees", tt.body)

			var req CreateFeeRequest
			err := c.ShouldBindJSON(&req)
			require.Error(t, err)
			h.BindingError(c, err)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
			for _, part := range tt.want {
				assert.Contains(t, resp.Error.Message, part)
			}
		})
	}
}

func TestMonthValidator_AcceptsAnyCase(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/fees", fmt.Sprintf(`{"resident_id":%q,"month":"aGuStUs","year":2025,"amount":1}`, uuid.New()))
	var req CreateFeeRequest
	assert.NoError(t, c.ShouldBindJSON(&req))
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "resident_id", toSnake("ResidentID"))
	assert.Equal(t, "price_per_kg", toSnake("PricePerKg"))
	assert.Equal(t, "month", toSnake("Month"))
}

func TestSuccessWithMeta_NormalizesPage(t *testing.T) {
	h := &BaseHandler{}
	c, w := newContext(http.MethodGet, "/", "")

	h.SuccessWithMeta(c, []int{}, 45, 0, 0)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
