package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/metrics"
)

// Metrics records one observation per request, labelled by route template
// rather than raw path
func Metrics(m *metrics.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
