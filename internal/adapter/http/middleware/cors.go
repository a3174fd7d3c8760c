package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/adapter/http/helper"
	"taskhub/internal/core/model/response"
)

// CORS admits only the configured origins. Requests without an Origin
// header are not cross-origin and pass through.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		if _, ok := allowed[origin]; !ok {
			helper.SendError(c, http.StatusForbidden, "FORBIDDEN", []response.ValidationError{
				{Field: "origin", Message: "Not allowed by CORS"},
			})
			c.Abort()
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
