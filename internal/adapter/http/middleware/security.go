package middleware

import "github.com/gin-gonic/gin"

var securityHeaders = map[string]string{
	"X-Content-Type-Options":       "nosniff",
	"X-Frame-Options":              "SAMEORIGIN",
	"Referrer-Policy":              "no-referrer",
	"Cross-Origin-Opener-Policy":   "same-origin",
	"Cross-Origin-Resource-Policy": "same-origin",
	"X-DNS-Prefetch-Control":       "off",
	"Content-Security-Policy":      "default-src 'self'",
}

func SecurityHeaders(hsts bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		for name, value := range securityHeaders {
			c.Header(name, value)
		}

		if hsts {
			c.Header("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
		}

		c.Next()
	}
}
