package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskhub/internal/adapter/http/helper"
	"taskhub/internal/core/domain"
	"taskhub/pkg/logger"
)

// ErrorResponder renders the last error pushed with c.Error, unless a
// response has already been written.
func ErrorResponder(log *logger.Logger, withDetails bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		if domain.KindOf(err) == domain.KindInternal {
			log.Ctx(c.Request.Context()).Error("Request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", GetCurrent(c).RequestID()),
				zap.Error(err))
		}

		helper.SendDomainError(c, err, withDetails)
	}
}
