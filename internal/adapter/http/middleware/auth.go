package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskhub/internal/core/domain"
	ct "taskhub/pkg/context"
)

// UserIDKey holds the authenticated user's uuid.UUID in the gin context.
const UserIDKey = "x-user-id"

type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// AuthMiddleware requires a bearer token. Every failure pushes exactly one
// error and aborts, leaving the response to ErrorResponder.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")

		if !strings.HasPrefix(header, "Bearer") {
			abortWith(c, domain.ErrMissingToken)
			return
		}

		userID, err := verifier.Verify(strings.TrimSpace(strings.TrimPrefix(header, "Bearer")))
		if err != nil {
			abortWith(c, &domain.Error{
				Kind:    domain.ErrInvalidToken.Kind,
				Message: domain.ErrInvalidToken.Message,
				Err:     err,
			})
			return
		}

		c.Set(UserIDKey, userID)
		GetCurrent(c).Set(ct.UserIDKey, userID.String())

		c.Next()
	}
}

// CurrentUserID returns the id stored by AuthMiddleware.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}

	id, ok := value.(uuid.UUID)
	return id, ok
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
