package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskhub/internal/adapter/http/middleware"
	"taskhub/internal/adapter/http/validation"
	"taskhub/internal/core/domain"
	"taskhub/internal/core/util"
)

// normalizer is implemented by requests whose members are trimmed before
// validation.
type normalizer interface {
	Normalize()
}

// bind decodes the JSON body into T, normalizes and validates it. Failures
// are pushed onto the context and ok is false.
func bind[T any](c *gin.Context) (T, bool) {
	params, err := util.ParamsToMap[T](c)
	if err != nil {
		_ = c.Error(domain.ErrInvalidRequestPayload)
		return params, false
	}

	if n, ok := any(&params).(normalizer); ok {
		n.Normalize()
	}

	if err := validation.Struct(params); err != nil {
		_ = c.Error(err)
		return params, false
	}

	return params, true
}

// pathID parses a UUID path parameter. A malformed id cannot match any
// record, so it reports notFound.
func pathID(c *gin.Context, name string, notFound error) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		_ = c.Error(notFound)
		return uuid.Nil, false
	}

	return id, true
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		_ = c.Error(domain.ErrMissingToken)
	}

	return id, ok
}
