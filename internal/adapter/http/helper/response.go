package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/core/domain"
	"taskhub/internal/core/model/response"
)

func SendSuccess(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

func SendMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, response.MessageResponse{Message: message})
}

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 && details[0] != nil {
		errorResponse.Error.Details = details[0]
	}

	c.JSON(statusCode, errorResponse)
}

func SendNotFoundError(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, "NOT_FOUND", []response.ValidationError{
		{Field: "resource", Message: message},
	})
}

// SendDomainError renders err with the status and code of its kind. The
// wrapped cause is only exposed when withDetails is set.
func SendDomainError(c *gin.Context, err error, withDetails bool) {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		domainErr = domain.NewInternalError("Internal server error", err)
	}

	status, code := StatusFor(domainErr.Kind)

	var details any
	if withDetails && domainErr.Err != nil {
		details = domainErr.Err.Error()
	}

	SendError(c, status, code, fieldErrors(domainErr), details)
}

func StatusFor(kind domain.ErrorKind) (int, string) {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case domain.KindInvalidOperation:
		return http.StatusBadRequest, "BAD_REQUEST"
	case domain.KindConflict:
		return http.StatusBadRequest, "CONFLICT"
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case domain.KindNotFound:
		return http.StatusNotFound, "NOT_FOUND"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func fieldErrors(err *domain.Error) []response.ValidationError {
	if len(err.Fields) > 0 {
		out := make([]response.ValidationError, 0, len(err.Fields))
		for _, field := range err.Fields {
			out = append(out, response.ValidationError{Field: field.Field, Message: field.Message})
		}

		return out
	}

	return []response.ValidationError{{Field: defaultField(err.Kind), Message: err.Message}}
}

func defaultField(kind domain.ErrorKind) string {
	switch kind {
	case domain.KindUnauthenticated:
		return "auth"
	case domain.KindNotFound:
		return "resource"
	case domain.KindInternal:
		return "server"
	default:
		return "request"
	}
}
