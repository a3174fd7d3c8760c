package domain

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindUnauthenticated
	KindNotFound
	KindConflict
	KindInvalidOperation
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidOperation:
		return "invalid_operation"
	default:
		return "internal"
	}
}

type FieldError struct {
	Field   string
	Message string
}

// Error is the single error type services hand back to the transport layer.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

func NewValidationErrors(fields []FieldError) *Error {
	message := "Invalid request parameters"
	if len(fields) == 1 {
		message = fields[0].Message
	}

	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NewUnauthenticatedError(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewConflictError(field, message string) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: message,
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

func NewInvalidOperationError(message string) *Error {
	return &Error{Kind: KindInvalidOperation, Message: message}
}

func NewInternalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns KindInternal for anything that is not a *Error.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}

	return KindInternal
}

var (
	ErrUserAlreadyExists      = NewConflictError("email", "User already exists")
	ErrUsernameTaken          = NewConflictError("username", "Username already taken")
	ErrInvalidCredentials     = NewUnauthenticatedError("Invalid email or password")
	ErrUserNotFound           = NewNotFoundError("User not found")
	ErrInvalidResetToken      = NewValidationError("token", "Invalid or expired reset token")
	ErrTaskNotFound           = NewNotFoundError("Task not found or not authorized")
	ErrCollaboratorNotFound   = NewNotFoundError("Collaborator not found")
	ErrSelfFriendRequest      = NewInvalidOperationError("You cannot send a friend request to yourself")
	ErrFriendRequestExists    = NewConflictError("recipient", "Friend request already sent or users are already friends")
	ErrFriendRequestNotFound  = NewNotFoundError("Friend request not found")
	ErrMissingToken           = NewUnauthenticatedError("Not authorized, no token")
	ErrInvalidToken           = NewUnauthenticatedError("Not authorized, token failed")
	ErrInvalidRequestPayload  = NewValidationError("request", "Invalid request parameters")
	ErrTaskTitleCannotBeEmpty = NewValidationError("title", "title cannot be null")
	ErrTaskTitleTooShort      = NewValidationError("title", "title must be at least 3 characters in length")
)
