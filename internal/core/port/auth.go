package port

import (
	"context"

	"github.com/google/uuid"

	"taskhub/internal/core/domain"
	"taskhub/internal/core/model/request"
)

type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*domain.User, string, error)
	Login(ctx context.Context, req *request.LoginRequest) (*domain.User, string, error)
	Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) (string, error)
	ResetPassword(ctx context.Context, token string, req *request.ResetPasswordRequest) error
}
