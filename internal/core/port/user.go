package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskhub/internal/core/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByResetToken(ctx context.Context, tokenHash string) (domain.User, error)
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expire time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, encryptedPassword string) error
}
