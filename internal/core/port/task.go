package port

import (
	"context"

	"github.com/google/uuid"

	"taskhub/internal/core/domain"
)

// TaskRepository scopes every single-task lookup by owner, so a task that
// exists but belongs to someone else is indistinguishable from a missing one.
type TaskRepository interface {
	GetOwned(ctx context.Context, id, ownerID uuid.UUID) (domain.Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Task, error)
	ListCollaborative(ctx context.Context, userID uuid.UUID) ([]domain.Task, error)
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	Update(ctx context.Context, task domain.Task) (domain.Task, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

type TaskService interface {
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	ListOwned(ctx context.Context, ownerID uuid.UUID) ([]domain.Task, error)
	ListCollaborative(ctx context.Context, userID uuid.UUID) ([]domain.Task, error)
	Get(ctx context.Context, id, ownerID uuid.UUID) (domain.Task, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, patch domain.TaskPatch) (domain.Task, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}
