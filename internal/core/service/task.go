package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskhub/internal/core/domain"
	"taskhub/internal/core/port"
	tel "taskhub/internal/core/telemetry"
	"taskhub/pkg/logger"
)

// TaskService applies the ownership policy. Only the owner can read a single
// task or change it; collaborators see shared tasks through the
// collaborative listing.
type TaskService struct {
	tasks     port.TaskRepository
	users     port.UserRepository
	telemetry port.Telemetry
	log       *logger.Logger
}

func NewTaskService(tasks port.TaskRepository, users port.UserRepository, telemetry port.Telemetry, log *logger.Logger) *TaskService {
	return &TaskService{
		tasks:     tasks,
		users:     users,
		telemetry: telemetry,
		log:       log,
	}
}

func (ts *TaskService) Create(ctx context.Context, task domain.Task) (_ domain.Task, err error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "task", "Create", task.UserID.String(), nil)
	defer func() { tel.EndSpan(span, err) }()

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	createdAt := now()
	task.CreatedAt = createdAt
	task.UpdatedAt = createdAt
	task.ApplyDefaults()
	task.SetCollaborators(task.Collaborators)

	if err := ts.ensureCollaboratorsExist(ctx, task.Collaborators); err != nil {
		return domain.Task{}, err
	}

	saved, err := ts.tasks.Create(ctx, task)
	if err != nil {
		return domain.Task{}, domain.NewInternalError("error creating task", err)
	}

	ts.log.Ctx(ctx).Info("Task#Create",
		zap.String("task_id", saved.ID.String()),
		zap.String("user_id", saved.UserID.String()))

	ts.telemetry.RecordBusinessEvent(ctx, "task_created", "task", saved.ID.String(), saved.UserID.String(), map[string]interface{}{
		"collaborators": len(saved.Collaborators),
	})

	return saved, nil
}

func (ts *TaskService) ListOwned(ctx context.Context, ownerID uuid.UUID) (_ []domain.Task, err error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "task", "ListOwned", ownerID.String(), nil)
	defer func() { tel.EndSpan(span, err) }()

	tasks, err := ts.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, domain.NewInternalError("error listing tasks", err)
	}

	return tasks, nil
}

func (ts *TaskService) ListCollaborative(ctx context.Context, userID uuid.UUID) (_ []domain.Task, err error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "task", "ListCollaborative", userID.String(), nil)
	defer func() { tel.EndSpan(span, err) }()

	tasks, err := ts.tasks.ListCollaborative(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("error listing collaborative tasks", err)
	}

	return tasks, nil
}

func (ts *TaskService) Get(ctx context.Context, id, ownerID uuid.UUID) (_ domain.Task, err error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "task", "Get", ownerID.String(), map[string]interface{}{
		"task.id": id.String(),
	})
	defer func() { tel.EndSpan(span, err) }()

	task, err := ts.tasks.GetOwned(ctx, id, ownerID)
	if err != nil {
		return domain.Task{}, translate(err, domain.ErrTaskNotFound, "error loading task")
	}

	return task, nil
}

// Update loads the owned task, applies patch and writes the result back.
func (ts *TaskService) Update(ctx context.Context, id, ownerID uuid.UUID, patch domain.TaskPatch) (_ domain.Task, err error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "task", "Update", ownerID.String(), map[string]interface{}{
		"task.id": id.String(),
	})
	defer func() { tel.EndSpan(span, err) }()

	if err := patch.Validate(); err != nil {
		return domain.Task{}, err
	}

	task, err := ts.tasks.GetOwned(ctx, id, ownerID)
	if err != nil {
		return domain.Task{}, translate(err, domain.ErrTaskNotFound, "error loading task")
	}

	patch.Apply(&task, now())

	if patch.Collaborators.HasValue() {
		if err := ts.ensureCollaboratorsExist(ctx, task.Collaborators); err != nil {
			return domain.Task{}, err
		}
	}

	saved, err := ts.tasks.Update(ctx, task)
	if err != nil {
		return domain.Task{}, translate(err, domain.ErrTaskNotFound, "error updating task")
	}

	ts.telemetry.RecordBusinessEvent(ctx, "task_updated", "task", saved.ID.String(), ownerID.String(), nil)

	return saved, nil
}

func (ts *TaskService) Delete(ctx context.Context, id, ownerID uuid.UUID) (err error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "task", "Delete", ownerID.String(), map[string]interface{}{
		"task.id": id.String(),
	})
	defer func() { tel.EndSpan(span, err) }()

	if err := ts.tasks.Delete(ctx, id, ownerID); err != nil {
		return translate(err, domain.ErrTaskNotFound, "error deleting task")
	}

	ts.telemetry.RecordBusinessEvent(ctx, "task_deleted", "task", id.String(), ownerID.String(), nil)

	return nil
}

func (ts *TaskService) ensureCollaboratorsExist(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	n, err := ts.users.CountByIDs(ctx, ids)
	if err != nil {
		return domain.NewInternalError("error checking collaborators", err)
	}

	if n != len(ids) {
		return domain.ErrCollaboratorNotFound
	}

	return nil
}
