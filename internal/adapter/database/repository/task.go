package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"taskhub/internal/adapter/database"
	"taskhub/internal/core/domain"
	"taskhub/internal/core/port"
	tel "taskhub/internal/core/telemetry"
)

var taskColumns = []string{
	"id",
	"user_id",
	"title",
	"description",
	"status",
	"priority",
	"category",
	"points",
	"due_date",
	"created_at",
	"updated_at",
}

type TaskRepository struct {
	db        *database.DB
	telemetry port.Telemetry
}

func NewTaskRepository(db *database.DB, telemetry port.Telemetry) port.TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (tr *TaskRepository) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (task domain.Task, err error) {
	ctx, span := repositorySpan(ctx, tr.telemetry, tr.db, "task", "GetOwned")
	defer func() { tel.EndSpan(span, err) }()

	query := tr.db.QueryBuilder.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": id.String(), "user_id": ownerID.String()}).
		Limit(1)

	task, err = queryOne(ctx, tr.db, query, scanTask)
	if err != nil {
		return domain.Task{}, err
	}

	tasks := []domain.Task{task}
	if err := tr.loadCollaborators(ctx, tr.db, tasks); err != nil {
		return domain.Task{}, err
	}

	return tasks[0], nil
}

func (tr *TaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) (tasks []domain.Task, err error) {
	ctx, span := repositorySpan(ctx, tr.telemetry, tr.db, "task", "ListByOwner")
	defer func() { tel.EndSpan(span, err) }()

	query := tr.db.QueryBuilder.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"user_id": ownerID.String()}).
		OrderBy("created_at DESC", "id DESC")

	return tr.list(ctx, query)
}

func (tr *TaskRepository) ListCollaborative(ctx context.Context, userID uuid.UUID) (tasks []domain.Task, err error) {
	ctx, span := repositorySpan(ctx, tr.telemetry, tr.db, "task", "ListCollaborative")
	defer func() { tel.EndSpan(span, err) }()

	query := tr.db.QueryBuilder.Select(taskColumns...).
		From("tasks").
		Where(sq.Or{
			sq.Eq{"user_id": userID.String()},
			sq.Expr("id IN (SELECT task_id FROM task_collaborators WHERE user_id = ?)", userID.String()),
		}).
		OrderBy("created_at DESC", "id DESC")

	return tr.list(ctx, query)
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (saved domain.Task, err error) {
	ctx, span := repositorySpan(ctx, tr.telemetry, tr.db, "task", "Create")
	defer func() { tel.EndSpan(span, err) }()

	err = tr.db.InTx(ctx, func(tx *sql.Tx) error {
		query := tr.db.QueryBuilder.Insert("tasks").
			Columns(taskColumns...).
			Values(
				task.ID.String(),
				task.UserID.String(),
				task.Title,
				nullString(task.Description),
				nullString(task.Status),
				nullString(task.Priority),
				nullString(task.Category),
				nullInt(task.Points),
				nullTime(task.DueDate),
				task.CreatedAt,
				task.UpdatedAt,
			)

		if err := exec(ctx, tx, query); err != nil {
			return err
		}

		return tr.insertCollaborators(ctx, tx, task)
	})
	if err != nil {
		return domain.Task{}, mapWriteError(tr.db, err)
	}

	return withCollaborators(task), nil
}

// Update writes every mutable column and replaces the collaborator set. The
// owner predicate is part of the statement.
func (tr *TaskRepository) Update(ctx context.Context, task domain.Task) (saved domain.Task, err error) {
	ctx, span := repositorySpan(ctx, tr.telemetry, tr.db, "task", "Update")
	defer func() { tel.EndSpan(span, err) }()

	err = tr.db.InTx(ctx, func(tx *sql.Tx) error {
		query := tr.db.QueryBuilder.Update("tasks").
			Set("title", task.Title).
			Set("description", nullString(task.Description)).
			Set("status", nullString(task.Status)).
			Set("priority", nullString(task.Priority)).
			Set("category", nullString(task.Category)).
			Set("points", nullInt(task.Points)).
			Set("due_date", nullTime(task.DueDate)).
			Set("updated_at", task.UpdatedAt).
			Where(sq.Eq{"id": task.ID.String(), "user_id": task.UserID.String()})

		if err := execAffected(ctx, tx, query); err != nil {
			return err
		}

		reset := tr.db.QueryBuilder.Delete("task_collaborators").
			Where(sq.Eq{"task_id": task.ID.String()})

		if err := exec(ctx, tx, reset); err != nil {
			return err
		}

		return tr.insertCollaborators(ctx, tx, task)
	})
	if err != nil {
		return domain.Task{}, mapWriteError(tr.db, err)
	}

	return withCollaborators(task), nil
}

func (tr *TaskRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) (err error) {
	ctx, span := repositorySpan(ctx, tr.telemetry, tr.db, "task", "Delete")
	defer func() { tel.EndSpan(span, err) }()

	return tr.db.InTx(ctx, func(tx *sql.Tx) error {
		query := tr.db.QueryBuilder.Delete("tasks").
			Where(sq.Eq{"id": id.String(), "user_id": ownerID.String()})

		if err := execAffected(ctx, tx, query); err != nil {
			return err
		}

		collaborators := tr.db.QueryBuilder.Delete("task_collaborators").
			Where(sq.Eq{"task_id": id.String()})

		return exec(ctx, tx, collaborators)
	})
}

func (tr *TaskRepository) list(ctx context.Context, query sq.SelectBuilder) ([]domain.Task, error) {
	tasks, err := queryAll(ctx, tr.db, query, scanTask)
	if err != nil {
		return nil, err
	}

	if err := tr.loadCollaborators(ctx, tr.db, tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (tr *TaskRepository) insertCollaborators(ctx context.Context, q queryer, task domain.Task) error {
	if len(task.Collaborators) == 0 {
		return nil
	}

	query := tr.db.QueryBuilder.Insert("task_collaborators").
		Columns("task_id", "user_id", "position")

	for position, userID := range task.Collaborators {
		query = query.Values(task.ID.String(), userID.String(), position)
	}

	return exec(ctx, q, query)
}

// loadCollaborators fills the collaborator sets of tasks in place with one
// query.
func (tr *TaskRepository) loadCollaborators(ctx context.Context, q queryer, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID.String())
	}

	query := tr.db.QueryBuilder.Select("task_id", "user_id").
		From("task_collaborators").
		Where(sq.Eq{"task_id": ids}).
		OrderBy("task_id", "position")

	type link struct {
		taskID uuid.UUID
		userID uuid.UUID
	}

	links, err := queryAll(ctx, q, query, func(row rowScanner) (link, error) {
		var l link
		err := row.Scan(&l.taskID, &l.userID)
		return l, err
	})
	if err != nil {
		return err
	}

	byTask := make(map[uuid.UUID][]uuid.UUID, len(tasks))
	for _, l := range links {
		byTask[l.taskID] = append(byTask[l.taskID], l.userID)
	}

	for i := range tasks {
		tasks[i].Collaborators = byTask[tasks[i].ID]
		if tasks[i].Collaborators == nil {
			tasks[i].Collaborators = []uuid.UUID{}
		}
	}

	return nil
}

func withCollaborators(task domain.Task) domain.Task {
	if task.Collaborators == nil {
		task.Collaborators = []uuid.UUID{}
	}

	return task
}

func scanTask(row rowScanner) (domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		status      sql.NullString
		priority    sql.NullString
		category    sql.NullString
		points      sql.NullInt64
		dueDate     sql.NullTime
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&description,
		&status,
		&priority,
		&category,
		&points,
		&dueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return domain.Task{}, err
	}

	task.Description = stringPtr[string](description)
	task.Status = stringPtr[domain.TaskStatus](status)
	task.Priority = stringPtr[domain.TaskPriority](priority)
	task.Category = stringPtr[domain.TaskCategory](category)
	task.Points = intPtr(points)
	task.DueDate = timePtr(dueDate)

	return task, nil
}
