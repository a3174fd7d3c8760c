package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"

	"taskhub/internal/core/domain"
)

// NewTask builds an owned task with every optional field populated.
func NewTask(ownerID uuid.UUID, customData ...map[string]any) domain.Task {
	now := time.Now().UTC().Truncate(time.Microsecond)

	status := domain.TaskStatusToDo
	priority := domain.TaskPriorityMedium
	category := domain.TaskCategoryGeneral
	points := 0
	description := "Factory task"

	data := map[string]any{
		"ID":            uuid.New(),
		"UserID":        ownerID,
		"Title":         "Task " + uuid.NewString()[:8],
		"Description":   &description,
		"Status":        &status,
		"Priority":      &priority,
		"Category":      &category,
		"Points":        &points,
		"DueDate":       (*time.Time)(nil),
		"Collaborators": []uuid.UUID{},
		"CreatedAt":     now,
		"UpdatedAt":     now,
	}

	return fab.New(domain.Task{}).Build(merge(data, customData))
}
