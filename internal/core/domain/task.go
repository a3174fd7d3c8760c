package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"taskhub/pkg/optional"
)

type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusOngoing    TaskStatus = "Ongoing"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

type TaskCategory string

const (
	TaskCategoryGeneral       TaskCategory = "General"
	TaskCategoryArtsAndCraft  TaskCategory = "Arts and Craft"
	TaskCategoryNature        TaskCategory = "Nature"
	TaskCategoryFamily        TaskCategory = "Family"
	TaskCategorySport         TaskCategory = "Sport"
	TaskCategoryFriends       TaskCategory = "Friends"
	TaskCategoryMeditation    TaskCategory = "Meditation"
	TaskCategoryCollaborative TaskCategory = "Collaborative Task"
)

const MinTaskTitleLength = 3

type Task struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Title         string
	Description   *string
	Status        *TaskStatus
	Priority      *TaskPriority
	Category      *TaskCategory
	Points        *int
	DueDate       *time.Time
	Collaborators []uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewTask(ownerID uuid.UUID, title string, now time.Time) Task {
	return Task{
		ID:        uuid.New(),
		UserID:    ownerID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (t *Task) ApplyDefaults() {
	if t.Status == nil {
		status := TaskStatusToDo
		t.Status = &status
	}

	if t.Priority == nil {
		priority := TaskPriorityMedium
		t.Priority = &priority
	}

	if t.Category == nil {
		category := TaskCategoryGeneral
		t.Category = &category
	}

	if t.Points == nil {
		points := 0
		t.Points = &points
	}
}

func (t *Task) BelongsToUser(userID uuid.UUID) bool {
	return t.UserID == userID
}

func (t *Task) HasCollaborator(userID uuid.UUID) bool {
	for _, id := range t.Collaborators {
		if id == userID {
			return true
		}
	}

	return false
}

func (t *Task) IsVisibleTo(userID uuid.UUID) bool {
	return t.BelongsToUser(userID) || t.HasCollaborator(userID)
}

// SetCollaborators drops the owner and duplicates, keeping first-seen order.
func (t *Task) SetCollaborators(ids []uuid.UUID) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	collaborators := make([]uuid.UUID, 0, len(ids))

	for _, id := range ids {
		if id == t.UserID {
			continue
		}

		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}
		collaborators = append(collaborators, id)
	}

	t.Collaborators = collaborators
}

// TaskPatch is a partial update. Unset fields keep their value, null fields
// are cleared.
type TaskPatch struct {
	Title         optional.Field[string]
	Description   optional.Field[string]
	Status        optional.Field[TaskStatus]
	Priority      optional.Field[TaskPriority]
	Category      optional.Field[TaskCategory]
	Points        optional.Field[int]
	DueDate       optional.Field[time.Time]
	Collaborators optional.Field[[]uuid.UUID]
}

func (p TaskPatch) Validate() error {
	if p.Title.Set && p.Title.Null {
		return ErrTaskTitleCannotBeEmpty
	}

	if p.Title.HasValue() && utf8.RuneCountInString(strings.TrimSpace(p.Title.Value)) < MinTaskTitleLength {
		return ErrTaskTitleTooShort
	}

	return nil
}

// Apply mutates t in place. Callers must have run Validate first.
func (p TaskPatch) Apply(t *Task, now time.Time) {
	if p.Title.HasValue() {
		t.Title = p.Title.Value
	}

	applyNullable(p.Description, &t.Description)
	applyNullable(p.Status, &t.Status)
	applyNullable(p.Priority, &t.Priority)
	applyNullable(p.Category, &t.Category)
	applyNullable(p.Points, &t.Points)
	applyNullable(p.DueDate, &t.DueDate)

	if p.Collaborators.Set {
		if p.Collaborators.Null {
			t.Collaborators = []uuid.UUID{}
		} else {
			t.SetCollaborators(p.Collaborators.Value)
		}
	}

	t.UpdatedAt = now
}

func applyNullable[T any](field optional.Field[T], target **T) {
	if !field.Set {
		return
	}

	*target = field.Ptr()
}
