package request

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"taskhub/internal/core/domain"
	"taskhub/pkg/optional"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type CreateTaskRequest struct {
	Title         string   `json:"title" validate:"required,min=3,max=255"`
	Description   *string  `json:"description" validate:"omitempty,max=2000"`
	Status        *string  `json:"status" validate:"omitempty,oneof='To Do' 'In Progress' Done Pending Ongoing"`
	Priority      *string  `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	Category      *string  `json:"category" validate:"omitempty,oneof=General 'Arts and Craft' Nature Family Sport Friends Meditation 'Collaborative Task'"`
	Points        *int     `json:"points" validate:"omitempty,min=0"`
	DueDate       *string  `json:"dueDate" validate:"omitempty,isodate"`
	Collaborators []string `json:"collaborators" validate:"omitempty,dive,uuid"`
}

// UpdateTaskRequest distinguishes omitted members from explicit nulls.
type UpdateTaskRequest struct {
	Title         optional.Field[string]   `json:"title" validate:"omitempty,min=3,max=255"`
	Description   optional.Field[string]   `json:"description" validate:"omitempty,max=2000"`
	Status        optional.Field[string]   `json:"status" validate:"omitempty,oneof='To Do' 'In Progress' Done Pending Ongoing"`
	Priority      optional.Field[string]   `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	Category      optional.Field[string]   `json:"category" validate:"omitempty,oneof=General 'Arts and Craft' Nature Family Sport Friends Meditation 'Collaborative Task'"`
	Points        optional.Field[int]      `json:"points" validate:"omitempty,min=0"`
	DueDate       optional.Field[string]   `json:"dueDate" validate:"omitempty,isodate"`
	Collaborators optional.Field[[]string] `json:"collaborators" validate:"omitempty,dive,uuid"`
}

// Normalize trims the members the validator checks by length. Handlers
// call it before validation, so "     " fails required and min.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.Password = strings.TrimSpace(r.Password)
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Password = strings.TrimSpace(r.Password)
}

func (r *ForgotPasswordRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *ResetPasswordRequest) Normalize() {
	r.Password = strings.TrimSpace(r.Password)
}

func (r *CreateTaskRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)

	if r.Description != nil {
		description := strings.TrimSpace(*r.Description)
		r.Description = &description
	}
}

func (r *UpdateTaskRequest) Normalize() {
	if r.Title.HasValue() {
		r.Title.Value = strings.TrimSpace(r.Title.Value)
	}

	if r.Description.HasValue() {
		r.Description.Value = strings.TrimSpace(r.Description.Value)
	}
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}

	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, err
	}

	return t.UTC(), nil
}

// ToTask converts a validated request into a draft task for ownerID.
func (r CreateTaskRequest) ToTask(ownerID uuid.UUID, now time.Time) (domain.Task, error) {
	task := domain.NewTask(ownerID, strings.TrimSpace(r.Title), now)

	task.Description = r.Description
	task.Status = convertPtr[string, domain.TaskStatus](r.Status)
	task.Priority = convertPtr[string, domain.TaskPriority](r.Priority)
	task.Category = convertPtr[string, domain.TaskCategory](r.Category)
	task.Points = r.Points

	if r.DueDate != nil {
		dueDate, err := ParseDate(*r.DueDate)
		if err != nil {
			return domain.Task{}, domain.NewValidationError("dueDate", "dueDate must be a valid ISO 8601 date")
		}
		task.DueDate = &dueDate
	}

	collaborators, err := parseIDs(r.Collaborators)
	if err != nil {
		return domain.Task{}, err
	}
	task.SetCollaborators(collaborators)

	return task, nil
}

func (r UpdateTaskRequest) ToPatch() (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Status:      convertField[string, domain.TaskStatus](r.Status),
		Priority:    convertField[string, domain.TaskPriority](r.Priority),
		Category:    convertField[string, domain.TaskCategory](r.Category),
		Points:      r.Points,
	}

	if patch.Title.HasValue() {
		patch.Title.Value = strings.TrimSpace(patch.Title.Value)
	}

	switch {
	case r.DueDate.HasValue():
		dueDate, err := ParseDate(r.DueDate.Value)
		if err != nil {
			return domain.TaskPatch{}, domain.NewValidationError("dueDate", "dueDate must be a valid ISO 8601 date")
		}
		patch.DueDate = optional.Of(dueDate)
	case r.DueDate.Set:
		patch.DueDate = optional.Null[time.Time]()
	}

	switch {
	case r.Collaborators.HasValue():
		ids, err := parseIDs(r.Collaborators.Value)
		if err != nil {
			return domain.TaskPatch{}, err
		}
		patch.Collaborators = optional.Of(ids)
	case r.Collaborators.Set:
		patch.Collaborators = optional.Null[[]uuid.UUID]()
	}

	return patch, nil
}

func parseIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))

	for _, value := range values {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, domain.NewValidationError("collaborators", "collaborators must contain valid user ids")
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func convertPtr[From ~string, To ~string](value *From) *To {
	if value == nil {
		return nil
	}

	converted := To(*value)
	return &converted
}

func convertField[From ~string, To ~string](field optional.Field[From]) optional.Field[To] {
	return optional.Field[To]{
		Set:   field.Set,
		Null:  field.Null,
		Value: To(field.Value),
	}
}
