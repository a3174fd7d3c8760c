package response

import (
	"time"

	"github.com/google/uuid"

	"taskhub/internal/core/domain"
)

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AuthResponse struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

type UserResponse struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ForgotPasswordResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"resetToken"`
}

type FriendRequestSentResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

type FriendRequestResponse struct {
	ID        string       `json:"_id"`
	Sender    UserResponse `json:"sender"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
}

type TaskResponse struct {
	ID            string     `json:"_id"`
	User          string     `json:"user"`
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	Status        *string    `json:"status"`
	Priority      *string    `json:"priority"`
	Category      *string    `json:"category"`
	Points        *int       `json:"points"`
	DueDate       *time.Time `json:"dueDate"`
	Collaborators []string   `json:"collaborators"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func NewAuthResponse(user domain.User, token string) AuthResponse {
	return AuthResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	}
}

func NewUserResponse(user domain.UserSummary) UserResponse {
	return UserResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	}
}

func NewUserResponses(users []domain.UserSummary) []UserResponse {
	data := make([]UserResponse, 0, len(users))

	for _, user := range users {
		data = append(data, NewUserResponse(user))
	}

	return data
}

func NewFriendRequestResponses(requests []domain.FriendRequest) []FriendRequestResponse {
	data := make([]FriendRequestResponse, 0, len(requests))

	for _, request := range requests {
		item := FriendRequestResponse{
			ID:        request.ID.String(),
			Sender:    UserResponse{ID: request.SenderID.String()},
			Status:    string(request.Status),
			CreatedAt: request.CreatedAt,
		}

		if request.Sender != nil {
			item.Sender = NewUserResponse(*request.Sender)
		}

		data = append(data, item)
	}

	return data
}

func NewTaskResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:            task.ID.String(),
		User:          task.UserID.String(),
		Title:         task.Title,
		Description:   task.Description,
		Status:        stringPtr(task.Status),
		Priority:      stringPtr(task.Priority),
		Category:      stringPtr(task.Category),
		Points:        task.Points,
		DueDate:       task.DueDate,
		Collaborators: idStrings(task.Collaborators),
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}

func NewTaskResponses(tasks []domain.Task) []TaskResponse {
	data := make([]TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		data = append(data, NewTaskResponse(task))
	}

	return data
}

func stringPtr[T ~string](value *T) *string {
	if value == nil {
		return nil
	}

	s := string(*value)
	return &s
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		out = append(out, id.String())
	}

	return out
}
