package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                  uuid.UUID
	Username            string
	Email               string
	EncryptedPassword   string
	ResetPasswordToken  *string
	ResetPasswordExpire *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// UserSummary is the public projection of a user. It never carries
// credentials or reset state.
type UserSummary struct {
	ID       uuid.UUID
	Username string
	Email    string
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// HasValidResetToken reports whether hash matches the stored reset token and
// the token has not expired at now.
func (u *User) HasValidResetToken(hash string, now time.Time) bool {
	if u.ResetPasswordToken == nil || u.ResetPasswordExpire == nil {
		return false
	}

	return *u.ResetPasswordToken == hash && now.Before(*u.ResetPasswordExpire)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}
