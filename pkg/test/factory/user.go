package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskhub/internal/core/domain"
)

// DefaultPassword is the plain password behind every factory user unless
// EncryptedPassword is overridden.
const DefaultPassword = "12345678"

var encryptedDefault string

func init() {
	encrypted, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	encryptedDefault = string(encrypted)
}

func NewUser(customData ...map[string]any) domain.User {
	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	data := map[string]any{
		"ID":                  id,
		"Username":            "user_" + id.String()[:8],
		"Email":               id.String()[:8] + "@example.com",
		"EncryptedPassword":   encryptedDefault,
		"ResetPasswordToken":  (*string)(nil),
		"ResetPasswordExpire": (*time.Time)(nil),
		"CreatedAt":           now,
		"UpdatedAt":           now,
	}

	return fab.New(domain.User{}).Build(merge(data, customData))
}

func merge(data map[string]any, customData []map[string]any) map[string]any {
	for _, custom := range customData {
		for key, value := range custom {
			data[key] = value
		}
	}

	return data
}
