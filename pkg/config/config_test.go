package config

import (
	"testing"
	"time"

	"github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	gomega.RegisterTestingT(t)

	for _, key := range []string{"APP_ENV", "JWT_SECRET", "PORT", "DATABASE_DRIVER", "TOKEN_TTL", "RESET_TOKEN_TTL", "ALLOWED_ORIGINS", "ENFORCE_HTTPS"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()

	require.NoError(t, err)
	gomega.Expect(cfg.Environment).To(gomega.Equal("development"))
	gomega.Expect(cfg.Port).To(gomega.Equal("5000"))
	gomega.Expect(cfg.DatabaseDriver).To(gomega.Equal(DriverSQLite))
	gomega.Expect(cfg.TokenTTL).To(gomega.Equal(time.Hour))
	gomega.Expect(cfg.ResetTokenTTL).To(gomega.Equal(10 * time.Minute))
	gomega.Expect(cfg.JWTSecret).NotTo(gomega.BeEmpty())
	gomega.Expect(cfg.AllowedOrigins).To(gomega.ContainElement("http://localhost:5173"))
	gomega.Expect(cfg.EnforceHTTPS).To(gomega.BeFalse())
}

func TestFromEnv_Overrides(t *testing.T) {
	gomega.RegisterTestingT(t)

	t.Setenv("PORT", "8081")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("DB_QUERY_LOG", "true")

	cfg, err := FromEnv()

	require.NoError(t, err)
	gomega.Expect(cfg.Port).To(gomega.Equal("8081"))
	gomega.Expect(cfg.JWTSecret).To(gomega.Equal("s3cret"))
	gomega.Expect(cfg.TokenTTL).To(gomega.Equal(30 * time.Minute))
	gomega.Expect(cfg.AllowedOrigins).To(gomega.Equal([]string{"https://a.example", "https://b.example"}))
	gomega.Expect(cfg.RateLimitEnabled).To(gomega.BeFalse())
	gomega.Expect(cfg.DBQueryLog).To(gomega.BeTrue())
}

func TestFromEnv_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()

	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestFromEnv_ProductionEnforcesHTTPS(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ENFORCE_HTTPS", "")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.True(t, cfg.EnforceHTTPS)
}

func TestFromEnv_PostgresRequiresURL(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := FromEnv()

	assert.Error(t, err)
}
