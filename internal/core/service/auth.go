package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskhub/internal/core/domain"
	"taskhub/internal/core/model/request"
	"taskhub/internal/core/port"
	tel "taskhub/internal/core/telemetry"
	"taskhub/internal/core/util"
	"taskhub/pkg/logger"
)

type AuthService struct {
	users     port.UserRepository
	tokens    port.TokenIssuer
	telemetry port.Telemetry
	log       *logger.Logger
	resetTTL  time.Duration
}

func NewAuthService(users port.UserRepository, tokens port.TokenIssuer, telemetry port.Telemetry, log *logger.Logger, resetTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		telemetry: telemetry,
		log:       log,
		resetTTL:  resetTTL,
	}
}

// Register creates the account and returns it with a fresh token. Email is
// checked before username so a fully duplicated payload reports the email.
func (as *AuthService) Register(ctx context.Context, req *request.RegisterRequest) (_ *domain.User, _ string, err error) {
	ctx, span := as.telemetry.StartServiceSpan(ctx, "auth", "Register", "", nil)
	defer func() { tel.EndSpan(span, err) }()

	email := domain.NormalizeEmail(req.Email)
	username := domain.NormalizeUsername(req.Username)

	if _, err := as.users.GetByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrUserAlreadyExists
	} else if !errors.Is(err, port.ErrNotFound) {
		return nil, "", translate(err, nil, "error looking up user")
	}

	if _, err := as.users.GetByUsername(ctx, username); err == nil {
		return nil, "", domain.ErrUsernameTaken
	} else if !errors.Is(err, port.ErrNotFound) {
		return nil, "", translate(err, nil, "error looking up user")
	}

	encrypted, err := util.GenerateEncrypt(req.Password)
	if err != nil {
		return nil, "", domain.NewInternalError("error creating encrypted password", err)
	}

	createdAt := now()
	user := domain.User{
		ID:                uuid.New(),
		Username:          username,
		Email:             email,
		EncryptedPassword: encrypted,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}

	saved, err := as.users.Create(ctx, user)
	if errors.Is(err, port.ErrDuplicate) {
		return nil, "", as.duplicateUserError(ctx, username)
	}
	if err != nil {
		return nil, "", domain.NewInternalError("error creating user", err)
	}

	token, err := as.tokens.Issue(saved.ID)
	if err != nil {
		return nil, "", domain.NewInternalError("error issuing token", err)
	}

	as.telemetry.RecordBusinessEvent(ctx, "user_registered", "user", saved.ID.String(), saved.ID.String(), nil)

	return &saved, token, nil
}

func (as *AuthService) Login(ctx context.Context, req *request.LoginRequest) (_ *domain.User, _ string, err error) {
	ctx, span := as.telemetry.StartServiceSpan(ctx, "auth", "Login", "", nil)
	defer func() { tel.EndSpan(span, err) }()

	user, err := as.users.GetByEmail(ctx, domain.NormalizeEmail(req.Email))
	if err != nil {
		return nil, "", translate(err, domain.ErrInvalidCredentials, "error looking up user")
	}

	if err := util.ComparePassword(req.Password, user.EncryptedPassword); err != nil {
		as.log.Ctx(ctx).Debug("Auth#Login", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := as.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", domain.NewInternalError("error issuing token", err)
	}

	as.telemetry.RecordBusinessEvent(ctx, "user_logged_in", "user", user.ID.String(), user.ID.String(), nil)

	return &user, token, nil
}

func (as *AuthService) Profile(ctx context.Context, userID uuid.UUID) (_ *domain.User, err error) {
	ctx, span := as.telemetry.StartServiceSpan(ctx, "auth", "Profile", userID.String(), nil)
	defer func() { tel.EndSpan(span, err) }()

	user, err := as.users.GetByID(ctx, userID)
	if err != nil {
		return nil, translate(err, domain.ErrUserNotFound, "error looking up user")
	}

	return &user, nil
}

// ForgotPassword stores the digest of a new reset token and returns the raw
// token to the caller.
func (as *AuthService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) (_ string, err error) {
	ctx, span := as.telemetry.StartServiceSpan(ctx, "auth", "ForgotPassword", "", nil)
	defer func() { tel.EndSpan(span, err) }()

	user, err := as.users.GetByEmail(ctx, domain.NormalizeEmail(req.Email))
	if err != nil {
		return "", translate(err, domain.ErrUserNotFound, "error looking up user")
	}

	raw, hash, err := util.GenerateResetToken()
	if err != nil {
		return "", domain.NewInternalError("error generating reset token", err)
	}

	if err := as.users.SetResetToken(ctx, user.ID, hash, now().Add(as.resetTTL)); err != nil {
		return "", translate(err, domain.ErrUserNotFound, "error storing reset token")
	}

	as.telemetry.RecordBusinessEvent(ctx, "password_reset_requested", "user", user.ID.String(), user.ID.String(), nil)

	return raw, nil
}

func (as *AuthService) ResetPassword(ctx context.Context, token string, req *request.ResetPasswordRequest) (err error) {
	ctx, span := as.telemetry.StartServiceSpan(ctx, "auth", "ResetPassword", "", nil)
	defer func() { tel.EndSpan(span, err) }()

	hash := util.HashResetToken(token)

	user, err := as.users.GetByResetToken(ctx, hash)
	if err != nil {
		return translate(err, domain.ErrInvalidResetToken, "error looking up reset token")
	}

	if !user.HasValidResetToken(hash, time.Now()) {
		return domain.ErrInvalidResetToken
	}

	encrypted, err := util.GenerateEncrypt(req.Password)
	if err != nil {
		return domain.NewInternalError("error creating encrypted password", err)
	}

	if err := as.users.UpdatePassword(ctx, user.ID, encrypted); err != nil {
		return translate(err, domain.ErrInvalidResetToken, "error updating password")
	}

	as.telemetry.RecordBusinessEvent(ctx, "password_reset", "user", user.ID.String(), user.ID.String(), nil)

	return nil
}

// duplicateUserError resolves which unique column a racing insert hit.
func (as *AuthService) duplicateUserError(ctx context.Context, username string) error {
	if _, err := as.users.GetByUsername(ctx, username); err == nil {
		return domain.ErrUsernameTaken
	}

	return domain.ErrUserAlreadyExists
}
