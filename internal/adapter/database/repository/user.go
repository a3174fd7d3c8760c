package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"taskhub/internal/adapter/database"
	"taskhub/internal/core/domain"
	"taskhub/internal/core/port"
	tel "taskhub/internal/core/telemetry"
)

var userColumns = []string{
	"id",
	"username",
	"email",
	"encrypted_password",
	"reset_password_token",
	"reset_password_expire",
	"created_at",
	"updated_at",
}

type UserRepository struct {
	db        *database.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *database.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (ur *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user domain.User, err error) {
	ctx, span := repositorySpan(ctx, ur.telemetry, ur.db, "user", "GetByID")
	defer func() { tel.EndSpan(span, err) }()

	return ur.getBy(ctx, sq.Eq{"id": id.String()})
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (user domain.User, err error) {
	ctx, span := repositorySpan(ctx, ur.telemetry, ur.db, "user", "GetByEmail")
	defer func() { tel.EndSpan(span, err) }()

	return ur.getBy(ctx, sq.Eq{"email": email})
}

func (ur *UserRepository) GetByUsername(ctx context.Context, username string) (user domain.User, err error) {
	ctx, span := repositorySpan(ctx, ur.telemetry, ur.db, "user", "GetByUsername")
	defer func() { tel.EndSpan(span, err) }()

	return ur.getBy(ctx, sq.Eq{"username": username})
}

func (ur *UserRepository) GetByResetToken(ctx context.Context, tokenHash string) (user domain.User, err error) {
	ctx, span := repositorySpan(ctx, ur.telemetry, ur.db, "user", "GetByResetToken")
	defer func() { tel.EndSpan(span, err) }()

	return ur.getBy(ctx, sq.Eq{"reset_password_token": tokenHash})
}

func (ur *UserRepository) CountByIDs(ctx context.Context, ids []uuid.UUID) (n int, err error) {
	if len(ids) == 0 {
		return 0, nil
	}

	ctx, span := repositorySpan(ctx, ur.telemetry, ur.db, "user", "CountByIDs")
	defer func() { tel.EndSpan(span, err) }()

	query := ur.db.QueryBuilder.Select("COUNT(*)").
		From("users").
		Where(sq.Eq{"id": idStrings(ids)})

	return count(ctx, ur.db, query)
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (saved domain.User, err error) {
	ctx, span := repositorySpan(ctx, ur.telemetry, ur.db, "user", "Create")
	defer func() { tel.EndSpan(span, err) }()

	query := ur.db.QueryBuilder.Insert("users").
		Columns(userColumns...).
		Values(
			user.ID.String(),
			user.Username,
			user.Email,
			user.EncryptedPassword,
			nullString(user.ResetPasswordToken),
			nullTime(user.ResetPasswordExpire),
			user.CreatedAt,
			user.UpdatedAt,
		)

	if err := exec(ctx, ur.db, query); err != nil {
		return domain.User{}, mapWriteError(ur.db, err)
	}

	return user, nil
}

func (ur *UserRepository) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expire time.Time) (err error) {
	ctx, span := repositorySpan(ctx, ur.telemetry, ur.db, "user", "SetResetToken")
	defer func() { tel.EndSpan(span, err) }()

	query := ur.db.QueryBuilder.Update("users").
		Set("reset_password_token", tokenHash).
		Set("reset_password_expire", expire).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id.String()})

	return execAffected(ctx, ur.db, query)
}

func (ur *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, encryptedPassword string) (err error) {
	ctx, span := repositorySpan(ctx, ur.telemetry, ur.db, "user", "UpdatePassword")
	defer func() { tel.EndSpan(span, err) }()

	query := ur.db.QueryBuilder.Update("users").
		Set("encrypted_password", encryptedPassword).
		Set("reset_password_token", nil).
		Set("reset_password_expire", nil).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id.String()})

	return execAffected(ctx, ur.db, query)
}

func (ur *UserRepository) getBy(ctx context.Context, where sq.Sqlizer) (domain.User, error) {
	query := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1)

	return queryOne(ctx, ur.db, query, scanUser)
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		user   domain.User
		token  sql.NullString
		expire sql.NullTime
	)

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.EncryptedPassword,
		&token,
		&expire,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	user.ResetPasswordToken = stringPtr[string](token)
	user.ResetPasswordExpire = timePtr(expire)

	return user, nil
}
