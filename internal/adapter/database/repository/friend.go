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

var pending = string(domain.FriendRequestPending)

type FriendRepository struct {
	db        *database.DB
	telemetry port.Telemetry
}

func NewFriendRepository(db *database.DB, telemetry port.Telemetry) port.FriendRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &FriendRepository{
		db:        db,
		telemetry: telemetry,
	}
}

// ListDiscoverable returns everyone except userID, their friends and the
// senders of requests still pending toward them.
func (fr *FriendRepository) ListDiscoverable(ctx context.Context, userID uuid.UUID) (users []domain.UserSummary, err error) {
	ctx, span := repositorySpan(ctx, fr.telemetry, fr.db, "friend", "ListDiscoverable")
	defer func() { tel.EndSpan(span, err) }()

	id := userID.String()

	query := fr.db.QueryBuilder.Select("id", "username", "email").
		From("users").
		Where(sq.NotEq{"id": id}).
		Where("id NOT IN (SELECT friend_id FROM friendships WHERE user_id = ?)", id).
		Where("id NOT IN (SELECT sender_id FROM friend_requests WHERE recipient_id = ? AND status = ?)", id, pending).
		OrderBy("username")

	return queryAll(ctx, fr.db, query, scanUserSummary)
}

func (fr *FriendRepository) ListFriends(ctx context.Context, userID uuid.UUID) (users []domain.UserSummary, err error) {
	ctx, span := repositorySpan(ctx, fr.telemetry, fr.db, "friend", "ListFriends")
	defer func() { tel.EndSpan(span, err) }()

	query := fr.db.QueryBuilder.Select("u.id", "u.username", "u.email").
		From("friendships f").
		Join("users u ON u.id = f.friend_id").
		Where(sq.Eq{"f.user_id": userID.String()}).
		OrderBy("f.created_at", "u.username")

	return queryAll(ctx, fr.db, query, scanUserSummary)
}

func (fr *FriendRepository) AreFriends(ctx context.Context, userID, otherID uuid.UUID) (ok bool, err error) {
	ctx, span := repositorySpan(ctx, fr.telemetry, fr.db, "friend", "AreFriends")
	defer func() { tel.EndSpan(span, err) }()

	query := fr.db.QueryBuilder.Select("COUNT(*)").
		From("friendships").
		Where(sq.Eq{"user_id": userID.String(), "friend_id": otherID.String()})

	n, err := count(ctx, fr.db, query)
	return n > 0, err
}

func (fr *FriendRepository) HasPendingRequest(ctx context.Context, senderID, recipientID uuid.UUID) (ok bool, err error) {
	ctx, span := repositorySpan(ctx, fr.telemetry, fr.db, "friend", "HasPendingRequest")
	defer func() { tel.EndSpan(span, err) }()

	query := fr.db.QueryBuilder.Select("COUNT(*)").
		From("friend_requests").
		Where(sq.Eq{
			"sender_id":    senderID.String(),
			"recipient_id": recipientID.String(),
			"status":       pending,
		})

	n, err := count(ctx, fr.db, query)
	return n > 0, err
}

func (fr *FriendRepository) CreateRequest(ctx context.Context, request domain.FriendRequest) (saved domain.FriendRequest, err error) {
	ctx, span := repositorySpan(ctx, fr.telemetry, fr.db, "friend", "CreateRequest")
	defer func() { tel.EndSpan(span, err) }()

	query := fr.db.QueryBuilder.Insert("friend_requests").
		Columns("id", "sender_id", "recipient_id", "status", "created_at").
		Values(
			request.ID.String(),
			request.SenderID.String(),
			request.RecipientID.String(),
			string(request.Status),
			request.CreatedAt,
		)

	if err := exec(ctx, fr.db, query); err != nil {
		return domain.FriendRequest{}, mapWriteError(fr.db, err)
	}

	return request, nil
}

func (fr *FriendRepository) GetPendingRequest(ctx context.Context, recipientID, requestID uuid.UUID) (request domain.FriendRequest, err error) {
	ctx, span := repositorySpan(ctx, fr.telemetry, fr.db, "friend", "GetPendingRequest")
	defer func() { tel.EndSpan(span, err) }()

	query := fr.requestQuery().
		Where(sq.Eq{
			"fr.id":           requestID.String(),
			"fr.recipient_id": recipientID.String(),
			"fr.status":       pending,
		}).
		Limit(1)

	return queryOne(ctx, fr.db, query, scanFriendRequest)
}

func (fr *FriendRepository) ListPendingRequests(ctx context.Context, recipientID uuid.UUID) (requests []domain.FriendRequest, err error) {
	ctx, span := repositorySpan(ctx, fr.telemetry, fr.db, "friend", "ListPendingRequests")
	defer func() { tel.EndSpan(span, err) }()

	query := fr.requestQuery().
		Where(sq.Eq{
			"fr.recipient_id": recipientID.String(),
			"fr.status":       pending,
		}).
		OrderBy("fr.created_at", "fr.id")

	return queryAll(ctx, fr.db, query, scanFriendRequest)
}

// AcceptRequest deletes the pending request and inserts both friendship rows
// in one transaction. A request already consumed by a concurrent accept or
// reject yields port.ErrNotFound.
func (fr *FriendRepository) AcceptRequest(ctx context.Context, request domain.FriendRequest) (err error) {
	ctx, span := repositorySpan(ctx, fr.telemetry, fr.db, "friend", "AcceptRequest")
	defer func() { tel.EndSpan(span, err) }()

	now := time.Now().UTC()
	sender := request.SenderID.String()
	recipient := request.RecipientID.String()

	return fr.db.InTx(ctx, func(tx *sql.Tx) error {
		if err := execAffected(ctx, tx, fr.deletePending(recipient, request.ID)); err != nil {
			return err
		}

		insert := fr.db.QueryBuilder.Insert("friendships").
			Columns("user_id", "friend_id", "created_at").
			Values(sender, recipient, now).
			Values(recipient, sender, now).
			Suffix("ON CONFLICT DO NOTHING")

		return exec(ctx, tx, insert)
	})
}

func (fr *FriendRepository) DeleteRequest(ctx context.Context, recipientID, requestID uuid.UUID) (err error) {
	ctx, span := repositorySpan(ctx, fr.telemetry, fr.db, "friend", "DeleteRequest")
	defer func() { tel.EndSpan(span, err) }()

	return execAffected(ctx, fr.db, fr.deletePending(recipientID.String(), requestID))
}

func (fr *FriendRepository) deletePending(recipientID string, requestID uuid.UUID) sq.DeleteBuilder {
	return fr.db.QueryBuilder.Delete("friend_requests").
		Where(sq.Eq{
			"id":           requestID.String(),
			"recipient_id": recipientID,
			"status":       pending,
		})
}

func (fr *FriendRepository) requestQuery() sq.SelectBuilder {
	return fr.db.QueryBuilder.Select(
		"fr.id",
		"fr.sender_id",
		"fr.recipient_id",
		"fr.status",
		"fr.created_at",
		"u.username",
		"u.email",
	).
		From("friend_requests fr").
		Join("users u ON u.id = fr.sender_id")
}

func scanUserSummary(row rowScanner) (domain.UserSummary, error) {
	var user domain.UserSummary
	err := row.Scan(&user.ID, &user.Username, &user.Email)
	return user, err
}

func scanFriendRequest(row rowScanner) (domain.FriendRequest, error) {
	var (
		request domain.FriendRequest
		status  string
		sender  domain.UserSummary
	)

	err := row.Scan(
		&request.ID,
		&request.SenderID,
		&request.RecipientID,
		&status,
		&request.CreatedAt,
		&sender.Username,
		&sender.Email,
	)
	if err != nil {
		return domain.FriendRequest{}, err
	}

	request.Status = domain.FriendRequestStatus(status)
	sender.ID = request.SenderID
	request.Sender = &sender

	return request, nil
}
