package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskhub/internal/core/domain"
	"taskhub/internal/core/port"
	tel "taskhub/internal/core/telemetry"
	"taskhub/pkg/logger"
)

// FriendService drives the friend-request lifecycle. A request moves from
// pending to accepted or rejected, and either terminal state removes it, so
// the same pair may start over.
type FriendService struct {
	friends   port.FriendRepository
	users     port.UserRepository
	telemetry port.Telemetry
	log       *logger.Logger
}

func NewFriendService(friends port.FriendRepository, users port.UserRepository, telemetry port.Telemetry, log *logger.Logger) *FriendService {
	return &FriendService{
		friends:   friends,
		users:     users,
		telemetry: telemetry,
		log:       log,
	}
}

func (fs *FriendService) ListDiscoverable(ctx context.Context, userID uuid.UUID) (_ []domain.UserSummary, err error) {
	ctx, span := fs.telemetry.StartServiceSpan(ctx, "friend", "ListDiscoverable", userID.String(), nil)
	defer func() { tel.EndSpan(span, err) }()

	users, err := fs.friends.ListDiscoverable(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("error listing users", err)
	}

	return users, nil
}

func (fs *FriendService) SendRequest(ctx context.Context, senderID, recipientID uuid.UUID) (_ domain.FriendRequest, err error) {
	ctx, span := fs.telemetry.StartServiceSpan(ctx, "friend", "SendRequest", senderID.String(), map[string]interface{}{
		"recipient.id": recipientID.String(),
	})
	defer func() { tel.EndSpan(span, err) }()

	if senderID == recipientID {
		return domain.FriendRequest{}, domain.ErrSelfFriendRequest
	}

	for _, id := range []uuid.UUID{senderID, recipientID} {
		if err := fs.ensureUser(ctx, id); err != nil {
			return domain.FriendRequest{}, err
		}
	}

	blocked, err := fs.isBlocked(ctx, senderID, recipientID)
	if err != nil {
		return domain.FriendRequest{}, domain.NewInternalError("error checking friendship", err)
	}
	if blocked {
		return domain.FriendRequest{}, domain.ErrFriendRequestExists
	}

	request, err := fs.friends.CreateRequest(ctx, domain.NewFriendRequest(senderID, recipientID, now()))
	if errors.Is(err, port.ErrDuplicate) {
		return domain.FriendRequest{}, domain.ErrFriendRequestExists
	}
	if err != nil {
		return domain.FriendRequest{}, domain.NewInternalError("error creating friend request", err)
	}

	fs.log.Ctx(ctx).Info("Friend#SendRequest",
		zap.String("request_id", request.ID.String()),
		zap.String("sender_id", senderID.String()),
		zap.String("recipient_id", recipientID.String()))

	fs.telemetry.RecordBusinessEvent(ctx, "friend_request_sent", "friend", request.ID.String(), senderID.String(), map[string]interface{}{
		"recipient_id": recipientID.String(),
	})

	return request, nil
}

// AcceptRequest consumes a request addressed to userID and records the
// friendship in both directions.
func (fs *FriendService) AcceptRequest(ctx context.Context, userID, requestID uuid.UUID) (err error) {
	ctx, span := fs.telemetry.StartServiceSpan(ctx, "friend", "AcceptRequest", userID.String(), map[string]interface{}{
		"request.id": requestID.String(),
	})
	defer func() { tel.EndSpan(span, err) }()

	if err := fs.ensureUser(ctx, userID); err != nil {
		return err
	}

	request, err := fs.friends.GetPendingRequest(ctx, userID, requestID)
	if err != nil {
		return translate(err, domain.ErrFriendRequestNotFound, "error loading friend request")
	}

	if err := fs.friends.AcceptRequest(ctx, request); err != nil {
		return translate(err, domain.ErrFriendRequestNotFound, "error accepting friend request")
	}

	fs.telemetry.RecordBusinessEvent(ctx, "friend_request_accepted", "friend", requestID.String(), userID.String(), map[string]interface{}{
		"sender_id": request.SenderID.String(),
	})

	return nil
}

func (fs *FriendService) RejectRequest(ctx context.Context, userID, requestID uuid.UUID) (err error) {
	ctx, span := fs.telemetry.StartServiceSpan(ctx, "friend", "RejectRequest", userID.String(), map[string]interface{}{
		"request.id": requestID.String(),
	})
	defer func() { tel.EndSpan(span, err) }()

	if err := fs.ensureUser(ctx, userID); err != nil {
		return err
	}

	if err := fs.friends.DeleteRequest(ctx, userID, requestID); err != nil {
		return translate(err, domain.ErrFriendRequestNotFound, "error rejecting friend request")
	}

	fs.telemetry.RecordBusinessEvent(ctx, "friend_request_rejected", "friend", requestID.String(), userID.String(), nil)

	return nil
}

func (fs *FriendService) ListFriends(ctx context.Context, userID uuid.UUID) (_ []domain.UserSummary, err error) {
	ctx, span := fs.telemetry.StartServiceSpan(ctx, "friend", "ListFriends", userID.String(), nil)
	defer func() { tel.EndSpan(span, err) }()

	if err := fs.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	friends, err := fs.friends.ListFriends(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("error listing friends", err)
	}

	return friends, nil
}

func (fs *FriendService) ListPendingRequests(ctx context.Context, userID uuid.UUID) (_ []domain.FriendRequest, err error) {
	ctx, span := fs.telemetry.StartServiceSpan(ctx, "friend", "ListPendingRequests", userID.String(), nil)
	defer func() { tel.EndSpan(span, err) }()

	if err := fs.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := fs.friends.ListPendingRequests(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("error listing friend requests", err)
	}

	return requests, nil
}

func (fs *FriendService) ensureUser(ctx context.Context, id uuid.UUID) error {
	_, err := fs.users.GetByID(ctx, id)
	return translate(err, domain.ErrUserNotFound, "error looking up user")
}

// isBlocked reports whether the pair is already connected or has a pending
// request in either direction.
func (fs *FriendService) isBlocked(ctx context.Context, senderID, recipientID uuid.UUID) (bool, error) {
	friends, err := fs.friends.AreFriends(ctx, senderID, recipientID)
	if err != nil || friends {
		return friends, err
	}

	outgoing, err := fs.friends.HasPendingRequest(ctx, senderID, recipientID)
	if err != nil || outgoing {
		return outgoing, err
	}

	return fs.friends.HasPendingRequest(ctx, recipientID, senderID)
}
