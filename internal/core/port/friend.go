package port

import (
	"context"

	"github.com/google/uuid"

	"taskhub/internal/core/domain"
)

type FriendRepository interface {
	ListDiscoverable(ctx context.Context, userID uuid.UUID) ([]domain.UserSummary, error)
	ListFriends(ctx context.Context, userID uuid.UUID) ([]domain.UserSummary, error)
	AreFriends(ctx context.Context, userID, otherID uuid.UUID) (bool, error)
	HasPendingRequest(ctx context.Context, senderID, recipientID uuid.UUID) (bool, error)
	CreateRequest(ctx context.Context, request domain.FriendRequest) (domain.FriendRequest, error)
	GetPendingRequest(ctx context.Context, recipientID, requestID uuid.UUID) (domain.FriendRequest, error)
	ListPendingRequests(ctx context.Context, recipientID uuid.UUID) ([]domain.FriendRequest, error)

	// AcceptRequest removes the request and records both friendship
	// directions atomically.
	AcceptRequest(ctx context.Context, request domain.FriendRequest) error
	DeleteRequest(ctx context.Context, recipientID, requestID uuid.UUID) error
}

type FriendService interface {
	ListDiscoverable(ctx context.Context, userID uuid.UUID) ([]domain.UserSummary, error)
	SendRequest(ctx context.Context, senderID, recipientID uuid.UUID) (domain.FriendRequest, error)
	AcceptRequest(ctx context.Context, userID, requestID uuid.UUID) error
	RejectRequest(ctx context.Context, userID, requestID uuid.UUID) error
	ListFriends(ctx context.Context, userID uuid.UUID) ([]domain.UserSummary, error)
	ListPendingRequests(ctx context.Context, userID uuid.UUID) ([]domain.FriendRequest, error)
}
