package domain

import (
	"time"

	"github.com/google/uuid"
)

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest is a request from Sender to Recipient. Accepted and rejected
// requests are removed from the store, so a persisted request is pending.
type FriendRequest struct {
	ID          uuid.UUID
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Status      FriendRequestStatus
	CreatedAt   time.Time
	Sender      *UserSummary
}

func NewFriendRequest(senderID, recipientID uuid.UUID, now time.Time) FriendRequest {
	return FriendRequest{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      FriendRequestPending,
		CreatedAt:   now,
	}
}

func (r *FriendRequest) IsAddressedTo(userID uuid.UUID) bool {
	return r.RecipientID == userID
}
