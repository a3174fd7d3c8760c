package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	. "taskhub/internal/adapter/http/helper"
	"taskhub/internal/core/domain"
	"taskhub/internal/core/model/response"
	"taskhub/internal/core/port"
)

type FriendHandler struct {
	svc port.FriendService
}

func NewFriendHandler(svc port.FriendService) *FriendHandler {
	return &FriendHandler{
		svc: svc,
	}
}

func (h *FriendHandler) GetUsers(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	users, err := h.svc.ListDiscoverable(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewUserResponses(users))
}

func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	recipientID, ok := pathID(c, "recipientId", domain.ErrUserNotFound)
	if !ok {
		return
	}

	request, err := h.svc.SendRequest(c.Request.Context(), userID, recipientID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	SendSuccess(c, http.StatusOK, response.FriendRequestSentResponse{
		Message:   "Friend request sent",
		RequestID: request.ID.String(),
	})
}

func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	requestID, ok := pathID(c, "requestId", domain.ErrFriendRequestNotFound)
	if !ok {
		return
	}

	if err := h.svc.AcceptRequest(c.Request.Context(), userID, requestID); err != nil {
		_ = c.Error(err)
		return
	}

	SendMessage(c, http.StatusOK, "Friend request accepted")
}

func (h *FriendHandler) RejectRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	requestID, ok := pathID(c, "requestId", domain.ErrFriendRequestNotFound)
	if !ok {
		return
	}

	if err := h.svc.RejectRequest(c.Request.Context(), userID, requestID); err != nil {
		_ = c.Error(err)
		return
	}

	SendMessage(c, http.StatusOK, "Friend request rejected")
}

func (h *FriendHandler) GetFriends(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	friends, err := h.svc.ListFriends(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewUserResponses(friends))
}

func (h *FriendHandler) GetRequests(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	requests, err := h.svc.ListPendingRequests(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewFriendRequestResponses(requests))
}
