package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	. "taskhub/internal/adapter/http/helper"
	"taskhub/internal/core/model/request"
	"taskhub/internal/core/model/response"
	"taskhub/internal/core/port"
)

type AuthHandler struct {
	svc port.AuthService
}

func NewAuthHandler(svc port.AuthService) *AuthHandler {
	return &AuthHandler{
		svc: svc,
	}
}

func (a *AuthHandler) Register(c *gin.Context) {
	params, ok := bind[request.RegisterRequest](c)
	if !ok {
		return
	}

	user, token, err := a.svc.Register(c.Request.Context(), &params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	SendSuccess(c, http.StatusCreated, response.NewAuthResponse(*user, token))
}

func (a *AuthHandler) Login(c *gin.Context) {
	params, ok := bind[request.LoginRequest](c)
	if !ok {
		return
	}

	user, token, err := a.svc.Login(c.Request.Context(), &params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewAuthResponse(*user, token))
}

func (a *AuthHandler) Profile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := a.svc.Profile(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewUserResponse(user.Summary()))
}

func (a *AuthHandler) ForgotPassword(c *gin.Context) {
	params, ok := bind[request.ForgotPasswordRequest](c)
	if !ok {
		return
	}

	token, err := a.svc.ForgotPassword(c.Request.Context(), &params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	SendSuccess(c, http.StatusOK, response.ForgotPasswordResponse{
		Message:    "Password reset token generated",
		ResetToken: token,
	})
}

func (a *AuthHandler) ResetPassword(c *gin.Context) {
	params, ok := bind[request.ResetPasswordRequest](c)
	if !ok {
		return
	}

	if err := a.svc.ResetPassword(c.Request.Context(), c.Param("token"), &params); err != nil {
		_ = c.Error(err)
		return
	}

	SendMessage(c, http.StatusOK, "Password reset successful")
}
