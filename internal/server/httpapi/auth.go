package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/buildhub/internal/server/accounts"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	res, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.failErr(c, err, "")
		return
	}
	respond(c, http.StatusOK, res, "Login successful", nil)
}

func (h *Handler) profile(c *gin.Context) {
	respond(c, http.StatusOK, currentAdmin(c), "", nil)
}

func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Current and new password are required")
		return
	}

	err := h.accounts.ChangePassword(c.Request.Context(), currentAdmin(c).ID, req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, accounts.ErrWrongPassword):
		fail(c, http.StatusBadRequest, "Current password is incorrect")
	case errors.Is(err, accounts.ErrWeakPassword):
		fail(c, http.StatusBadRequest, "Password must be at least 6 characters")
	case err != nil:
		h.failErr(c, err, "Admin not found")
	default:
		respond(c, http.StatusOK, nil, "Password changed successfully", nil)
	}
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email is required")
		return
	}
	if err := h.accounts.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.failErr(c, err, "")
		return
	}
	respond(c, http.StatusOK, nil, "If the email is registered, a reset link has been sent", nil)
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Token and new password are required")
		return
	}

	err := h.accounts.ResetPassword(c.Request.Context(), req.Token, req.NewPassword)
	switch {
	case errors.Is(err, accounts.ErrInvalidResetToken):
		fail(c, http.StatusBadRequest, "Reset link is invalid or has expired")
	case errors.Is(err, accounts.ErrWeakPassword):
		fail(c, http.StatusBadRequest, "Password must be at least 6 characters")
	case err != nil:
		h.failErr(c, err, "")
	default:
		respond(c, http.StatusOK, nil, "Password reset successfully", nil)
	}
}
