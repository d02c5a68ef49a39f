package server

import (
	"net/http"

	"dishtalgia-backend/internal/account"

	"github.com/gin-gonic/gin"
)

func (s *Server) currentAccount(c *gin.Context) {
	ctx, cancel := s.ctx(c)
	defer cancel()

	u, err := s.deps.Accounts.Current(ctx, sessionEmail(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) updateAccount(c *gin.Context) {
	var req account.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body", err)
		return
	}
	ctx, cancel := s.ctx(c)
	defer cancel()

	u, err := s.deps.Accounts.UpdateProfile(ctx, sessionEmail(c), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

func (s *Server) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Validation failed", err)
		return
	}
	ctx, cancel := s.ctx(c)
	defer cancel()

	if err := s.deps.Accounts.ChangePassword(ctx, sessionEmail(c), req.CurrentPassword, req.NewPassword); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully"})
}
