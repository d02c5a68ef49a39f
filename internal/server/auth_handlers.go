package server

import (
	"net/http"

	"dishtalgia-backend/internal/account"
	"dishtalgia-backend/internal/auth"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Validation failed", err)
		return
	}
	ctx, cancel := s.ctx(c)
	defer cancel()

	u, err := s.deps.Accounts.Register(ctx, account.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "userId": u.ID.Hex()})
}

type loginRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	CallbackURL string `json:"callbackUrl"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Email and password are required", err)
		return
	}
	ctx, cancel := s.ctx(c)
	defer cancel()

	sess, err := s.deps.Logins.Login(ctx, req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}
	token, issued, err := s.deps.Sessions.Start(c, *sess)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":     issued,
		"token":    token,
		"expires":  issued.ExpiresAt,
		"redirect": auth.SafeRedirect(req.CallbackURL, baseURL(c)),
	})
}

func (s *Server) logout(c *gin.Context) {
	s.deps.Sessions.End(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) session(c *gin.Context) {
	sess, ok := auth.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": sess, "expires": sess.ExpiresAt})
}

func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
