package server

import (
	"net/http"
	"time"

	"dishtalgia-backend/internal/contact"
	"dishtalgia-backend/internal/notify"

	"github.com/gin-gonic/gin"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "dishtalgia-backend"})
}

func (s *Server) dbStatus(c *gin.Context) {
	ctx, cancel := s.ctx(c)
	defer cancel()

	if err := s.deps.DB.HealthCheck(ctx); err != nil {
		body := gin.H{"status": "error", "message": "MongoDB connection failed"}
		if !s.production() {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "MongoDB connection successful"})
}

func (s *Server) testDB(c *gin.Context) {
	ctx, cancel := s.ctx(c)
	defer cancel()

	st, err := s.deps.DB.Status(ctx)
	if err != nil {
		body := gin.H{"success": false, "error": "Failed to connect to database"}
		if !s.production() {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}

	body := gin.H{
		"success":              true,
		"database":             st.Database,
		"collections":          st.Collections,
		"hasOrdersCollection":  st.HasOrdersCollection,
		"ordersCollectionSize": "N/A",
	}
	if st.OrdersCollectionSize != nil {
		body["ordersCollectionSize"] = *st.OrdersCollectionSize
	}
	c.JSON(http.StatusOK, body)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (s *Server) submitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid JSON in request body", err)
		return
	}
	ctx, cancel := s.ctx(c)
	defer cancel()

	ip := c.GetHeader("X-Forwarded-For")
	if ip == "" {
		ip = c.ClientIP()
	}
	m, err := s.deps.Contact.Submit(ctx, contact.Submission{
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		IP:        ip,
		UserAgent: c.GetHeader("User-Agent"),
		Referrer:  c.GetHeader("Referer"),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      m.ID.Hex(),
		"message": "Your message has been sent successfully!",
	})
}

type notifyFailedOrderRequest struct {
	PayPalOrderID string     `json:"paypalOrderId"`
	Error         string     `json:"error"`
	Timestamp     *time.Time `json:"timestamp"`
}

func (s *Server) notifyFailedOrder(c *gin.Context) {
	var req notifyFailedOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body", err)
		return
	}
	r := notify.Report{
		PayPalOrderID: req.PayPalOrderID,
		Error:         req.Error,
		UserEmail:     sessionEmail(c),
	}
	if req.Timestamp != nil {
		r.Timestamp = *req.Timestamp
	}
	ctx, cancel := s.ctx(c)
	defer cancel()

	if _, err := s.deps.Notifier.Notify(ctx, r); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Failed order logged for admin review"})
}
