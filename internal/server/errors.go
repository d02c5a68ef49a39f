package server

import (
	"errors"
	"log/slog"
	"net/http"

	"dishtalgia-backend/internal/account"
	"dishtalgia-backend/internal/auth"
	"dishtalgia-backend/internal/cart"
	"dishtalgia-backend/internal/catalog"
	"dishtalgia-backend/internal/checkout"
	"dishtalgia-backend/internal/contact"
	"dishtalgia-backend/internal/notify"
	"dishtalgia-backend/internal/order"
	"dishtalgia-backend/internal/payment"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

var errorTable = []errorMapping{
	{order.ErrNoItems, http.StatusBadRequest, "No items in order"},
	{order.ErrInvalidItem, http.StatusBadRequest, ""},
	{order.ErrMissingDetails, http.StatusBadRequest, "Missing required fields: orderId and paymentDetails are required"},
	{order.ErrInvalidID, http.StatusBadRequest, "Invalid order id"},
	{order.ErrInvalidPaymentStatus, http.StatusBadRequest, ""},
	{order.ErrInvalidStatus, http.StatusBadRequest, ""},
	{order.ErrInvalidTransition, http.StatusConflict, ""},
	{order.ErrInvalidPage, http.StatusBadRequest, ""},
	{order.ErrNotFound, http.StatusNotFound, "Order not found or access denied"},
	{cart.ErrInvalidQuantity, http.StatusBadRequest, ""},
	{cart.ErrUnknownSize, http.StatusBadRequest, ""},
	{cart.ErrUnknownProduct, http.StatusNotFound, "Product not found"},
	{catalog.ErrNotFound, http.StatusNotFound, "Product not found"},
	{account.ErrInvalidInput, http.StatusBadRequest, ""},
	{account.ErrWrongPassword, http.StatusBadRequest, "Current password is incorrect"},
	{account.ErrUserExists, http.StatusConflict, "User with this email already exists"},
	{account.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{contact.ErrMissingFields, http.StatusBadRequest, "All fields are required"},
	{contact.ErrInvalidEmail, http.StatusBadRequest, "Please enter a valid email address"},
	{notify.ErrMissingPayPalOrderID, http.StatusBadRequest, "Missing required field: paypalOrderId"},
	{checkout.ErrMissingProviderOrder, http.StatusBadRequest, "Missing required field: paypalOrderId"},
	{payment.ErrCaptureFailed, http.StatusBadGateway, "Payment capture failed"},
}

// respondError writes the error envelope for err. Unknown errors become a
// 500 and carry details only outside production.
func (s *Server) respondError(c *gin.Context, err error) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			body := gin.H{"error": msg}
			if m.status >= http.StatusInternalServerError && !s.production() {
				body["details"] = err.Error()
			}
			c.JSON(m.status, body)
			return
		}
	}

	s.log.Error("request failed",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("requestId", c.GetString(requestIDKey)),
		slog.Any("err", err))
	body := gin.H{"error": "Internal server error"}
	if !s.production() {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

func (s *Server) badRequest(c *gin.Context, message string, err error) {
	body := gin.H{"error": message}
	if err != nil && !s.production() {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}

// sessionEmail returns the email of the authenticated user. Routes behind
// RequireSession always have one.
func sessionEmail(c *gin.Context) string {
	sess, _ := auth.SessionFrom(c)
	if sess == nil {
		return ""
	}
	return sess.Email
}
