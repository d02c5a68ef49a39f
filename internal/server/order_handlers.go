package server

import (
	"net/http"
	"strconv"

	"dishtalgia-backend/internal/order"

	"github.com/gin-gonic/gin"
)

func (s *Server) listOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(order.DefaultPageSize)))
	ctx, cancel := s.ctx(c)
	defer cancel()

	res, err := s.deps.Orders.List(ctx, sessionEmail(c), page, limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if res.Data == nil {
		res.Data = []order.Order{}
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) getOrder(c *gin.Context) {
	ctx, cancel := s.ctx(c)
	defer cancel()

	o, err := s.deps.Orders.Get(ctx, sessionEmail(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type createOrderRequest struct {
	Items     []order.ItemInput `json:"items"`
	PaymentID string            `json:"paymentId"`
}

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "No items in order", err)
		return
	}
	ctx, cancel := s.ctx(c)
	defer cancel()

	o, err := s.deps.Orders.Create(ctx, sessionEmail(c), req.Items, req.PaymentID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"orderId":     o.ID.Hex(),
		"orderNumber": o.OrderNumber,
	})
}

type updatePaymentRequest struct {
	OrderID        string                 `json:"orderId"`
	PaymentDetails map[string]interface{} `json:"paymentDetails"`
	PaymentStatus  string                 `json:"paymentStatus"`
}

func (s *Server) updatePayment(c *gin.Context) {
	var req updatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Missing required fields: orderId and paymentDetails are required", err)
		return
	}
	ctx, cancel := s.ctx(c)
	defer cancel()

	updated, err := s.deps.Orders.UpdatePayment(ctx, sessionEmail(c), req.OrderID, req.PaymentDetails, req.PaymentStatus)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated})
}

type completeCheckoutRequest struct {
	PayPalOrderID string            `json:"paypalOrderId"`
	Items         []order.ItemInput `json:"items"`
}

func (s *Server) completeCheckout(c *gin.Context) {
	var req completeCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body", err)
		return
	}
	ctx, cancel := s.ctx(c)
	defer cancel()

	res, err := s.deps.Checkout.Complete(ctx, sessionEmail(c), req.PayPalOrderID, req.Items)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"orderId":        res.OrderID,
		"orderNumber":    res.OrderNumber,
		"captureId":      res.CaptureID,
		"captureStatus":  res.CaptureStatus,
		"paymentUpdated": res.PaymentUpdated,
	})
}
