package server

import (
	"net/http"
	"strconv"

	"dishtalgia-backend/internal/cart"

	"github.com/gin-gonic/gin"
)

func cartResponse(ct *cart.Cart) gin.H {
	return gin.H{
		"items":     ct.Items,
		"total":     ct.Total(),
		"itemCount": ct.ItemCount(),
	}
}

func (s *Server) getCart(c *gin.Context) {
	ctx, cancel := s.ctx(c)
	defer cancel()

	ct, err := s.deps.Carts.Get(ctx, sessionEmail(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(ct))
}

type addCartItemRequest struct {
	ProductID int    `json:"productId" binding:"required"`
	SizeID    string `json:"sizeId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (s *Server) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body", err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	ctx, cancel := s.ctx(c)
	defer cancel()

	ct, err := s.deps.Carts.AddItem(ctx, sessionEmail(c), req.ProductID, req.SizeID, req.Quantity)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(ct))
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (s *Server) updateCartItem(c *gin.Context) {
	productID, ok := s.productIDParam(c)
	if !ok {
		return
	}
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body", err)
		return
	}
	ctx, cancel := s.ctx(c)
	defer cancel()

	ct, err := s.deps.Carts.UpdateQuantity(ctx, sessionEmail(c), productID, c.Param("sizeId"), *req.Quantity)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(ct))
}

func (s *Server) removeCartItem(c *gin.Context) {
	productID, ok := s.productIDParam(c)
	if !ok {
		return
	}
	ctx, cancel := s.ctx(c)
	defer cancel()

	ct, err := s.deps.Carts.RemoveItem(ctx, sessionEmail(c), productID, c.Param("sizeId"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(ct))
}

func (s *Server) clearCart(c *gin.Context) {
	ctx, cancel := s.ctx(c)
	defer cancel()

	if err := s.deps.Carts.Clear(ctx, sessionEmail(c)); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": []cart.Line{}, "total": 0, "itemCount": 0})
}

func (s *Server) productIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		s.badRequest(c, "Invalid product id", err)
		return 0, false
	}
	return id, true
}
