package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listProducts(c *gin.Context) {
	ctx, cancel := s.ctx(c)
	defer cancel()

	products, err := s.deps.Products.List(ctx)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) getProduct(c *gin.Context) {
	ctx, cancel := s.ctx(c)
	defer cancel()

	p, err := s.deps.Products.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
