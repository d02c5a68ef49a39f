package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dishtalgia-backend/internal/account"
	"dishtalgia-backend/internal/auth"
	"dishtalgia-backend/internal/cart"
	"dishtalgia-backend/internal/catalog"
	"dishtalgia-backend/internal/checkout"
	"dishtalgia-backend/internal/config"
	"dishtalgia-backend/internal/contact"
	"dishtalgia-backend/internal/database"
	"dishtalgia-backend/internal/order"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Database is the part of the store the health endpoints need.
type Database interface {
	HealthCheck(ctx context.Context) error
	Status(ctx context.Context) (*database.Status, error)
}

type Deps struct {
	DB       Database
	Products catalog.Repository
	Carts    *cart.Service
	Orders   *order.Service
	Checkout *checkout.Service
	Notifier checkout.FailureNotifier
	Accounts *account.Service
	Logins   *auth.Authenticator
	Sessions *auth.Manager
	Contact  *contact.Service
}

type Options struct {
	Env            string
	CORSOrigins    []string
	StaticDir      string
	RequestTimeout time.Duration
}

type Server struct {
	router *gin.Engine
	deps   Deps
	opts   Options
	log    *slog.Logger
}

func New(deps Deps, opts Options, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"http://localhost:3000"}
	}
	if opts.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{router: gin.New(), deps: deps, opts: opts, log: log}
	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) production() bool {
	return s.opts.Env == config.EnvProduction
}

// ctx bounds store calls made on behalf of a request.
func (s *Server) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.opts.RequestTimeout)
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(requestID(), requestLogger(s.log), recovery(s.log, s.production()))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", HeaderRequestID},
		ExposeHeaders:    []string{HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(s.deps.Sessions.Authenticate(), auth.PageGuard())

	r.GET("/health", s.health)

	api := r.Group("/api")
	{
		api.GET("/db-status", s.dbStatus)
		api.GET("/test-db", s.testDB)

		api.POST("/auth/register", s.register)
		api.POST("/auth/login", s.login)
		api.POST("/auth/logout", s.logout)
		api.GET("/auth/session", s.session)

		api.GET("/products", s.listProducts)
		api.GET("/products/:slug", s.getProduct)

		api.POST("/contact", s.submitContact)
		api.POST("/admin/notify-failed-order", s.notifyFailedOrder)
	}

	authed := api.Group("", auth.RequireSession())
	{
		authed.GET("/account/current", s.currentAccount)
		authed.POST("/account/update", s.updateAccount)
		authed.POST("/account/change-password", s.changePassword)

		authed.GET("/cart", s.getCart)
		authed.POST("/cart/items", s.addCartItem)
		authed.PUT("/cart/items/:productId/:sizeId", s.updateCartItem)
		authed.DELETE("/cart/items/:productId/:sizeId", s.removeCartItem)
		authed.POST("/cart/clear", s.clearCart)

		authed.GET("/orders", s.listOrders)
		authed.GET("/orders/:id", s.getOrder)
		authed.POST("/orders/create", s.createOrder)
		authed.POST("/orders/update-payment", s.updatePayment)

		if s.deps.Checkout != nil {
			authed.POST("/checkout/complete", s.completeCheckout)
		}
	}

	if s.opts.StaticDir != "" {
		r.NoRoute(s.serveStatic)
	}
}

// serveStatic serves files from the frontend build, falling back to
// index.html so client side routes resolve.
func (s *Server) serveStatic(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	root, err := filepath.Abs(s.opts.StaticDir)
	if err != nil {
		s.respondError(c, err)
		return
	}
	p := filepath.Join(root, filepath.FromSlash(filepath.Clean("/"+c.Request.URL.Path)))
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		c.File(p)
		return
	}
	c.File(filepath.Join(root, "index.html"))
}
