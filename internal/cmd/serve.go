package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dishtalgia-backend/internal/account"
	"dishtalgia-backend/internal/auth"
	"dishtalgia-backend/internal/cart"
	"dishtalgia-backend/internal/catalog"
	"dishtalgia-backend/internal/checkout"
	"dishtalgia-backend/internal/config"
	"dishtalgia-backend/internal/contact"
	"dishtalgia-backend/internal/database"
	"dishtalgia-backend/internal/notify"
	"dishtalgia-backend/internal/order"
	"dishtalgia-backend/internal/payment"
	"dishtalgia-backend/internal/server"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			log.Error("failed to close MongoDB", slog.Any("err", err))
		}
	}()

	products := catalog.NewMongoRepository(db)
	cartRepo := cart.NewMongoRepository(db)
	orderRepo := order.NewMongoRepository(db)
	userRepo := account.NewMongoRepository(db)
	contactRepo := contact.NewMongoRepository(db)
	failures := notify.NewMongoStore(db)

	idxCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = database.EnsureIndexes(idxCtx, products, cartRepo, orderRepo, userRepo, contactRepo, failures)
	cancel()
	if err != nil {
		return err
	}

	var cartCache cart.Cache = cart.NopCache{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, cart cache disabled", slog.Any("err", err))
		} else {
			cartCache = cart.NewRedisCache(rdb, cfg.Redis.CartTTL)
		}
	}

	var publisher notify.Publisher
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := notify.DialRabbit(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			log.Warn("rabbitmq unavailable, failed order alerts are stored only", slog.Any("err", err))
		} else {
			defer rabbit.Close()
			publisher = rabbit
		}
	}

	carts := cart.NewService(cartRepo, cartCache, products, log)
	orders := order.NewService(orderRepo, carts, nil, order.Options{
		TaxRate:           cfg.Orders.TaxRate,
		OptimisticPayment: cfg.Orders.OptimisticPayment,
	}, log)
	notifier := notify.NewNotifier(failures, publisher, log)

	checkoutSvc, err := newCheckout(cfg, orders, notifier, log)
	if err != nil {
		return err
	}

	tokens := auth.NewTokens(cfg.Session.Secret, cfg.Session.MaxAge, cfg.Session.UpdateAge)
	srv := server.New(server.Deps{
		DB:       db,
		Products: products,
		Carts:    carts,
		Orders:   orders,
		Checkout: checkoutSvc,
		Notifier: notifier,
		Accounts: account.NewService(userRepo, log),
		Logins:   auth.NewAuthenticator(userRepo),
		Sessions: auth.NewManager(tokens, cfg.IsProduction(), log),
		Contact:  contact.NewService(contactRepo, log),
	}, server.Options{
		Env:         cfg.App.Env,
		CORSOrigins: cfg.Server.CORSOrigins,
		StaticDir:   cfg.Server.StaticDir,
	}, log)

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", cfg.Server.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newCheckout returns nil when no payment provider is configured, which
// leaves the checkout route unregistered.
func newCheckout(cfg *config.Config, orders *order.Service, notifier *notify.Notifier, log *slog.Logger) (*checkout.Service, error) {
	if !cfg.PayPal.Enabled() {
		log.Warn("paypal credentials missing, server side checkout disabled")
		return nil, nil
	}
	pp, err := payment.NewPayPal(cfg.PayPal, "", log)
	if err != nil {
		return nil, err
	}
	capturer := payment.NewBreaker(pp, payment.DefaultBreakerSettings(), log)
	return checkout.NewService(orders, capturer, notifier, log), nil
}
