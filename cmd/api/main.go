package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chopmate/internal/config"
	"chopmate/internal/db"
	"chopmate/internal/httpserver"
	"chopmate/internal/logging"
	apprepo "chopmate/internal/repository/application"
	cartrepo "chopmate/internal/repository/cart"
	orderrepo "chopmate/internal/repository/order"
	sessionrepo "chopmate/internal/repository/session"
	vendorrepo "chopmate/internal/repository/vendor"
	cartsvc "chopmate/internal/service/cart"
	onboardingsvc "chopmate/internal/service/onboarding"
	ordersvc "chopmate/internal/service/order"
	sessionsvc "chopmate/internal/service/session"
	vendorsvc "chopmate/internal/service/vendor"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	checks := []httpserver.ReadyCheck{{Name: "postgres", Ping: dbpool.Ping}}
	storage, closeStorage, err := cartStorage(ctx, cfg, dbpool, logger)
	if err != nil {
		logger.Fatal("init cart storage", zap.String("backend", cfg.CartStorage), zap.Error(err))
	}
	defer closeStorage()
	if rc, ok := storage.(redisPinger); ok {
		checks = append(checks, httpserver.ReadyCheck{Name: "redis", Ping: rc.Ping})
	}

	vendorRepo := vendorrepo.NewPostgres(dbpool, logger)
	vendorService := vendorsvc.New(vendorRepo, logger)
	promos := cartsvc.DefaultPromos()
	cartService := cartsvc.New(storage, logger, cartsvc.WithPromoResolver(promos))
	orderService := ordersvc.New(cartService, orderrepo.NewPostgres(dbpool, logger), logger)
	onboardingService := onboardingsvc.New(apprepo.NewPostgres(dbpool, logger), logger)
	sessionRepo := sessionrepo.NewPostgres(dbpool, logger)
	sessionService := sessionsvc.New(cfg.SessionTTL, logger, sessionsvc.WithRepository(sessionRepo))

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepExpiredSessions(sweepCtx, sessionRepo, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Sessions:       sessionService,
		Vendors:        vendorService,
		Carts:          cartService,
		Orders:         orderService,
		Onboarding:     onboardingService,
		Promos:         promos,
		ReadyChecks:    checks,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

// sweepExpiredSessions deletes persisted tokens past their expiry once an hour.
func sweepExpiredSessions(ctx context.Context, repo sessionrepo.Repository, logger *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := repo.DeleteExpired(ctx, now.UTC())
			if err != nil {
				logger.Warn("session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("expired sessions removed", zap.Int64("count", n))
			}
		}
	}
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

// cartStorage picks the snapshot backend named by CART_STORAGE.
func cartStorage(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, logger *zap.Logger) (cartrepo.Storage, func(), error) {
	switch cfg.CartStorage {
	case "memory":
		logger.Warn("cart storage is in-process memory, carts are lost on restart")
		return cartrepo.NewMemory(), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("cart storage is redis", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CartTTL))
		return cartrepo.NewRedis(client, cfg.CartTTL), func() { client.Close() }, nil
	case "postgres", "":
		return cartrepo.NewPostgres(pool, logger), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown cart storage %q", cfg.CartStorage)
	}
}
