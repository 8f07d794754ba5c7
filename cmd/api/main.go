package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"game-market/internal/config"
	"game-market/internal/db"
	"game-market/internal/httpserver"
	"game-market/internal/metrics"
	gamerepo "game-market/internal/repository/game"
	purchaserepo "game-market/internal/repository/purchase"
	tokenrepo "game-market/internal/repository/token"
	userrepo "game-market/internal/repository/user"
	purchasesvc "game-market/internal/service/purchase"
	usersvc "game-market/internal/service/user"
	"game-market/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var (
		sessions    session.Store
		readyChecks []httpserver.ReadyCheck
	)
	if cfg.RedisURL != "" {
		client, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		defer client.Close()
		sessions = session.NewRedis(client, cfg.SessionTTL)
		readyChecks = append(readyChecks, httpserver.ReadyCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
		logger.Printf("form sessions stored in redis (ttl %s)", cfg.SessionTTL)
	} else {
		sessions = session.NewMemory(cfg.SessionTTL)
		logger.Printf("REDIS_URL not set, form sessions kept in memory (ttl %s)", cfg.SessionTTL)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	userRepo := userrepo.NewPostgres(dbpool, logger)
	userService := usersvc.New(userRepo, tokenrepo.NewPostgres(dbpool))
	purchaseService := purchasesvc.New(
		purchaserepo.NewPostgres(dbpool),
		gamerepo.NewPostgres(dbpool),
		userRepo,
		sessions,
		m,
		logger,
	)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		UserSvc:        userService,
		PurchaseSvc:    purchaseService,
		Gatherer:       reg,
		AllowedOrigins: cfg.AllowedOrigins,
		ReadyChecks:    readyChecks,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	go purgeTokens(ctx, logger, userService, cfg.TokenPurgeInterval)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("received shutdown signal")
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

func purgeTokens(ctx context.Context, logger *log.Logger, svc *usersvc.Service, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PurgeExpiredTokens(ctx)
			if err != nil {
				logger.Printf("purge tokens: %v", err)
				continue
			}
			if n > 0 {
				logger.Printf("purged %d expired tokens", n)
			}
		}
	}
}
