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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"snapshop_backend/internal/app/di"
	"snapshop_backend/internal/app/router"
	lookuphandler "snapshop_backend/internal/feature/lookup/transport/handler"
	"snapshop_backend/internal/platform/config"
	"snapshop_backend/internal/platform/http/handler"
	"snapshop_backend/internal/platform/logger"
	"snapshop_backend/internal/shared/ratelimiter"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load(os.Getenv("SNAPSHOP_CONFIG"))
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("creating a logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DI
	c, err := di.NewContainer(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("building dependencies", zap.Error(err))
	}
	defer func() {
		if err := c.Close(); err != nil {
			zl.Error("closing dependencies", zap.Error(err))
		}
	}()

	// Handler
	healthH := handler.NewHealthHandler(map[string]handler.Check{
		"redis":    handler.RedisCheck(c.Redis),
		"database": handler.DBCheck(c.DB),
	})
	lookupH := lookuphandler.NewLookupHandler(c.Lookup, zl)

	// クライアントIPごとのレート制限（0で無効）
	var limiter ratelimiter.RateLimiterInterface
	if rl := ratelimiter.NewRateLimiter(cfg.Server.RateLimitPerMinute, time.Minute); rl != nil {
		limiter = rl
	}

	// ルータ生成
	r := router.NewRouter(zl, cfg.Server.AllowedOrigins, limiter, healthH, lookupH)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Server.Environment),
			zap.Bool("dry_run", cfg.Search.DryRun),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
