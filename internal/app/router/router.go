package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	lookuphandler "snapshop_backend/internal/feature/lookup/transport/handler"
	"snapshop_backend/internal/platform/http/handler"
	"snapshop_backend/internal/platform/http/middleware"
	"snapshop_backend/internal/shared/ratelimiter"
)

// NewRouter はミドルウェアとルートを登録したginエンジンを生成します。
// allowedOrigins が空の場合はCORSを設定しません。limiter が nil の場合は /api を制限しません。
func NewRouter(logger *zap.Logger, allowedOrigins []string, limiter ratelimiter.RateLimiterInterface, health *handler.HealthHandler, lookup *lookuphandler.LookupHandler) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()

	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware(logger))
	if len(allowedOrigins) > 0 {
		r.Use(cors.New(corsConfig(allowedOrigins)))
	}

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(limiter))
	{
		// スクリーンショットから購入候補を検索
		api.POST("/lookup", lookup.Lookup)
		// 旧クライアント向けの別名
		api.POST("/search", lookup.Lookup)
	}

	return r
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "HEAD", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID}
	cfg.ExposeHeaders = []string{middleware.HeaderRequestID}
	for _, o := range allowedOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = allowedOrigins
	cfg.AllowWildcard = true
	cfg.AllowBrowserExtensions = true
	return cfg
}
