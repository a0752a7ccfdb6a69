// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"snapshop_backend/internal/feature/lookup/adapters"
	"snapshop_backend/internal/feature/lookup/adapters/gemini"
	"snapshop_backend/internal/feature/lookup/adapters/vision"
	"snapshop_backend/internal/feature/lookup/domain/entity"
	lookuphandler "snapshop_backend/internal/feature/lookup/transport/handler"
	"snapshop_backend/internal/feature/lookup/usecase"
	"snapshop_backend/internal/platform/cache"
	"snapshop_backend/internal/platform/config"
	"snapshop_backend/internal/platform/credentials"
	"snapshop_backend/internal/platform/db"
	"snapshop_backend/internal/platform/externalapi/serpapi"
	infrahttp "snapshop_backend/internal/platform/http"
	infraredis "snapshop_backend/internal/platform/redis"
)

// SearchLogStore is the search log repository as seen by the bootstrap and the CLI.
type SearchLogStore interface {
	usecase.SearchLogRepository
	ListRecent(ctx context.Context, limit int) ([]entity.SearchLog, error)
}

// Container holds every long-lived client and the wired lookup usecase.
// Optional dependencies (Redis, DB, Gemini) are nil when not configured.
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	DB         *gorm.DB
	Redis      *redis.Client
	Annotator  *vision.VisionAnnotator
	Searcher   *cache.CachingProductSearcher
	SearchLogs SearchLogStore
	Describer  usecase.Describer
	Lookup     lookuphandler.LookupUsecase
}

// NewContainer builds all dependencies from the configuration.
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{Config: cfg, Logger: logger}

	gdb, err := db.OpenDB(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	c.DB = gdb
	if gdb != nil {
		c.SearchLogs = adapters.NewSearchLogRepository(gdb)
	}

	// Redis unavailable is not fatal; the searcher bypasses the cache.
	rdb, err := infraredis.NewRedisClient(ctx, cfg.Cache, logger)
	if err != nil {
		logger.Warn("redis unavailable; running without cache", zap.Error(err))
	}
	c.Redis = rdb

	annotator, err := NewAnnotator(ctx, cfg, logger)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Annotator = annotator

	c.Searcher = NewProductSearcher(cfg, rdb, logger)

	describer, err := NewDescriber(ctx, cfg)
	if err != nil {
		// captions are debug-only; keep serving without them
		logger.Warn("gemini unavailable; debug captions disabled", zap.Error(err))
	} else if describer != nil {
		c.Describer = describer
	}

	opts := usecase.LookupOptions{
		DryRun:    cfg.Search.DryRun,
		Describer: c.Describer,
		Logger:    logger,
	}
	if c.SearchLogs != nil {
		opts.SearchLog = c.SearchLogs
	}
	c.Lookup = usecase.NewLookupUsecase(c.Annotator, c.Searcher, opts)

	return c, nil
}

// NewAnnotator creates the Vision annotator with credentials resolved from configuration.
func NewAnnotator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*vision.VisionAnnotator, error) {
	opts, method := credentials.GoogleClientOptions(credentials.Source{
		JSON:   cfg.Credentials.JSON,
		Base64: cfg.Credentials.Base64,
		File:   cfg.Credentials.File,
	}, logger)
	logger.Info("google credentials resolved", zap.String("method", string(method)))

	caps := vision.Capabilities{
		Logos:           cfg.Vision.Logos,
		Labels:          cfg.Vision.Labels,
		Text:            cfg.Vision.Text,
		WebEntities:     cfg.Vision.WebEntities,
		Objects:         cfg.Vision.Objects,
		ImageProperties: cfg.Vision.ImageProperties,
	}
	logger.Info("vision capabilities",
		zap.Bool("logos", caps.Logos),
		zap.Bool("labels", caps.Labels),
		zap.Bool("text", caps.Text),
		zap.Bool("web_entities", caps.WebEntities),
		zap.Bool("objects", caps.Objects),
		zap.Bool("image_properties", caps.ImageProperties),
	)

	a, err := vision.NewVisionAnnotator(ctx, caps, opts...)
	if err != nil {
		return nil, err
	}
	return a.WithMaxResults(cfg.Vision.MaxResults), nil
}

// NewProductSearcher creates the SerpApi searcher wrapped by the Redis cache decorator.
func NewProductSearcher(cfg *config.Config, rdb *redis.Client, logger *zap.Logger) *cache.CachingProductSearcher {
	scfg := serpapi.Config{
		APIKey:        cfg.Search.APIKey,
		BaseURL:       cfg.Search.BaseURL,
		Country:       cfg.Search.Country,
		Language:      cfg.Search.Language,
		Timeout:       cfg.Search.Timeout,
		RatePerSecond: cfg.Search.RatePerSecond,
		Burst:         cfg.Search.Burst,
	}
	if scfg.APIKey == "" {
		if !cfg.Search.DryRun {
			logger.Warn("SERPAPI_API_KEY is not set; searches will fail until it is configured")
		}
		// Without a key every search must fail, including queries still held in the cache.
		rdb = nil
	}
	httpClient := infrahttp.NewHTTPClient(scfg.Timeout, "")
	inner := serpapi.NewShoppingSearch(scfg, httpClient, logger)
	return cache.NewCachingProductSearcher(rdb, cfg.Cache.TTL, inner, cache.DefaultNamespace)
}

// NewDescriber creates the Gemini caption client, or returns (nil, nil) when disabled.
func NewDescriber(ctx context.Context, cfg *config.Config) (usecase.Describer, error) {
	if !cfg.Gemini.Enabled {
		return nil, nil
	}
	d, err := gemini.NewGeminiDescriber(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Close releases every client held by the container.
func (c *Container) Close() error {
	var errs []error
	if c.Annotator != nil {
		errs = append(errs, c.Annotator.Close())
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
