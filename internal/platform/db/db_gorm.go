// Package db はgormによるデータベース接続を提供します。
package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	lookupadapters "snapshop_backend/internal/feature/lookup/adapters"
	"snapshop_backend/internal/platform/config"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Config はPostgreSQL接続に必要な情報です。
type Config struct {
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	InstanceName string
	SSLMode      string
}

// Opener はDSNからDBを開く関数です。テストで差し替えます。
type Opener func(dsn string) (*gorm.DB, error)

// FromDatabaseConfig はアプリケーション設定から接続情報を組み立てます。
func FromDatabaseConfig(c config.DatabaseConfig) Config {
	return Config{
		User:         c.User,
		Password:     c.Password,
		Name:         c.Name,
		Host:         c.Host,
		Port:         c.Port,
		InstanceName: c.InstanceName,
		SSLMode:      c.SSLMode,
	}
}

// BuildDSN はPostgreSQL用のDSN文字列を生成します。
// InstanceName が設定されている場合はCloud SQLのUnixソケットを優先します。
func BuildDSN(cfg Config) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	if cfg.InstanceName != "" {
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.InstanceName, cfg.User, cfg.Password, cfg.Name, sslmode)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)
}

// ConnectWithRetry は timeout に達するまで retryInterval 間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		time.Sleep(retryInterval)
	}
}

// OpenDB は設定されたドライバーでDBを開き、必要に応じてマイグレーションを実行します。
// ドライバーが "none" の場合は (nil, nil) を返し、検索ログは記録されません。
func OpenDB(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "none":
		logger.Info("database disabled; search logs will not be recorded")
		return nil, nil
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %q: %w", cfg.SQLitePath, err)
		}
		logger.Info("using sqlite", zap.String("path", cfg.SQLitePath))
	case "postgres":
		opener := func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gcfg)
		}
		db, err = ConnectWithRetry(BuildDSN(FromDatabaseConfig(cfg)), cfg.ConnectTimeout, opener)
		if err != nil {
			return nil, err
		}
		logger.Info("using postgres", zap.String("host", cfg.Host), zap.String("instance", cfg.InstanceName))
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	if cfg.Migrate {
		if err := db.AutoMigrate(&lookupadapters.SearchLogModel{}); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return db, nil
}
