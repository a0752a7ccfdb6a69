// Package config はviperを使用してアプリケーション設定を読み込みます。
//
// 優先順位: 環境変数 > config.yaml > デフォルト値。
// 環境変数は SNAPSHOP_ プレフィックス付きのキー（例: SNAPSHOP_SEARCH_DRY_RUN）に加えて、
// SERPAPI_API_KEY や GOOGLE_CREDENTIALS_JSON などの慣用的な名前も受け付けます。
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix は設定キーに対応する環境変数のプレフィックスです。
const EnvPrefix = "SNAPSHOP"

// Config はアプリケーション全体の設定を保持します。
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Vision      VisionConfig      `mapstructure:"vision"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Search      SearchConfig      `mapstructure:"search"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Gemini      GeminiConfig      `mapstructure:"gemini"`
	Log         LogConfig         `mapstructure:"log"`
}

// ServerConfig はHTTPサーバーの設定です。
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// RateLimitPerMinute はクライアントIPごとの /api リクエスト上限です。0で無効。
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`
}

// VisionConfig は起動時に決定する画像注釈機能の有効/無効です。
type VisionConfig struct {
	Logos           bool  `mapstructure:"logos"`
	Labels          bool  `mapstructure:"labels"`
	Text            bool  `mapstructure:"text"`
	WebEntities     bool  `mapstructure:"web_entities"`
	Objects         bool  `mapstructure:"objects"`
	ImageProperties bool  `mapstructure:"image_properties"`
	MaxResults      int32 `mapstructure:"max_results"`
}

// CredentialsConfig はGoogle Cloudの認証情報の取得元です。
// JSON → Base64 → File の順に試し、いずれも無ければADCを使用します。
type CredentialsConfig struct {
	JSON   string `mapstructure:"json"`
	Base64 string `mapstructure:"base64"`
	File   string `mapstructure:"file"`
}

// SearchConfig は商品検索サービスの設定です。
type SearchConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	Country       string        `mapstructure:"country"`
	Language      string        `mapstructure:"language"`
	Timeout       time.Duration `mapstructure:"timeout"`
	DryRun        bool          `mapstructure:"dry_run"`
	RatePerSecond float64       `mapstructure:"rate"`
	Burst         int           `mapstructure:"burst"`
}

// CacheConfig は検索結果キャッシュ（Redis）の設定です。RedisAddr が空の場合キャッシュは無効です。
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// DatabaseConfig は検索ログの保存先の設定です。
type DatabaseConfig struct {
	Driver         string        `mapstructure:"driver"` // "sqlite", "postgres" or "none"
	SQLitePath     string        `mapstructure:"sqlite_path"`
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	Name           string        `mapstructure:"name"`
	InstanceName   string        `mapstructure:"instance_connection_name"`
	SSLMode        string        `mapstructure:"sslmode"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	Migrate        bool          `mapstructure:"migrate"`
}

// GeminiConfig はデバッグ用キャプション生成の設定です。
type GeminiConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Load は設定ファイルと環境変数から設定を読み込みます。
// configFile が空の場合は config.yaml を既定のパスから探し、見つからなければ無視します。
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/snapshop/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind environment: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults はデフォルト値を設定します。
// AutomaticEnv はviperが知っているキーしか Unmarshal に反映しないため、全キーを登録します。
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit_per_minute", 30)

	v.SetDefault("vision.logos", true)
	v.SetDefault("vision.labels", true)
	v.SetDefault("vision.text", true)
	v.SetDefault("vision.web_entities", true)
	v.SetDefault("vision.objects", true)
	v.SetDefault("vision.image_properties", true)
	v.SetDefault("vision.max_results", 10)

	v.SetDefault("credentials.json", "")
	v.SetDefault("credentials.base64", "")
	v.SetDefault("credentials.file", "")

	v.SetDefault("search.api_key", "")
	v.SetDefault("search.base_url", "https://serpapi.com")
	v.SetDefault("search.country", "us")
	v.SetDefault("search.language", "en")
	v.SetDefault("search.timeout", "15s")
	v.SetDefault("search.dry_run", false)
	v.SetDefault("search.rate", 5)
	v.SetDefault("search.burst", 5)

	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", "6h")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlite_path", "./snapshop.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "snapshop")
	v.SetDefault("database.instance_connection_name", "")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.connect_timeout", "60s")
	v.SetDefault("database.migrate", true)

	v.SetDefault("gemini.enabled", false)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// bindEnv はプレフィックスなしの慣用的な環境変数を設定キーに紐付けます。
// 先に列挙した環境変数が優先されます。
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"server.port":                       {"SNAPSHOP_SERVER_PORT", "PORT"},
		"credentials.json":                  {"SNAPSHOP_CREDENTIALS_JSON", "GOOGLE_CREDENTIALS_JSON"},
		"credentials.base64":                {"SNAPSHOP_CREDENTIALS_BASE64", "GOOGLE_CREDENTIALS_BASE64"},
		"credentials.file":                  {"SNAPSHOP_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS"},
		"search.api_key":                    {"SNAPSHOP_SEARCH_API_KEY", "SERPAPI_API_KEY"},
		"cache.redis_addr":                  {"SNAPSHOP_CACHE_REDIS_ADDR", "REDIS_ADDR"},
		"cache.redis_password":              {"SNAPSHOP_CACHE_REDIS_PASSWORD", "REDIS_PASSWORD"},
		"database.host":                     {"SNAPSHOP_DATABASE_HOST", "DB_HOST"},
		"database.port":                     {"SNAPSHOP_DATABASE_PORT", "DB_PORT"},
		"database.user":                     {"SNAPSHOP_DATABASE_USER", "DB_USER"},
		"database.password":                 {"SNAPSHOP_DATABASE_PASSWORD", "DB_PASSWORD"},
		"database.name":                     {"SNAPSHOP_DATABASE_NAME", "DB_NAME"},
		"database.instance_connection_name": {"SNAPSHOP_DATABASE_INSTANCE_CONNECTION_NAME", "INSTANCE_CONNECTION_NAME"},
		"gemini.api_key":                    {"SNAPSHOP_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}

// validate は設定値を検証します。
func validate(cfg *Config) error {
	switch cfg.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("server environment must be 'development', 'staging' or 'production', got: %s", cfg.Server.Environment)
	}

	switch cfg.Database.Driver {
	case "sqlite":
		if cfg.Database.SQLitePath == "" {
			return errors.New("sqlite path is required when database driver is 'sqlite'")
		}
	case "postgres":
		if cfg.Database.Name == "" || cfg.Database.User == "" {
			return errors.New("database name and user are required when database driver is 'postgres'")
		}
	case "none":
	default:
		return fmt.Errorf("database driver must be 'sqlite', 'postgres' or 'none', got: %s", cfg.Database.Driver)
	}

	if cfg.Server.RateLimitPerMinute < 0 {
		return errors.New("server rate limit must not be negative")
	}

	if cfg.Search.Timeout <= 0 {
		return fmt.Errorf("search timeout must be positive, got: %s", cfg.Search.Timeout)
	}
	if cfg.Search.RatePerSecond < 0 || cfg.Search.Burst < 0 {
		return errors.New("search rate and burst must not be negative")
	}

	// SERPAPI_API_KEY の欠落は起動時ではなく検索時のエラーとして扱う
	return nil
}

// IsProduction は本番環境で動作しているかを返します。
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
