package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidJWTSecret   = errors.New("jwt secret must be at least 32 bytes")
	ErrInvalidValue       = errors.New("invalid environment value")
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Configはアプリ全体の設定
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Security SecurityConfig
	Tracing  TracingConfig

	TokenCleanupInterval time.Duration
}

type AppConfig struct {
	Name              string
	Version           string
	Description       string
	Env               string // development/production/test
	Port              string
	SwaggerEnabled    bool
	GraphQLPlayground bool
	CookieSecure      bool
}

type DatabaseConfig struct {
	URL             string // DATABASE_URL があれば最優先
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogQueries      bool
	AutoMigrate     bool
}

type JWTConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
	Issuer        string
}

type CORSConfig struct {
	Origins     []string
	Credentials bool
}

type LogConfig struct {
	Level      string
	Format     string // json/text
	File       string // 空ならstdoutのみ
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type SecurityConfig struct {
	BcryptCost    int
	AuthRateLimit float64 // IPごとの秒間リクエスト数
	// trueのときだけX-Forwarded-Forを見る（前段がプライベートアドレスのプロキシ）
	TrustProxy bool
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Protocol    string // grpc / http/protobuf
}

func (c Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// DSNはgorm/pgx用の接続文字列
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Loadは環境変数から設定を読む
func Load() (Config, error) {
	env := getEnv("APP_ENV", EnvDevelopment)
	switch env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return Config{}, fmt.Errorf("%w: APP_ENV=%q", ErrInvalidValue, env)
	}
	prod := env == EnvProduction

	name := getEnv("APP_NAME", "user-service")
	origins := splitList(getEnv("CORS_ORIGINS", "*"))

	var errs []error
	durationOf := func(key string, def time.Duration) time.Duration {
		d, err := getDurationEnv(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return d
	}
	intOf := func(key string, def int) int {
		i, err := getIntEnv(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return i
	}
	boolOf := func(key string, def bool) bool {
		b, err := getBoolEnv(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return b
	}

	cfg := Config{
		App: AppConfig{
			Name:              name,
			Version:           getEnv("APP_VERSION", "1.0.0"),
			Description:       getEnv("APP_DESCRIPTION", "User management backend with REST and GraphQL APIs"),
			Env:               env,
			Port:              normalizePort(getEnv("PORT", "8080")),
			SwaggerEnabled:    boolOf("SWAGGER_ENABLED", true),
			GraphQLPlayground: boolOf("GRAPHQL_PLAYGROUND", !prod),
			CookieSecure:      boolOf("COOKIE_SECURE", prod),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "app"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    intOf("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    intOf("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: durationOf("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			LogQueries:      boolOf("DB_LOG_QUERIES", false),
			AutoMigrate:     boolOf("DB_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			AccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
			AccessTTL:     durationOf("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
			RefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
			RefreshTTL:    durationOf("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
			Issuer:        getEnv("JWT_ISSUER", name),
		},
		CORS: CORSConfig{
			Origins:     origins,
			Credentials: boolOf("CORS_CREDENTIALS", !hasWildcard(origins)),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  intOf("LOG_MAX_SIZE_MB", 100),
			MaxBackups: intOf("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: intOf("LOG_MAX_AGE_DAYS", 28),
		},
		Security: SecurityConfig{
			BcryptCost:    intOf("BCRYPT_COST", 12),
			AuthRateLimit: float64(intOf("AUTH_RATE_LIMIT", 10)),
			TrustProxy:    boolOf("TRUST_PROXY", false),
		},
		Tracing: TracingConfig{
			Enabled:     boolOf("OTEL_ENABLED", false),
			ServiceName: getEnv("OTEL_SERVICE_NAME", name),
			Protocol:    getEnv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
		},
		TokenCleanupInterval: durationOf("TOKEN_CLEANUP_INTERVAL", time.Hour),
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	//必須チェック
	if cfg.JWT.AccessSecret == "" {
		return Config{}, fmt.Errorf("%w: JWT_ACCESS_SECRET", ErrMissingRequiredEnv)
	}
	if cfg.JWT.RefreshSecret == "" {
		return Config{}, fmt.Errorf("%w: JWT_REFRESH_SECRET", ErrMissingRequiredEnv)
	}
	if err := validateJWTSecret("JWT_ACCESS_SECRET", cfg.JWT.AccessSecret); err != nil {
		return Config{}, err
	}
	if err := validateJWTSecret("JWT_REFRESH_SECRET", cfg.JWT.RefreshSecret); err != nil {
		return Config{}, err
	}
	if cfg.JWT.AccessTTL <= 0 || cfg.JWT.RefreshTTL <= 0 {
		return Config{}, fmt.Errorf("%w: token lifetimes must be positive", ErrInvalidValue)
	}

	// ブラウザは * と credentials の組み合わせを受け付けない
	if cfg.CORS.Credentials && hasWildcard(cfg.CORS.Origins) {
		return Config{}, fmt.Errorf("%w: CORS_CREDENTIALS=true requires explicit CORS_ORIGINS", ErrInvalidValue)
	}

	switch cfg.Log.Format {
	case "json", "text":
	default:
		return Config{}, fmt.Errorf("%w: LOG_FORMAT=%q", ErrInvalidValue, cfg.Log.Format)
	}

	switch cfg.Tracing.Protocol {
	case "grpc", "http/protobuf":
	default:
		return Config{}, fmt.Errorf("%w: OTEL_EXPORTER_OTLP_PROTOCOL=%q", ErrInvalidValue, cfg.Tracing.Protocol)
	}

	return cfg, nil
}

func validateJWTSecret(key, secret string) error {
	if len(secret) < 32 {
		return fmt.Errorf("%w: %s got %d bytes", ErrInvalidJWTSecret, key, len(secret))
	}
	return nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidValue, key, err)
	}
	return d, nil
}

func getIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be number", ErrInvalidValue, key)
	}
	return i, nil
}

func getBoolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be boolean", ErrInvalidValue, key)
	}
	return b, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func hasWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func normalizePort(v string) string {
	if strings.HasPrefix(v, ":") {
		return v
	}
	return ":" + v
}
