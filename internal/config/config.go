package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Content store drivers.
const (
	ContentStorePostgres = "postgres"
	ContentStoreMongo    = "mongo"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Postgres  PostgresConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Content   ContentConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Search    SearchConfig
	LLM       LLMConfig
	Seed      SeedConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// HTTPConfig holds transport hardening options.
type HTTPConfig struct {
	AllowedOrigins string
	TrustProxy     bool
	BodyLimitBytes int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// MongoConfig is only used when the content store driver is mongo.
type MongoConfig struct {
	URI            string
	Database       string
	Collection     string
	TimeoutSeconds int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ContentConfig selects the content document store.
type ContentConfig struct {
	Store           string
	CacheTTLSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// RateLimitConfig is a fixed window per client IP.
type RateLimitConfig struct {
	Enabled       bool
	WindowSeconds int
	Max           int
}

// SearchConfig points at an optional Meilisearch instance for FAQ search.
type SearchConfig struct {
	MeiliURL    string
	MeiliAPIKey string
	FaqIndex    string
}

// LLMConfig configures the chat completion provider.
type LLMConfig struct {
	APIKey         string
	Model          string
	MaxTokens      int
	Temperature    float64
	SystemPrompt   string
	TimeoutSeconds int
}

// SeedConfig feeds the seed command.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	DefaultSiteID string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	temperature, err := strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.7"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TEMPERATURE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "landing-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", getEnv("PORT", "4000")),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		HTTP: HTTPConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			TrustProxy:     getEnvAsBool("TRUST_PROXY", true),
			BodyLimitBytes: getEnvAsInt("HTTP_BODY_LIMIT_BYTES", 1<<20),
		},
		Postgres: PostgresConfig{
			DSN:            getEnv("POSTGRES_DSN", os.Getenv("DATABASE_URL")),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGO_URL", ""),
			Database:       getEnv("MONGO_DATABASE", "landing"),
			Collection:     getEnv("MONGO_CONTENT_COLLECTION", "sitecontents"),
			TimeoutSeconds: getEnvAsInt("MONGO_TIMEOUT_SECONDS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Content: ContentConfig{
			Store:           strings.ToLower(getEnv("CONTENT_STORE", ContentStorePostgres)),
			CacheTTLSeconds: getEnvAsInt("CONTENT_CACHE_TTL_SECONDS", 60),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", getEnv("JWT_SECRET", "dev-secret")),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 7*24*60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			Max:           getEnvAsInt("RATE_LIMIT_MAX", 50),
		},
		Search: SearchConfig{
			MeiliURL:    os.Getenv("MEILI_URL"),
			MeiliAPIKey: os.Getenv("MEILI_API_KEY"),
			FaqIndex:    getEnv("MEILI_FAQ_INDEX", "help_faqs"),
		},
		LLM: LLMConfig{
			APIKey:         getEnv("LLM_API_KEY", os.Getenv("ANTHROPIC_API_KEY")),
			Model:          getEnv("LLM_MODEL", "claude-3-5-haiku-latest"),
			MaxTokens:      getEnvAsInt("LLM_MAX_TOKENS", 300),
			Temperature:    temperature,
			SystemPrompt:   getEnv("LLM_SYSTEM_PROMPT", defaultSystemPrompt),
			TimeoutSeconds: getEnvAsInt("LLM_TIMEOUT_SECONDS", 30),
		},
		Seed: SeedConfig{
			AdminEmail:    os.Getenv("ADMIN_EMAIL"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
			DefaultSiteID: getEnv("DEFAULT_SITE_ID", "bufete-ejemplo"),
		},
	}

	return cfg, nil
}

const defaultSystemPrompt = "Eres el asistente de ayuda de un despacho de abogados. " +
	"Responde de forma breve y clara. No des asesoría legal definitiva; sugiere agendar una consulta."

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}
	if c.App.IsProduction() && c.Auth.JWTSecret == "dev-secret" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be set in production"))
	}
	switch c.Content.Store {
	case ContentStorePostgres:
	case ContentStoreMongo:
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("MONGO_URL is required when CONTENT_STORE=mongo"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CONTENT_STORE %q", c.Content.Store))
	}
	if c.RateLimit.Enabled && (c.RateLimit.WindowSeconds <= 0 || c.RateLimit.Max <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW_SECONDS and RATE_LIMIT_MAX must be positive"))
	}
	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsProduction reports whether APP_ENV names a production deployment.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production") || strings.EqualFold(a.Env, "prod")
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// CacheTTL returns how long public content stays cached.
func (c ContentConfig) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Window returns the rate limit window.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// Timeout returns the Mongo operation timeout.
func (m MongoConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// Timeout returns the completion request timeout.
func (l LLMConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
