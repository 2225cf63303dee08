package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel  string
	Server    ServerConfig
	Database  DatabaseConfig
	App       AppConfig
	Redis     RedisConfig
	NATS      NATSConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Engine          string
	Filename        string
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	AutoMigrate     bool
}

type AppConfig struct {
	// StaticURL overrides the compiled-in static base URL when not empty.
	StaticURL     string
	MountPath     string
	Debug         bool
	SessionSecret string
	SessionMaxAge time.Duration
	SecureCookies bool
	CheckTimeout  time.Duration
	UserAgent     string
}

type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	TTL          time.Duration
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type NATSConfig struct {
	Enabled bool
	URL     string
	Subject string
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
)

func Load() (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	sessionMaxAge, err := time.ParseDuration(getEnv("SESSION_MAX_AGE", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_MAX_AGE: %w", err)
	}

	checkTimeout, err := time.ParseDuration(getEnv("FEED_CHECK_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid FEED_CHECK_TIMEOUT: %w", err)
	}

	redisTTL, err := time.ParseDuration(getEnv("REDIS_TTL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	cfg := &Config{
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Engine:          strings.ToLower(getEnv("DB_ENGINE", EngineSQLite)),
			Filename:        getEnv("DB_FILENAME", "data/coldsweat.db"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "coldsweat"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 10 * time.Minute,
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		App: AppConfig{
			StaticURL:     getEnv("STATIC_URL", ""),
			MountPath:     getEnv("MOUNT_PATH", ""),
			Debug:         getEnvBool("DEBUG", false),
			SessionSecret: getEnv("SESSION_SECRET", ""),
			SessionMaxAge: sessionMaxAge,
			SecureCookies: getEnvBool("SECURE_COOKIES", false),
			CheckTimeout:  checkTimeout,
			UserAgent:     getEnv("USER_AGENT", "Coldsweat/1.0 (+https://github.com/Yathushan/coldsweat)"),
		},
		Redis: RedisConfig{
			Enabled:      getEnvBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           redisDB,
			TTL:          redisTTL,
			PoolSize:     4,
			MinIdleConns: 0,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		NATS: NATSConfig{
			Enabled: getEnvBool("NATS_ENABLED", false),
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Subject: getEnv("NATS_FEED_SUBJECT", "coldsweat.feeds.added"),
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvBool("RATE_LIMIT_ENABLED", true),
			RPS:     rps,
			Burst:   burst,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints. Load calls it; tests building a
// Config by hand may call it too.
func (c *Config) Validate() error {
	switch c.Database.Engine {
	case EngineSQLite:
		if strings.TrimSpace(c.Database.Filename) == "" {
			return fmt.Errorf("DB_FILENAME is required when DB_ENGINE=sqlite")
		}
	case EnginePostgres:
		if strings.TrimSpace(c.Database.Database) == "" {
			return fmt.Errorf("DB_NAME is required when DB_ENGINE=postgres")
		}
	default:
		return fmt.Errorf("unknown DB_ENGINE %q, should be sqlite or postgres", c.Database.Engine)
	}

	if err := ValidateStaticURL(c.App.StaticURL); c.App.StaticURL != "" && err != nil {
		return fmt.Errorf("invalid STATIC_URL: %w", err)
	}

	if c.App.MountPath != "" && (!strings.HasPrefix(c.App.MountPath, "/") || strings.HasSuffix(c.App.MountPath, "/")) {
		return fmt.Errorf("MOUNT_PATH must start with a slash and must not end with one")
	}

	if strings.TrimSpace(c.App.SessionSecret) == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}

	if c.App.SessionMaxAge <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE must be positive")
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return nil
}

// ValidateStaticURL accepts a root path ("/static"), a root-relative
// subdirectory path ("/coldsweat/static") or an absolute http(s) URL.
// A trailing slash is never allowed.
func ValidateStaticURL(staticURL string) error {
	switch {
	case staticURL == "":
		return fmt.Errorf("static URL is empty")
	case strings.HasSuffix(staticURL, "/"):
		return fmt.Errorf("static URL %q must not end with a slash", staticURL)
	case strings.HasPrefix(staticURL, "/"),
		strings.HasPrefix(staticURL, "http://"),
		strings.HasPrefix(staticURL, "https://"):
		return nil
	default:
		return fmt.Errorf("static URL %q must be a root path or an absolute URL", staticURL)
	}
}

func (c *DatabaseConfig) DSN() string {
	if c.Engine == EngineSQLite {
		return c.Filename
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
