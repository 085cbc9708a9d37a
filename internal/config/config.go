package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Server     ServerConfig
	LLM        LLMConfig
	Router     RouterConfig
	Session    SessionConfig
	Tools      ToolsConfig
	Safety     SafetyConfig
	SelfHosted bool
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// JWTConfig holds JWT authentication settings.
type JWTConfig struct {
	Secret    string //nolint:gosec // G117: JWT signing secret config
	AccessTTL time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
	RatePerSec   float64
	RateBurst    int
}

// LLMConfig holds generation provider settings. Most agents run on the
// fast default model; scheduling gets the strong one. The router classifies
// with the fast model and retries once on the strong fallback.
type LLMConfig struct {
	BaseURL         string
	APIKey          string //nolint:gosec // G117: provider credential config
	DefaultModel    string
	SchedulingModel string
	RouterModel     string
	RouterFallback  string
	MaxTokens       int
	Timeout         time.Duration
}

// RouterConfig holds classification settings.
type RouterConfig struct {
	ConfidenceThreshold float64
}

// SessionConfig holds conversational state settings.
type SessionConfig struct {
	TTL          time.Duration
	MaxUnits     int
	MaxCondensed int
}

// ToolsConfig holds the backends agents can call and the per-call bound.
type ToolsConfig struct {
	CalendarURL  string
	KnowledgeURL string
	Timeout      time.Duration
	MaxRounds    int
}

// SafetyConfig holds the screening service settings. Disabled means the
// pass-through gate.
type SafetyConfig struct {
	URL     string
	Enabled bool
	Timeout time.Duration
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// sensitive values (JWT secret, DB password) must be set explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("FRONTDESK_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("FRONTDESK_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("FRONTDESK_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	accessTTL, err := getEnvDuration("FRONTDESK_JWT_ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("FRONTDESK_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("FRONTDESK_SERVER_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	ratePerSec, err := getEnvFloat("FRONTDESK_RATE_PER_SEC", 10)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateBurst, err := getEnvInt("FRONTDESK_RATE_BURST", 20)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	llmMaxTokens, err := getEnvInt("FRONTDESK_LLM_MAX_TOKENS", 1024)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	llmTimeout, err := getEnvDuration("FRONTDESK_LLM_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	confidence, err := getEnvFloat("FRONTDESK_CONFIDENCE_THRESHOLD", 0.7)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	sessionTTL, err := getEnvDuration("FRONTDESK_SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	maxUnits, err := getEnvInt("FRONTDESK_SESSION_MAX_UNITS", 40)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	maxCondensed, err := getEnvInt("FRONTDESK_SESSION_MAX_CONDENSED", 10)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	toolTimeout, err := getEnvDuration("FRONTDESK_TOOL_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	maxRounds, err := getEnvInt("FRONTDESK_TOOL_MAX_ROUNDS", 6)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	safetyEnabled, err := getEnvBool("FRONTDESK_SAFETY_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	safetyTimeout, err := getEnvDuration("FRONTDESK_SAFETY_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	selfHosted, err := getEnvBool("FRONTDESK_SELF_HOSTED", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("FRONTDESK_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("FRONTDESK_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("FRONTDESK_DB_USER", "frontdesk"),
			Password: getEnv("FRONTDESK_DB_PASSWORD", ""),
			DBName:   getEnv("FRONTDESK_DB_NAME", "frontdesk_dev"),
			SSLMode:  getEnv("FRONTDESK_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("FRONTDESK_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("FRONTDESK_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:    getEnv("FRONTDESK_JWT_SECRET", ""),
			AccessTTL: accessTTL,
		},
		Server: ServerConfig{
			Addr:         getEnv("FRONTDESK_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
			RatePerSec:   ratePerSec,
			RateBurst:    rateBurst,
		},
		LLM: LLMConfig{
			BaseURL:         getEnv("FRONTDESK_LLM_BASE_URL", "https://api.anthropic.com"),
			APIKey:          getEnv("FRONTDESK_LLM_API_KEY", ""),
			DefaultModel:    getEnv("FRONTDESK_LLM_DEFAULT_MODEL", "claude-3-5-haiku-20241022"),
			SchedulingModel: getEnv("FRONTDESK_LLM_SCHEDULING_MODEL", "claude-sonnet-4-20250514"),
			RouterModel:     getEnv("FRONTDESK_LLM_ROUTER_MODEL", "claude-3-5-haiku-20241022"),
			RouterFallback:  getEnv("FRONTDESK_LLM_ROUTER_FALLBACK", "claude-sonnet-4-20250514"),
			MaxTokens:       llmMaxTokens,
			Timeout:         llmTimeout,
		},
		Router: RouterConfig{
			ConfidenceThreshold: confidence,
		},
		Session: SessionConfig{
			TTL:          sessionTTL,
			MaxUnits:     maxUnits,
			MaxCondensed: maxCondensed,
		},
		Tools: ToolsConfig{
			CalendarURL:  getEnv("FRONTDESK_CALENDAR_URL", "http://localhost:9090"),
			KnowledgeURL: getEnv("FRONTDESK_KNOWLEDGE_URL", "http://localhost:9091"),
			Timeout:      toolTimeout,
			MaxRounds:    maxRounds,
		},
		Safety: SafetyConfig{
			URL:     getEnv("FRONTDESK_SAFETY_URL", "http://localhost:9092"),
			Enabled: safetyEnabled,
			Timeout: safetyTimeout,
		},
		SelfHosted: selfHosted,
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// JWT secret is required (no insecure default).
	if c.JWT.Secret == "" {
		return errors.New("FRONTDESK_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("FRONTDESK_JWT_SECRET must be at least 32 characters")
	}

	// DB SSL mode warning for non-self-hosted deployments.
	if c.Database.SSLMode == "disable" && !c.SelfHosted {
		log.Warn().Msg("FRONTDESK_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("FRONTDESK_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("FRONTDESK_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.JWT.AccessTTL <= 0 {
		return fmt.Errorf("FRONTDESK_JWT_ACCESS_TTL must be positive, got %s", c.JWT.AccessTTL)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("FRONTDESK_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("FRONTDESK_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Router.ConfidenceThreshold <= 0 || c.Router.ConfidenceThreshold > 1 {
		return fmt.Errorf("FRONTDESK_CONFIDENCE_THRESHOLD must be in (0,1], got %g", c.Router.ConfidenceThreshold)
	}
	if c.Session.MaxUnits < 2 {
		return fmt.Errorf("FRONTDESK_SESSION_MAX_UNITS must be >= 2, got %d", c.Session.MaxUnits)
	}
	if c.Session.MaxCondensed < 1 {
		return fmt.Errorf("FRONTDESK_SESSION_MAX_CONDENSED must be >= 1, got %d", c.Session.MaxCondensed)
	}
	if c.Tools.MaxRounds < 1 {
		return fmt.Errorf("FRONTDESK_TOOL_MAX_ROUNDS must be >= 1, got %d", c.Tools.MaxRounds)
	}
	if c.Safety.Enabled && c.Safety.URL == "" {
		return errors.New("FRONTDESK_SAFETY_URL is required when safety screening is enabled")
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
