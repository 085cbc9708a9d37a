package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helper function tests
// ---------------------------------------------------------------------------

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string // nil = don't set; pointer to distinguish "" from unset
		fallback string
		want     string
	}{
		{name: "returns fallback when unset", key: "FRONTDESK_TEST_GETENV_UNSET", setVal: nil, fallback: "default", want: "default"},
		{name: "returns env value when set", key: "FRONTDESK_TEST_GETENV_SET", setVal: strPtr("custom"), fallback: "default", want: "custom"},
		{name: "returns fallback when empty string", key: "FRONTDESK_TEST_GETENV_EMPTY", setVal: strPtr(""), fallback: "default", want: "default"},
		{name: "preserves whitespace", key: "FRONTDESK_TEST_GETENV_WS", setVal: strPtr("  spaced  "), fallback: "x", want: "  spaced  "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got := getEnv(tc.key, tc.fallback)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback int
		want     int
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "FRONTDESK_TEST_INT_UNSET", setVal: nil, fallback: 42, want: 42},
		{name: "parses valid int", key: "FRONTDESK_TEST_INT_VALID", setVal: strPtr("8080"), fallback: 0, want: 8080},
		{name: "parses negative int", key: "FRONTDESK_TEST_INT_NEG", setVal: strPtr("-1"), fallback: 0, want: -1},
		{name: "returns fallback for empty string", key: "FRONTDESK_TEST_INT_EMPTY", setVal: strPtr(""), fallback: 25, want: 25},
		{name: "errors on non-numeric", key: "FRONTDESK_TEST_INT_NAN", setVal: strPtr("abc"), fallback: 0, wantErr: true},
		{name: "errors on float", key: "FRONTDESK_TEST_INT_FLOAT", setVal: strPtr("3.14"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvInt(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback float64
		want     float64
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "FRONTDESK_TEST_FLOAT_UNSET", setVal: nil, fallback: 0.7, want: 0.7},
		{name: "parses decimal", key: "FRONTDESK_TEST_FLOAT_DEC", setVal: strPtr("0.85"), fallback: 0, want: 0.85},
		{name: "parses integer form", key: "FRONTDESK_TEST_FLOAT_INT", setVal: strPtr("10"), fallback: 0, want: 10},
		{name: "errors on non-numeric", key: "FRONTDESK_TEST_FLOAT_NAN", setVal: strPtr("high"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvFloat(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback bool
		want     bool
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "FRONTDESK_TEST_BOOL_UNSET", setVal: nil, fallback: false, want: false},
		{name: "fallback true when unset", key: "FRONTDESK_TEST_BOOL_UNSETTRUE", setVal: nil, fallback: true, want: true},
		{name: "parses true", key: "FRONTDESK_TEST_BOOL_TRUE", setVal: strPtr("true"), fallback: false, want: true},
		{name: "parses false", key: "FRONTDESK_TEST_BOOL_FALSE", setVal: strPtr("false"), fallback: true, want: false},
		{name: "parses 1", key: "FRONTDESK_TEST_BOOL_ONE", setVal: strPtr("1"), fallback: false, want: true},
		{name: "errors on invalid", key: "FRONTDESK_TEST_BOOL_INV", setVal: strPtr("yes"), fallback: false, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvBool(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback time.Duration
		want     time.Duration
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "FRONTDESK_TEST_DUR_UNSET", setVal: nil, fallback: 5 * time.Second, want: 5 * time.Second},
		{name: "parses seconds", key: "FRONTDESK_TEST_DUR_SEC", setVal: strPtr("30s"), fallback: 0, want: 30 * time.Second},
		{name: "parses composite", key: "FRONTDESK_TEST_DUR_COMP", setVal: strPtr("1h30m"), fallback: 0, want: 90 * time.Minute},
		{name: "errors on invalid", key: "FRONTDESK_TEST_DUR_INV", setVal: strPtr("notaduration"), fallback: 0, wantErr: true},
		{name: "errors on bare number", key: "FRONTDESK_TEST_DUR_BARE", setVal: strPtr("30"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvDuration(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvList(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback []string
		want     []string
	}{
		{name: "returns fallback when unset", key: "FRONTDESK_TEST_LIST_UNSET", setVal: nil, fallback: []string{"a"}, want: []string{"a"}},
		{name: "splits on comma", key: "FRONTDESK_TEST_LIST_SPLIT", setVal: strPtr("a,b,c"), fallback: nil, want: []string{"a", "b", "c"}},
		{name: "trims whitespace", key: "FRONTDESK_TEST_LIST_TRIM", setVal: strPtr(" a , b "), fallback: nil, want: []string{"a", "b"}},
		{name: "drops empty entries", key: "FRONTDESK_TEST_LIST_EMPTY", setVal: strPtr("a,,b,"), fallback: nil, want: []string{"a", "b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			assert.Equal(t, tc.want, getEnvList(tc.key, tc.fallback))
		})
	}
}

// ---------------------------------------------------------------------------
// Load() error cases
// ---------------------------------------------------------------------------

func TestLoad_MissingJWTSecret(t *testing.T) {
	// All defaults apply; JWT secret is empty => must fail.
	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "FRONTDESK_JWT_SECRET")
}

func TestLoad_InvalidEnvVars(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		errMsg string
	}{
		{name: "DB_PORT not a number", envKey: "FRONTDESK_DB_PORT", envVal: "abc", errMsg: "FRONTDESK_DB_PORT"},
		{name: "DB_PORT zero", envKey: "FRONTDESK_DB_PORT", envVal: "0", errMsg: "FRONTDESK_DB_PORT"},
		{name: "DB_PORT too high", envKey: "FRONTDESK_DB_PORT", envVal: "65536", errMsg: "FRONTDESK_DB_PORT"},
		{name: "DB_MAX_CONNS zero", envKey: "FRONTDESK_DB_MAX_CONNS", envVal: "0", errMsg: "FRONTDESK_DB_MAX_CONNS"},
		{name: "JWT_ACCESS_TTL invalid", envKey: "FRONTDESK_JWT_ACCESS_TTL", envVal: "badval", errMsg: "FRONTDESK_JWT_ACCESS_TTL"},
		{name: "JWT_ACCESS_TTL zero", envKey: "FRONTDESK_JWT_ACCESS_TTL", envVal: "0s", errMsg: "FRONTDESK_JWT_ACCESS_TTL"},
		{name: "SERVER_READ_TIMEOUT invalid", envKey: "FRONTDESK_SERVER_READ_TIMEOUT", envVal: "notduration", errMsg: "FRONTDESK_SERVER_READ_TIMEOUT"},
		{name: "SERVER_WRITE_TIMEOUT zero", envKey: "FRONTDESK_SERVER_WRITE_TIMEOUT", envVal: "0s", errMsg: "FRONTDESK_SERVER_WRITE_TIMEOUT"},
		{name: "REDIS_DB not a number", envKey: "FRONTDESK_REDIS_DB", envVal: "abc", errMsg: "FRONTDESK_REDIS_DB"},
		{name: "CONFIDENCE_THRESHOLD not a number", envKey: "FRONTDESK_CONFIDENCE_THRESHOLD", envVal: "high", errMsg: "FRONTDESK_CONFIDENCE_THRESHOLD"},
		{name: "CONFIDENCE_THRESHOLD zero", envKey: "FRONTDESK_CONFIDENCE_THRESHOLD", envVal: "0", errMsg: "FRONTDESK_CONFIDENCE_THRESHOLD"},
		{name: "CONFIDENCE_THRESHOLD above one", envKey: "FRONTDESK_CONFIDENCE_THRESHOLD", envVal: "1.5", errMsg: "FRONTDESK_CONFIDENCE_THRESHOLD"},
		{name: "SESSION_MAX_UNITS too small", envKey: "FRONTDESK_SESSION_MAX_UNITS", envVal: "1", errMsg: "FRONTDESK_SESSION_MAX_UNITS"},
		{name: "SESSION_MAX_CONDENSED zero", envKey: "FRONTDESK_SESSION_MAX_CONDENSED", envVal: "0", errMsg: "FRONTDESK_SESSION_MAX_CONDENSED"},
		{name: "TOOL_MAX_ROUNDS zero", envKey: "FRONTDESK_TOOL_MAX_ROUNDS", envVal: "0", errMsg: "FRONTDESK_TOOL_MAX_ROUNDS"},
		{name: "SAFETY_ENABLED not a bool", envKey: "FRONTDESK_SAFETY_ENABLED", envVal: "yes", errMsg: "FRONTDESK_SAFETY_ENABLED"},
		{name: "SELF_HOSTED not a bool", envKey: "FRONTDESK_SELF_HOSTED", envVal: "yes", errMsg: "FRONTDESK_SELF_HOSTED"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Always set JWT secret so failures are from the var under test.
			t.Setenv("FRONTDESK_JWT_SECRET", "test-secret-for-error-cases-32ch!")
			t.Setenv(tc.envKey, tc.envVal)

			cfg, err := Load()
			require.Error(t, err, "expected error for %s=%q", tc.envKey, tc.envVal)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoad_SafetyURLRequiredWhenEnabled(t *testing.T) {
	t.Setenv("FRONTDESK_JWT_SECRET", "test-secret-for-error-cases-32ch!")
	t.Setenv("FRONTDESK_SAFETY_ENABLED", "true")
	t.Setenv("FRONTDESK_SAFETY_URL", "")

	// Empty env falls back to the default URL, so force the failure path
	// through validate directly.
	cfg, err := Load()
	require.NoError(t, err)
	cfg.Safety.URL = ""
	assert.ErrorContains(t, cfg.validate(), "FRONTDESK_SAFETY_URL")
}

// ---------------------------------------------------------------------------
// Load() happy paths
// ---------------------------------------------------------------------------

func TestLoad_Defaults(t *testing.T) {
	// Only the required JWT secret is set; everything else uses defaults.
	t.Setenv("FRONTDESK_JWT_SECRET", "my-dev-secret-at-least-32-chars!!")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Database defaults.
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "frontdesk", cfg.Database.User)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, "frontdesk_dev", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxConns)

	// Redis defaults.
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Empty(t, cfg.Redis.Password)
	assert.Equal(t, 0, cfg.Redis.DB)

	// JWT defaults.
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)

	// Server defaults.
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.InDelta(t, 10.0, cfg.Server.RatePerSec, 1e-9)
	assert.Equal(t, 20, cfg.Server.RateBurst)

	// Orchestration defaults.
	assert.InDelta(t, 0.7, cfg.Router.ConfidenceThreshold, 1e-9)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 40, cfg.Session.MaxUnits)
	assert.Equal(t, 10, cfg.Session.MaxCondensed)
	assert.Equal(t, 10*time.Second, cfg.Tools.Timeout)
	assert.Equal(t, 6, cfg.Tools.MaxRounds)
	assert.True(t, cfg.Safety.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Safety.Timeout)

	// Self-hosted default.
	assert.False(t, cfg.SelfHosted)
}

func TestLoad_AllCustomValues(t *testing.T) {
	envs := map[string]string{
		// Database
		"FRONTDESK_DB_HOST":      "db.prod.internal",
		"FRONTDESK_DB_PORT":      "5433",
		"FRONTDESK_DB_USER":      "prod_user",
		"FRONTDESK_DB_PASSWORD":  "s3cret!",
		"FRONTDESK_DB_NAME":      "frontdesk_prod",
		"FRONTDESK_DB_SSLMODE":   "require",
		"FRONTDESK_DB_MAX_CONNS": "50",
		// Redis
		"FRONTDESK_REDIS_ADDR":     "redis.prod:6380",
		"FRONTDESK_REDIS_PASSWORD": "redis-pass",
		"FRONTDESK_REDIS_DB":       "3",
		// JWT
		"FRONTDESK_JWT_SECRET":     "prod-jwt-secret-256-bits-long!!!",
		"FRONTDESK_JWT_ACCESS_TTL": "30m",
		// Server
		"FRONTDESK_SERVER_ADDR":          ":9090",
		"FRONTDESK_SERVER_READ_TIMEOUT":  "5s",
		"FRONTDESK_SERVER_WRITE_TIMEOUT": "15s",
		"FRONTDESK_RATE_PER_SEC":         "2.5",
		"FRONTDESK_RATE_BURST":           "5",
		// LLM
		"FRONTDESK_LLM_BASE_URL":         "https://llm.internal",
		"FRONTDESK_LLM_API_KEY":          "sk-test",
		"FRONTDESK_LLM_DEFAULT_MODEL":    "fast-1",
		"FRONTDESK_LLM_SCHEDULING_MODEL": "strong-1",
		"FRONTDESK_LLM_ROUTER_MODEL":     "fast-1",
		"FRONTDESK_LLM_ROUTER_FALLBACK":  "strong-1",
		"FRONTDESK_LLM_MAX_TOKENS":       "2048",
		"FRONTDESK_LLM_TIMEOUT":          "45s",
		// Orchestration
		"FRONTDESK_CONFIDENCE_THRESHOLD":  "0.85",
		"FRONTDESK_SESSION_TTL":           "1h",
		"FRONTDESK_SESSION_MAX_UNITS":     "60",
		"FRONTDESK_SESSION_MAX_CONDENSED": "8",
		"FRONTDESK_CALENDAR_URL":          "https://calendar.internal",
		"FRONTDESK_KNOWLEDGE_URL":         "https://kb.internal",
		"FRONTDESK_TOOL_TIMEOUT":          "8s",
		"FRONTDESK_TOOL_MAX_ROUNDS":       "4",
		"FRONTDESK_SAFETY_URL":            "https://safety.internal",
		"FRONTDESK_SAFETY_ENABLED":        "false",
		"FRONTDESK_SAFETY_TIMEOUT":        "3s",
		// Self-hosted
		"FRONTDESK_SELF_HOSTED": "true",
	}

	for k, v := range envs {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "db.prod.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 50, cfg.Database.MaxConns)

	assert.Equal(t, "redis.prod:6380", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)

	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTTL)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.InDelta(t, 2.5, cfg.Server.RatePerSec, 1e-9)
	assert.Equal(t, 5, cfg.Server.RateBurst)

	assert.Equal(t, "https://llm.internal", cfg.LLM.BaseURL)
	assert.Equal(t, "fast-1", cfg.LLM.DefaultModel)
	assert.Equal(t, "strong-1", cfg.LLM.SchedulingModel)
	assert.Equal(t, "fast-1", cfg.LLM.RouterModel)
	assert.Equal(t, "strong-1", cfg.LLM.RouterFallback)
	assert.Equal(t, 2048, cfg.LLM.MaxTokens)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)

	assert.InDelta(t, 0.85, cfg.Router.ConfidenceThreshold, 1e-9)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, 60, cfg.Session.MaxUnits)
	assert.Equal(t, 8, cfg.Session.MaxCondensed)
	assert.Equal(t, "https://calendar.internal", cfg.Tools.CalendarURL)
	assert.Equal(t, "https://kb.internal", cfg.Tools.KnowledgeURL)
	assert.Equal(t, 8*time.Second, cfg.Tools.Timeout)
	assert.Equal(t, 4, cfg.Tools.MaxRounds)
	assert.Equal(t, "https://safety.internal", cfg.Safety.URL)
	assert.False(t, cfg.Safety.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Safety.Timeout)

	assert.True(t, cfg.SelfHosted)
}

// ---------------------------------------------------------------------------
// DSN() output format
// ---------------------------------------------------------------------------

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "default dev values",
			cfg: DatabaseConfig{
				Host: "localhost", Port: 5432, User: "frontdesk",
				Password: "", DBName: "frontdesk_dev", SSLMode: "disable",
			},
			want: "host=localhost port=5432 user=frontdesk password= dbname=frontdesk_dev sslmode=disable",
		},
		{
			name: "production values",
			cfg: DatabaseConfig{
				Host: "db.prod", Port: 5433, User: "admin",
				Password: "p@ss!", DBName: "frontdesk_prod", SSLMode: "require",
			},
			want: "host=db.prod port=5433 user=admin password=p@ss! dbname=frontdesk_prod sslmode=require",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.cfg.DSN())
		})
	}
}

// ---------------------------------------------------------------------------
// validate() direct tests
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	// validBase returns a Config that passes validation.
	validBase := func() *Config {
		return &Config{
			Database: DatabaseConfig{Port: 5432, MaxConns: 25},
			JWT: JWTConfig{
				Secret:    "test-secret-that-is-at-least-32ch",
				AccessTTL: 15 * time.Minute,
			},
			Server: ServerConfig{
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 60 * time.Second,
			},
			Router:  RouterConfig{ConfidenceThreshold: 0.7},
			Session: SessionConfig{MaxUnits: 40, MaxCondensed: 10},
			Tools:   ToolsConfig{MaxRounds: 6},
			Safety:  SafetyConfig{URL: "http://safety.local", Enabled: true},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validBase().validate())
	})

	t.Run("empty JWT secret fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.JWT.Secret = ""
		assert.ErrorContains(t, c.validate(), "FRONTDESK_JWT_SECRET")
	})

	t.Run("JWT secret too short fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.JWT.Secret = "only-31-characters-long-secret!"
		assert.ErrorContains(t, c.validate(), "FRONTDESK_JWT_SECRET")
	})

	t.Run("port 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Database.Port = 0
		assert.ErrorContains(t, c.validate(), "FRONTDESK_DB_PORT")
	})

	t.Run("confidence threshold 1 passes", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Router.ConfidenceThreshold = 1
		assert.NoError(t, c.validate())
	})

	t.Run("confidence threshold above 1 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Router.ConfidenceThreshold = 1.01
		assert.ErrorContains(t, c.validate(), "FRONTDESK_CONFIDENCE_THRESHOLD")
	})

	t.Run("safety URL optional when disabled", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Safety.Enabled = false
		c.Safety.URL = ""
		assert.NoError(t, c.validate())
	})

	t.Run("max units below 2 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Session.MaxUnits = 1
		assert.ErrorContains(t, c.validate(), "FRONTDESK_SESSION_MAX_UNITS")
	})

	t.Run("max rounds 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Tools.MaxRounds = 0
		assert.ErrorContains(t, c.validate(), "FRONTDESK_TOOL_MAX_ROUNDS")
	})
}

// ---------------------------------------------------------------------------
// Test helper
// ---------------------------------------------------------------------------

func strPtr(s string) *string {
	return &s
}
