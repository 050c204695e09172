package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendHTTP   = "http"
	BackendGemini = "gemini"
	BackendMock   = "mock"

	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds every runtime setting of the service.
type Config struct {
	AppEnv       string `mapstructure:"app_env"`
	IsStaging    bool   `mapstructure:"-"`
	IsProduction bool   `mapstructure:"-"`

	Port        string   `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"-"`

	DBDriver string `mapstructure:"db_driver"`
	DBDSN    string `mapstructure:"db_dsn"`

	JWTSecret string        `mapstructure:"jwt_secret_key"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`

	AIBackend    string        `mapstructure:"ai_backend"`
	AIServiceURL string        `mapstructure:"ai_service_url"`
	AITimeout    time.Duration `mapstructure:"ai_timeout"`
	GeminiAPIKey string        `mapstructure:"gemini_api_key"`
	GeminiModel  string        `mapstructure:"gemini_model"`

	UploadDir      string `mapstructure:"upload_dir"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	MaxTextBytes   int64  `mapstructure:"max_text_bytes"`

	// runtime tunables
	RateLimitWindowSeconds int `mapstructure:"rate_limit_window_seconds"`
	RateLimitCapacity      int `mapstructure:"rate_limit_capacity"`
	UserConcurrencyLimit   int `mapstructure:"user_concurrency_limit"`

	LogJSON  bool `mapstructure:"log_json"`
	LogDebug bool `mapstructure:"log_debug"`
}

var keys = map[string]any{
	"app_env":                   "staging",
	"port":                      "5000",
	"cors_origins":              "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000,http://127.0.0.1:3000",
	"db_driver":                 DriverSQLite,
	"db_dsn":                    "app.db",
	"jwt_secret_key":            "",
	"token_ttl":                 "24h",
	"ai_backend":                BackendHTTP,
	"ai_service_url":            "http://localhost:8000/ai",
	"ai_timeout":                "120s",
	"gemini_api_key":            "",
	"gemini_model":              "gemini-2.0-flash",
	"upload_dir":                filepath.Join(os.TempDir(), "neuraflow-uploads"),
	"max_upload_bytes":          10 << 20,
	"max_text_bytes":            2 << 20,
	"rate_limit_window_seconds": 10,
	"rate_limit_capacity":       5,
	"user_concurrency_limit":    2,
	"log_json":                  false,
	"log_debug":                 false,
}

// loadDotEnv loads .env outside production. A missing file is not an error.
func loadDotEnv() error {
	if os.Getenv("APP_ENV") == "production" {
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env file: %w", err)
	}
	return nil
}

// Load resolves the configuration from the environment, an optional .env file
// and an optional config file. v may be nil, in which case a fresh viper
// instance is used.
func Load(v *viper.Viper, file string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	if v == nil {
		v = viper.New()
	}

	for k, def := range keys {
		v.SetDefault(k, def)
		// AutomaticEnv alone does not make Unmarshal see env-only keys
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, fmt.Errorf("binding %s: %w", strings.ToUpper(k), err)
		}
	}
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.CORSOrigins = splitList(v.GetString("cors_origins"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	if !slices.Contains([]string{"staging", "production"}, c.AppEnv) {
		return fmt.Errorf("APP_ENV must be 'staging' or 'production', got %q", c.AppEnv)
	}
	c.IsStaging = c.AppEnv == "staging"
	c.IsProduction = c.AppEnv == "production"

	if c.IsProduction && strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET_KEY must be set in production")
	}
	if c.JWTSecret == "" {
		c.JWTSecret = "dev-only-secret"
	}

	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	if !slices.Contains([]string{DriverSQLite, DriverMySQL}, c.DBDriver) {
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverMySQL, c.DBDriver)
	}

	c.AIBackend = strings.ToLower(strings.TrimSpace(c.AIBackend))
	switch c.AIBackend {
	case BackendHTTP:
		if strings.TrimSpace(c.AIServiceURL) == "" {
			return errors.New("AI_SERVICE_URL is required for the http backend")
		}
	case BackendGemini:
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			return errors.New("GEMINI_API_KEY is required for the gemini backend")
		}
	case BackendMock:
	default:
		return fmt.Errorf("AI_BACKEND must be one of http, gemini, mock, got %q", c.AIBackend)
	}

	if c.TokenTTL <= 0 {
		c.TokenTTL = 24 * time.Hour
	}
	if c.AITimeout <= 0 {
		c.AITimeout = 120 * time.Second
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 10 << 20
	}
	if c.MaxTextBytes <= 0 {
		c.MaxTextBytes = 2 << 20
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
