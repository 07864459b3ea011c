package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	Log    LogConfig
	Cache  CacheConfig
	Tax    TaxConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`

	// AllowedOrigins are the browser origins permitted by CORS.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DBConfig holds PostgreSQL connection settings. The HSN master is read from
// the database only when Enabled is set.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds the settings used to verify admin bearer tokens.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CacheConfig holds rate cache settings.
type CacheConfig struct {
	Backend       string        `mapstructure:"backend"`
	TTL           time.Duration `mapstructure:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

// ProviderConfig holds settings for a single external tax-rate API.
// A provider with an empty BaseURL is disabled.
type ProviderConfig struct {
	Name        string  `mapstructure:"name"`
	BaseURL     string  `mapstructure:"base_url"`
	Style       string  `mapstructure:"style"`
	QueryParam  string  `mapstructure:"query_param"`
	APIKey      string  `mapstructure:"api_key"`
	TimeoutSecs int     `mapstructure:"timeout_secs"`
	RatePerSec  float64 `mapstructure:"rate_per_sec"`
	Burst       int     `mapstructure:"burst"`
}

// Enabled reports whether the provider is configured.
func (p *ProviderConfig) Enabled() bool {
	return strings.TrimSpace(p.BaseURL) != ""
}

// TaxConfig holds rate resolution settings.
type TaxConfig struct {
	Concurrency int            `mapstructure:"concurrency"`
	Primary     ProviderConfig `mapstructure:"primary"`
	Secondary   ProviderConfig `mapstructure:"secondary"`
}

// Providers returns the provider configs in resolution order.
func (t *TaxConfig) Providers() []ProviderConfig {
	return []ProviderConfig{t.Primary, t.Secondary}
}

// Load reads configuration from environment variables with the GSTRATE_ prefix.
// Every setting has a default; with no environment at all the service resolves
// rates from the compiled-in table and an in-process cache.
func Load() (*Config, error) {
	// A local .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GSTRATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// DB defaults
	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "gstrate")
	v.SetDefault("db.password", "gstrate_secret")
	v.SetDefault("db.name", "gstrate_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "storefront")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Cache defaults
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	// Tax defaults
	v.SetDefault("tax.concurrency", 5)
	v.SetDefault("tax.primary.name", "primary")
	v.SetDefault("tax.primary.base_url", "")
	v.SetDefault("tax.primary.style", "query")
	v.SetDefault("tax.primary.query_param", "hsn")
	v.SetDefault("tax.primary.api_key", "")
	v.SetDefault("tax.primary.timeout_secs", 5)
	v.SetDefault("tax.primary.rate_per_sec", 0)
	v.SetDefault("tax.primary.burst", 1)
	v.SetDefault("tax.secondary.name", "secondary")
	v.SetDefault("tax.secondary.base_url", "")
	v.SetDefault("tax.secondary.style", "path")
	v.SetDefault("tax.secondary.query_param", "hsn")
	v.SetDefault("tax.secondary.api_key", "")
	v.SetDefault("tax.secondary.timeout_secs", 5)
	v.SetDefault("tax.secondary.rate_per_sec", 0)
	v.SetDefault("tax.secondary.burst", 1)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "GSTRATE_SERVER_PORT",
		"server.read_timeout":        "GSTRATE_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "GSTRATE_SERVER_WRITE_TIMEOUT",
		"server.environment":         "GSTRATE_SERVER_ENVIRONMENT",
		"server.allowed_origins":     "GSTRATE_SERVER_ALLOWED_ORIGINS",
		"db.enabled":                 "GSTRATE_DB_ENABLED",
		"db.host":                    "GSTRATE_DB_HOST",
		"db.port":                    "GSTRATE_DB_PORT",
		"db.user":                    "GSTRATE_DB_USER",
		"db.password":                "GSTRATE_DB_PASSWORD",
		"db.name":                    "GSTRATE_DB_NAME",
		"db.sslmode":                 "GSTRATE_DB_SSLMODE",
		"db.max_open":                "GSTRATE_DB_MAX_OPEN",
		"db.max_idle":                "GSTRATE_DB_MAX_IDLE",
		"jwt.secret":                 "GSTRATE_JWT_SECRET",
		"jwt.issuer":                 "GSTRATE_JWT_ISSUER",
		"log.level":                  "GSTRATE_LOG_LEVEL",
		"log.format":                 "GSTRATE_LOG_FORMAT",
		"cache.backend":              "GSTRATE_CACHE_BACKEND",
		"cache.ttl":                  "GSTRATE_CACHE_TTL",
		"cache.redis_addr":           "GSTRATE_CACHE_REDIS_ADDR",
		"cache.redis_password":       "GSTRATE_CACHE_REDIS_PASSWORD",
		"cache.redis_db":             "GSTRATE_CACHE_REDIS_DB",
		"tax.concurrency":            "GSTRATE_TAX_CONCURRENCY",
		"tax.primary.name":           "GSTRATE_TAX_PRIMARY_NAME",
		"tax.primary.base_url":       "GSTRATE_TAX_PRIMARY_BASE_URL",
		"tax.primary.style":          "GSTRATE_TAX_PRIMARY_STYLE",
		"tax.primary.query_param":    "GSTRATE_TAX_PRIMARY_QUERY_PARAM",
		"tax.primary.api_key":        "GSTRATE_TAX_PRIMARY_API_KEY",
		"tax.primary.timeout_secs":   "GSTRATE_TAX_PRIMARY_TIMEOUT_SECS",
		"tax.primary.rate_per_sec":   "GSTRATE_TAX_PRIMARY_RATE_PER_SEC",
		"tax.primary.burst":          "GSTRATE_TAX_PRIMARY_BURST",
		"tax.secondary.name":         "GSTRATE_TAX_SECONDARY_NAME",
		"tax.secondary.base_url":     "GSTRATE_TAX_SECONDARY_BASE_URL",
		"tax.secondary.style":        "GSTRATE_TAX_SECONDARY_STYLE",
		"tax.secondary.query_param":  "GSTRATE_TAX_SECONDARY_QUERY_PARAM",
		"tax.secondary.api_key":      "GSTRATE_TAX_SECONDARY_API_KEY",
		"tax.secondary.timeout_secs": "GSTRATE_TAX_SECONDARY_TIMEOUT_SECS",
		"tax.secondary.rate_per_sec": "GSTRATE_TAX_SECONDARY_RATE_PER_SEC",
		"tax.secondary.burst":        "GSTRATE_TAX_SECONDARY_BURST",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if GSTRATE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GSTRATE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:           serverPort,
		ReadTimeout:    v.GetDuration("server.read_timeout"),
		WriteTimeout:   v.GetDuration("server.write_timeout"),
		Environment:    v.GetString("server.environment"),
		AllowedOrigins: splitList(v.GetString("server.allowed_origins")),
	}
	cfg.DB = DBConfig{
		Enabled:  v.GetBool("db.enabled"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Cache = CacheConfig{
		Backend:       strings.ToLower(v.GetString("cache.backend")),
		TTL:           v.GetDuration("cache.ttl"),
		RedisAddr:     v.GetString("cache.redis_addr"),
		RedisPassword: v.GetString("cache.redis_password"),
		RedisDB:       v.GetInt("cache.redis_db"),
	}
	cfg.Tax = TaxConfig{
		Concurrency: v.GetInt("tax.concurrency"),
		Primary:     providerConfig(v, "tax.primary"),
		Secondary:   providerConfig(v, "tax.secondary"),
	}

	if cfg.Cache.Backend != "memory" && cfg.Cache.Backend != "redis" {
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", cfg.Cache.TTL)
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) ProviderConfig {
	return ProviderConfig{
		Name:        v.GetString(prefix + ".name"),
		BaseURL:     v.GetString(prefix + ".base_url"),
		Style:       v.GetString(prefix + ".style"),
		QueryParam:  v.GetString(prefix + ".query_param"),
		APIKey:      v.GetString(prefix + ".api_key"),
		TimeoutSecs: v.GetInt(prefix + ".timeout_secs"),
		RatePerSec:  v.GetFloat64(prefix + ".rate_per_sec"),
		Burst:       v.GetInt(prefix + ".burst"),
	}
}

// splitList parses a comma-separated setting, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
