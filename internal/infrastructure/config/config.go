package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cart      CartConfig
	Pricing   PricingConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds the SQLite settings for the coupon registry and the
// order archive
type DatabaseConfig struct {
	Path string
}

// RedisConfig holds Redis connection settings for the cart store. When
// Enabled is false the server falls back to the in-memory store
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// CartConfig holds cart behavior settings
type CartConfig struct {
	// CouponValidationTimeout bounds a single registry lookup; a lookup
	// exceeding it fails closed
	CouponValidationTimeout time.Duration
	// MirrorFlushInterval is the coalescing window for persistence writes;
	// only the last state written within a window reaches the store
	MirrorFlushInterval time.Duration
	// LastOrderTTL bounds how long an unconsumed order confirmation survives
	LastOrderTTL time.Duration
}

// ShippingStep is one row of the shipping tariff table
type ShippingStep struct {
	MinUnits int     `mapstructure:"min_units"`
	Price    float64 `mapstructure:"price"`
}

// PricingConfig holds the storefront pricing constants. These are business
// policy, loaded from configuration rather than hard-coded in the domain
type PricingConfig struct {
	MaxUnits         int
	CustomizationFee float64
	ShippingSteps    []ShippingStep
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // 0.0-1.0, 1.0 = 100%
	ServiceName       string
	Insecure          bool // Use insecure (non-TLS) connection (development only)
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with STOREFRONT_ prefix (e.g., STOREFRONT_REDIS_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cart: CartConfig{
			CouponValidationTimeout: v.GetDuration("cart.coupon_validation_timeout"),
			MirrorFlushInterval:     v.GetDuration("cart.mirror_flush_interval"),
			LastOrderTTL:            v.GetDuration("cart.last_order_ttl"),
		},
		Pricing: PricingConfig{
			MaxUnits:         v.GetInt("pricing.max_units"),
			CustomizationFee: v.GetFloat64("pricing.customization_fee"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
		},
	}

	if err := v.UnmarshalKey("pricing.shipping_steps", &cfg.Pricing.ShippingSteps); err != nil {
		return nil, fmt.Errorf("invalid pricing.shipping_steps: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storefront-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "storefront.db"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Cart.CouponValidationTimeout == 0 {
		cfg.Cart.CouponValidationTimeout = 2 * time.Second
	}
	if cfg.Cart.MirrorFlushInterval == 0 {
		cfg.Cart.MirrorFlushInterval = 300 * time.Millisecond
	}
	if cfg.Cart.LastOrderTTL == 0 {
		cfg.Cart.LastOrderTTL = 24 * time.Hour
	}
	if cfg.Pricing.MaxUnits == 0 {
		cfg.Pricing.MaxUnits = 7
	}
	if cfg.Pricing.CustomizationFee == 0 {
		cfg.Pricing.CustomizationFee = 20
	}
	if len(cfg.Pricing.ShippingSteps) == 0 {
		cfg.Pricing.ShippingSteps = []ShippingStep{
			{MinUnits: 1, Price: 25},
			{MinUnits: 2, Price: 20},
			{MinUnits: 3, Price: 15},
			{MinUnits: 4, Price: 0},
		}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	// NOTE: CORS origins are intentionally not given a default fallback to "*".
	// An empty list means no cross-origin requests are allowed until explicitly
	// configured. In development, use config.toml to set specific origins like
	// ["http://localhost:3000"]
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID", "X-Session-ID"}
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0 // 100% in development
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "storefront-backend"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Pricing.MaxUnits < 1 {
		return fmt.Errorf("pricing.max_units must be at least 1")
	}
	if c.Pricing.CustomizationFee < 0 {
		return fmt.Errorf("pricing.customization_fee cannot be negative")
	}
	for _, step := range c.Pricing.ShippingSteps {
		if step.MinUnits < 1 {
			return fmt.Errorf("pricing.shipping_steps min_units must be at least 1")
		}
		if step.Price < 0 {
			return fmt.Errorf("pricing.shipping_steps price cannot be negative")
		}
	}

	if c.App.Env == "production" {
		if c.Redis.Enabled && c.Redis.Password == "" {
			return fmt.Errorf("redis.password is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// Addr returns the Redis connection address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
