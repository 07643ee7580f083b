package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Provider ProviderConfig `mapstructure:"provider"`
	Amadeus  AmadeusConfig  `mapstructure:"amadeus"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Sweep    SweepConfig    `mapstructure:"sweep"`
	Geocoder GeocoderConfig `mapstructure:"geocoder"`
	Airports AirportsConfig `mapstructure:"airports"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`
	WriteTimeout    int `mapstructure:"write_timeout"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ProviderConfig selects the upstream: "amadeus" or the embedded "fixture".
type ProviderConfig struct {
	Name string `mapstructure:"name"`
}

type AmadeusConfig struct {
	APIKey         string  `mapstructure:"api_key"`
	APISecret      string  `mapstructure:"api_secret"`
	Env            string  `mapstructure:"env"`
	Version        string  `mapstructure:"version"`
	BaseURL        string  `mapstructure:"base_url"`
	Timeout        int     `mapstructure:"timeout"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

func (a AmadeusConfig) TimeoutDuration() time.Duration {
	return time.Duration(a.Timeout) * time.Second
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SweepConfig struct {
	Workers          int    `mapstructure:"workers"`
	MaxRetries       int    `mapstructure:"max_retries"`
	RetryDelaysMs    []int  `mapstructure:"retry_delays_ms"`
	TolerateFailures bool   `mapstructure:"tolerate_failures"`
	MaxRangeDays     int    `mapstructure:"max_range_days"`
	ExportDir        string `mapstructure:"export_dir"`
}

func (s SweepConfig) RetryDelays() []time.Duration {
	out := make([]time.Duration, len(s.RetryDelaysMs))
	for i, ms := range s.RetryDelaysMs {
		out[i] = time.Duration(ms) * time.Millisecond
	}
	return out
}

type GeocoderConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
	Timeout   int    `mapstructure:"timeout"`
}

type AirportsConfig struct {
	// Path to a JSON catalog. Empty uses the bundled sample.
	Path           string  `mapstructure:"path"`
	RadiusMiles    float64 `mapstructure:"radius_miles"`
	MatchThreshold float64 `mapstructure:"match_threshold"`
}

// Load reads configuration from .env, an optional config file and
// environment variables, in increasing precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	// Environment variables: FLIGHTFINDER_AMADEUS_API_KEY → amadeus.api_key
	v.SetEnvPrefix("FLIGHTFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 120)
	v.SetDefault("server.shutdown_timeout", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("provider.name", "fixture")
	v.SetDefault("amadeus.api_key", "")
	v.SetDefault("amadeus.api_secret", "")
	v.SetDefault("amadeus.env", "test")
	v.SetDefault("amadeus.version", "v2")
	v.SetDefault("amadeus.base_url", "")
	v.SetDefault("amadeus.timeout", 30)
	v.SetDefault("amadeus.rate_limit_rps", 10)
	v.SetDefault("amadeus.rate_limit_burst", 1)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("sweep.workers", 1)
	v.SetDefault("sweep.max_retries", 0)
	v.SetDefault("sweep.retry_delays_ms", []int{100, 200, 400})
	v.SetDefault("sweep.tolerate_failures", false)
	v.SetDefault("sweep.max_range_days", 30)
	v.SetDefault("sweep.export_dir", "search_results")
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "flightfinder/1.0")
	v.SetDefault("geocoder.timeout", 10)
	// Empty path loads the bundled sample catalog, which only knows a few
	// metro areas; searches then accept any three-letter code unchecked.
	// Point this at an OurAirports export to validate every code.
	v.SetDefault("airports.path", "")
	v.SetDefault("airports.radius_miles", 30)
	v.SetDefault("airports.match_threshold", 60)
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	switch c.Provider.Name {
	case "fixture":
	case "amadeus":
		if c.Amadeus.APIKey == "" {
			errs = append(errs, "amadeus.api_key is required when provider.name is amadeus")
		}
		if c.Amadeus.APISecret == "" {
			errs = append(errs, "amadeus.api_secret is required when provider.name is amadeus")
		}
	default:
		errs = append(errs, fmt.Sprintf("provider.name must be amadeus or fixture, got %q", c.Provider.Name))
	}

	if c.Amadeus.Env != "test" && c.Amadeus.Env != "prod" {
		errs = append(errs, fmt.Sprintf("amadeus.env must be test or prod, got %q", c.Amadeus.Env))
	}
	if c.Amadeus.Timeout <= 0 {
		errs = append(errs, "amadeus.timeout must be positive")
	}
	if c.Amadeus.RateLimitRPS <= 0 {
		errs = append(errs, "amadeus.rate_limit_rps must be positive")
	}
	if c.Amadeus.RateLimitBurst < 1 {
		errs = append(errs, "amadeus.rate_limit_burst must be at least 1")
	}

	if c.Redis.Enabled && c.Redis.Host == "" {
		errs = append(errs, "redis.host is required when redis is enabled")
	}

	if c.Sweep.Workers < 1 {
		errs = append(errs, "sweep.workers must be at least 1")
	}
	if c.Sweep.MaxRetries < 0 {
		errs = append(errs, "sweep.max_retries must not be negative")
	}
	if c.Sweep.MaxRangeDays < 1 {
		errs = append(errs, "sweep.max_range_days must be at least 1")
	}

	if c.Airports.RadiusMiles <= 0 {
		errs = append(errs, "airports.radius_miles must be positive")
	}
	if c.Airports.MatchThreshold <= 0 || c.Airports.MatchThreshold > 100 {
		errs = append(errs, "airports.match_threshold must be in (0, 100]")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
