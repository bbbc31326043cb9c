package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/parcelops/optimizer/internal/optimizer"
	"github.com/parcelops/optimizer/internal/storage"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultSearchTimeout  = 5 * time.Second
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	DefaultBilling       optimizer.Params
	ExactItemLimit       int
	SearchTimeout        time.Duration
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	Billing              yamlBilling   `yaml:"billing"`
	ExactItemLimit       int           `yaml:"exact_item_limit"`
	SearchTimeout        string        `yaml:"search_timeout"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging bool          `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
}

// yamlBilling represents the billing section in YAML. Pointers distinguish
// "absent" from a legitimate zero value.
type yamlBilling struct {
	MaxWeight         *float64 `yaml:"max_weight"`
	UnitCost          *float64 `yaml:"unit_cost"`
	DeliveryFee       *float64 `yaml:"delivery_fee"`
	MinDeliveryWeight *float64 `yaml:"min_delivery_weight"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile        string
	Port              *string
	MaxWeight         *float64
	UnitCost          *float64
	DeliveryFee       *float64
	MinDeliveryWeight *float64
	ExactItemLimit    *int
	SearchTimeout     *time.Duration
	RateLimitRPS      *float64
	RateLimitBurst    *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	applyEnvConfig(&cfg)

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		DefaultBilling:       storage.DefaultBilling(),
		ExactItemLimit:       optimizer.DefaultExactItemLimit,
		SearchTimeout:        defaultSearchTimeout,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if yamlCfg.Billing.MaxWeight != nil {
		cfg.DefaultBilling.MaxWeight = *yamlCfg.Billing.MaxWeight
	}
	if yamlCfg.Billing.UnitCost != nil {
		cfg.DefaultBilling.UnitCost = *yamlCfg.Billing.UnitCost
	}
	if yamlCfg.Billing.DeliveryFee != nil {
		cfg.DefaultBilling.DeliveryFee = *yamlCfg.Billing.DeliveryFee
	}
	if yamlCfg.Billing.MinDeliveryWeight != nil {
		cfg.DefaultBilling.MinDeliveryWeight = *yamlCfg.Billing.MinDeliveryWeight
	}

	if yamlCfg.ExactItemLimit > 0 {
		cfg.ExactItemLimit = yamlCfg.ExactItemLimit
	}

	if yamlCfg.SearchTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.SearchTimeout); err == nil {
			cfg.SearchTimeout = d
		}
	}

	if yamlCfg.ShutdownGracePeriod != "" {
		if d, err := time.ParseDuration(yamlCfg.ShutdownGracePeriod); err == nil {
			cfg.ShutdownGracePeriod = d
		}
	}

	if yamlCfg.ReadHeaderTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.ReadHeaderTimeout); err == nil {
			cfg.ReadHeaderTimeout = d
		}
	}

	if yamlCfg.WriteTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.WriteTimeout); err == nil {
			cfg.WriteTimeout = d
		}
	}

	if yamlCfg.IdleTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.IdleTimeout); err == nil {
			cfg.IdleTimeout = d
		}
	}

	cfg.EnableRequestLogging = yamlCfg.EnableRequestLogging

	if yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = yamlCfg.RateLimit.Burst
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	applyEnvFloat("MAX_WEIGHT", &cfg.DefaultBilling.MaxWeight)
	applyEnvFloat("UNIT_COST", &cfg.DefaultBilling.UnitCost)
	applyEnvFloat("DELIVERY_FEE", &cfg.DefaultBilling.DeliveryFee)
	applyEnvFloat("MIN_DELIVERY_WEIGHT", &cfg.DefaultBilling.MinDeliveryWeight)

	if raw := strings.TrimSpace(os.Getenv("EXACT_ITEM_LIMIT")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.ExactItemLimit = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("SEARCH_TIMEOUT")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.SearchTimeout = d
		}
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

func applyEnvFloat(name string, target *float64) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return
	}
	if value, err := strconv.ParseFloat(raw, 64); err == nil && value >= 0 {
		*target = value
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.MaxWeight != nil && *overrides.MaxWeight > 0 {
		cfg.DefaultBilling.MaxWeight = *overrides.MaxWeight
	}
	if overrides.UnitCost != nil && *overrides.UnitCost >= 0 {
		cfg.DefaultBilling.UnitCost = *overrides.UnitCost
	}
	if overrides.DeliveryFee != nil && *overrides.DeliveryFee >= 0 {
		cfg.DefaultBilling.DeliveryFee = *overrides.DeliveryFee
	}
	if overrides.MinDeliveryWeight != nil && *overrides.MinDeliveryWeight >= 0 {
		cfg.DefaultBilling.MinDeliveryWeight = *overrides.MinDeliveryWeight
	}

	if overrides.ExactItemLimit != nil && *overrides.ExactItemLimit > 0 {
		cfg.ExactItemLimit = *overrides.ExactItemLimit
	}

	if overrides.SearchTimeout != nil && *overrides.SearchTimeout > 0 {
		cfg.SearchTimeout = *overrides.SearchTimeout
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if err := storage.Validate(cfg.DefaultBilling); err != nil {
		return fmt.Errorf("default billing: %w", err)
	}
	if cfg.ExactItemLimit < 1 {
		return fmt.Errorf("EXACT_ITEM_LIMIT must be >= 1")
	}
	if cfg.SearchTimeout <= 0 {
		return fmt.Errorf("SEARCH_TIMEOUT must be positive")
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	return nil
}
