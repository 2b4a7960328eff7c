package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	DBDriver    string `yaml:"db_driver"`
	DBDSN       string `yaml:"db_dsn"`
	ListenAddr  string `yaml:"listen_addr"`
	Environment string `yaml:"environment"`

	JWTSecret   string        `yaml:"jwt_secret"`
	JWTIssuer   string        `yaml:"jwt_issuer"`
	JWTAudience string        `yaml:"jwt_audience"`
	JWTExpiry   time.Duration `yaml:"-"`

	EnableMetrics bool `yaml:"enable_metrics"`
	PINHashing    bool `yaml:"pin_hashing"`

	PhotoAPIURL    string `yaml:"photo_api_url"`
	PhotoAPIKey    string `yaml:"photo_api_key"`
	PhotoAPISecret string `yaml:"photo_api_secret"`

	ImportMapping string `yaml:"import_mapping"`
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables, in increasing precedence.
func Load() *Config {
	config := &Config{
		DBDriver:    "pgx",
		ListenAddr:  ":8080",
		Environment: "development",
		JWTSecret:   defaultJWTSecret,
		JWTIssuer:   "cosmic-tracker",
		JWTAudience: "authenticated",
		JWTExpiry:   24 * time.Hour, // Default to 24 hours
		PhotoAPIURL: "https://api.imagga.com/v2/tags",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := config.mergeFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "config: ignoring %s: %v\n", path, err)
		}
	}

	config.DBDriver = getEnv("DB_DRIVER", config.DBDriver)
	config.DBDSN = getEnv("DB_DSN", config.DBDSN)
	config.ListenAddr = getEnv("LISTEN_ADDR", config.ListenAddr)
	config.Environment = getEnv("ENVIRONMENT", config.Environment)
	config.JWTSecret = getEnv("JWT_SECRET", config.JWTSecret)
	config.JWTIssuer = getEnv("JWT_ISS", config.JWTIssuer)
	config.JWTAudience = getEnv("JWT_AUD", config.JWTAudience)
	config.EnableMetrics = getBool("ENABLE_METRICS", config.EnableMetrics)
	config.PINHashing = getBool("PIN_HASHING", config.PINHashing)
	config.PhotoAPIURL = getEnv("PHOTO_API_URL", config.PhotoAPIURL)
	config.PhotoAPIKey = getEnv("PHOTO_API_KEY", config.PhotoAPIKey)
	config.PhotoAPISecret = getEnv("PHOTO_API_SECRET", config.PhotoAPISecret)
	config.ImportMapping = getEnv("IMPORT_MAPPING", config.ImportMapping)

	// Parse JWT expiry from environment if provided
	if expiryStr := os.Getenv("JWT_EXPIRY"); expiryStr != "" {
		if expiry, err := time.ParseDuration(expiryStr); err == nil {
			config.JWTExpiry = expiry
		}
	}

	return config
}

// fileConfig mirrors Config with string durations for YAML decoding.
type fileConfig struct {
	Config    `yaml:",inline"`
	JWTExpiry string `yaml:"jwt_expiry"`
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fc := fileConfig{Config: *c}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}
	expiry := c.JWTExpiry
	if fc.JWTExpiry != "" {
		d, err := time.ParseDuration(fc.JWTExpiry)
		if err != nil {
			return fmt.Errorf("jwt_expiry: %w", err)
		}
		expiry = d
	}
	*c = fc.Config
	c.JWTExpiry = expiry
	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.DBDriver != "pgx" && c.DBDriver != "sqlite" {
		return fmt.Errorf("DB_DRIVER must be pgx or sqlite, got %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters long")
	}
	if c.Environment == "production" && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be changed from the default in production")
	}
	if c.JWTIssuer == "" {
		return errors.New("JWT_ISS is required")
	}
	if c.JWTAudience == "" {
		return errors.New("JWT_AUD is required")
	}
	if c.JWTExpiry < time.Minute {
		return errors.New("JWT_EXPIRY must be at least 1 minute")
	}
	if c.JWTExpiry > 30*24*time.Hour {
		return errors.New("JWT_EXPIRY must not exceed 30 days")
	}
	return nil
}

// LoadAndValidate loads the configuration and validates it
func LoadAndValidate() (*Config, error) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
