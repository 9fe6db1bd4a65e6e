package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Store struct {
		Driver   string `yaml:"driver"`
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"store"`

	CORS struct {
		Origins []string `yaml:"origins"`
	} `yaml:"cors"`

	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`

	Events struct {
		Channel string `yaml:"channel"`
	} `yaml:"events"`

	Auth struct {
		JWTSecret string `yaml:"jwtSecret"`
	} `yaml:"auth"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"ratelimit"`

	storeTimeout time.Duration
}

// DefaultPath is read when CONFIG_FILE is not set.
const DefaultPath = "config.yaml"

// Path returns the YAML file Load should read: CONFIG_FILE, else DefaultPath.
func Path() string {
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		return p
	}
	return DefaultPath
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in that order.
func Load(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			file, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(config *Config) {
	config.Server.Port = "3000"
	config.Server.Env = "development"

	config.Store.Driver = DriverMongo
	config.Store.URI = "mongodb://localhost:27017"
	config.Store.Database = "kuic"
	config.Store.Timeout = "10s"

	config.CORS.Origins = []string{
		"http://localhost:5173",
		"https://kuic-server.vercel.app",
		"https://kuic.vercel.app",
	}

	config.Events.Channel = "kuic:content"
}

func loadFromEnv(config *Config) error {
	setString(&config.Server.Port, "PORT")
	setString(&config.Server.Env, "APP_ENV")

	setString(&config.Store.Driver, "STORE_DRIVER")
	setString(&config.Store.URI, "MONGO_URL")
	setString(&config.Store.Database, "MONGO_DB")
	setString(&config.Store.Timeout, "STORE_TIMEOUT")

	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		config.CORS.Origins = splitList(v)
	}

	setString(&config.Redis.URL, "REDIS_URL")
	setString(&config.Events.Channel, "EVENTS_CHANNEL")
	setString(&config.Auth.JWTSecret, "ADMIN_JWT_SECRET")

	if v, ok := os.LookupEnv("RATE_LIMIT_RPS"); ok && v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		config.RateLimit.RPS = rps
	}
	if v, ok := os.LookupEnv("RATE_LIMIT_BURST"); ok && v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST: %w", err)
		}
		config.RateLimit.Burst = burst
	}
	return nil
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Store.Driver {
	case DriverMongo:
		if config.Store.URI == "" {
			return fmt.Errorf("store uri is required for the mongo driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}

	if config.Store.Database == "" {
		return fmt.Errorf("store database is required")
	}

	timeout, err := time.ParseDuration(config.Store.Timeout)
	if err != nil {
		return fmt.Errorf("invalid store timeout: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("store timeout must be positive")
	}
	config.storeTimeout = timeout

	if config.RateLimit.RPS < 0 || config.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}
	if config.RateLimit.RPS > 0 && config.RateLimit.Burst == 0 {
		config.RateLimit.Burst = int(config.RateLimit.RPS) + 1
	}

	return nil
}

// StoreTimeout is the per-request deadline for store calls.
func (c *Config) StoreTimeout() time.Duration {
	return c.storeTimeout
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
