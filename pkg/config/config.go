package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/staybae/staybae-api/pkg/logging"
)

// EnvDevelopment is the NODE_ENV value that selects local development settings.
const EnvDevelopment = "development"

// Config represents the application configuration
type Config struct {
	// Env is the deployment tag (NODE_ENV). Only "development" is special.
	Env     string        `yaml:"env" envconfig:"NODE_ENV"`
	Server  ServerConfig  `yaml:"server" ignored:"true"`
	Mongo   MongoConfig   `yaml:"mongo" ignored:"true"`
	Logging LoggingConfig `yaml:"logging" ignored:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string `yaml:"host" envconfig:"HOST"`
	Port            int    `yaml:"port" envconfig:"PORT"`
	ShutdownTimeout int    `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"` // seconds
}

// MongoConfig contains MongoDB connection credentials
type MongoConfig struct {
	User     string `yaml:"user" envconfig:"MONGO_USER"`
	Password string `yaml:"password" envconfig:"MONGO_PASSWORD"`
	// Path is everything after the password, e.g. "@cluster0.example.net/staybae?retryWrites=true"
	Path           string `yaml:"path" envconfig:"MONGO_PATH"`
	ConnectTimeout int    `yaml:"connect_timeout" envconfig:"MONGO_CONNECT_TIMEOUT"` // seconds
}

// LoggingConfig contains logging configuration. It converts directly to
// logging.Config.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" envconfig:"LOG_FORMAT"` // json, text
}

// Load loads configuration from file and environment variables.
// A .env file in the working directory is applied first; it never overrides
// variables already present in the process environment.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := defaultConfig()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Sections are processed unprefixed so the keys match the deployment
	// environment verbatim (PORT, MONGO_USER, ...).
	for _, section := range []any{cfg, &cfg.Server, &cfg.Mongo, &cfg.Logging} {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to process environment variables: %w", err)
		}
	}

	// Development builds log for humans unless told otherwise
	if cfg.IsDevelopment() && os.Getenv("LOG_FORMAT") == "" {
		cfg.Logging.Format = "text"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible default values
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ShutdownTimeout: 30,
		},
		Mongo: MongoConfig{
			ConnectTimeout: 30,
		},
		Logging: LoggingConfig(logging.DefaultConfig()),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Mongo.Path == "" {
		return fmt.Errorf("mongo path is required")
	}

	if c.Mongo.ConnectTimeout < 0 {
		return fmt.Errorf("invalid mongo connect timeout: %d", c.Mongo.ConnectTimeout)
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logging.Format)
	}

	return nil
}

// IsDevelopment reports whether the deployment tag is "development"
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Address returns the host:port the server binds. An empty host binds all
// interfaces.
func (c ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
