package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Logging  LoggingConfig  `yaml:"logging"`
	App      AppConfig      `yaml:"app"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" ignored:"true"`
	WriteTimeout    time.Duration `yaml:"write_timeout" ignored:"true"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" ignored:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" ignored:"true"`
}

// DatabaseConfig holds PostgreSQL connection configuration. Credentials are
// normally supplied through the environment rather than the config file.
type DatabaseConfig struct {
	Host            string        `yaml:"host" envconfig:"DB_HOST"`
	Port            int           `yaml:"port" envconfig:"DB_PORT"`
	User            string        `yaml:"user" envconfig:"DB_USER"`
	Password        string        `yaml:"password" envconfig:"DB_PASSWORD"`
	Database        string        `yaml:"database" envconfig:"DB_NAME"`
	SSLMode         string        `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MigrationsPath  string        `yaml:"migrations_path" envconfig:"DB_MIGRATIONS_PATH"`
	MaxOpenConns    int           `yaml:"max_open_conns" ignored:"true"`
	MaxIdleConns    int           `yaml:"max_idle_conns" ignored:"true"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" ignored:"true"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" ignored:"true"`
}

// RabbitMQConfig holds RabbitMQ connection and exchange configuration for
// job lifecycle events. The whole section is optional; with Enabled false
// the service runs without event publishing.
type RabbitMQConfig struct {
	Enabled    bool             `yaml:"enabled" envconfig:"RABBITMQ_ENABLED"`
	Host       string           `yaml:"host" envconfig:"RABBITMQ_HOST"`
	Port       int              `yaml:"port" envconfig:"RABBITMQ_PORT"`
	User       string           `yaml:"user" envconfig:"RABBITMQ_USER"`
	Password   string           `yaml:"password" envconfig:"RABBITMQ_PASSWORD"`
	VHost      string           `yaml:"vhost" envconfig:"RABBITMQ_VHOST"`
	Exchange   ExchangeConfig   `yaml:"exchange" ignored:"true"`
	RoutingKey string           `yaml:"routing_key" ignored:"true"`
	Connection ConnectionConfig `yaml:"connection" ignored:"true"`
	Publish    PublishConfig    `yaml:"publish" ignored:"true"`
}

// ExchangeConfig holds RabbitMQ exchange configuration.
type ExchangeConfig struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Durable    bool   `yaml:"durable"`
	AutoDelete bool   `yaml:"auto_delete"`
}

// ConnectionConfig holds RabbitMQ connection settings.
type ConnectionConfig struct {
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryInterval time.Duration `yaml:"retry_interval"`
	Heartbeat     time.Duration `yaml:"heartbeat"`
}

// PublishConfig holds RabbitMQ publish retry settings.
type PublishConfig struct {
	RetryAttempts     int           `yaml:"retry_attempts"`
	RetryInterval     time.Duration `yaml:"retry_interval"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level        string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format       string `yaml:"format" envconfig:"LOG_FORMAT"`
	Output       string `yaml:"output" ignored:"true"`
	EnableCaller bool   `yaml:"enable_caller" ignored:"true"`
}

// AppConfig holds application metadata.
type AppConfig struct {
	Name        string `yaml:"name" ignored:"true"`
	Version     string `yaml:"version" ignored:"true"`
	Environment string `yaml:"environment" envconfig:"APP_ENVIRONMENT"`
}

// Load reads the configuration file and applies environment overrides, so
// credentials can stay out of the file.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < MinPort || c.Database.Port > MaxPort {
		return fmt.Errorf("invalid database port: %d (must be between %d and %d)", c.Database.Port, MinPort, MaxPort)
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.RabbitMQ.Enabled {
		if c.RabbitMQ.Host == "" {
			return fmt.Errorf("rabbitmq host is required when rabbitmq is enabled")
		}

		if c.RabbitMQ.Port < MinPort || c.RabbitMQ.Port > MaxPort {
			return fmt.Errorf("invalid rabbitmq port: %d (must be between %d and %d)", c.RabbitMQ.Port, MinPort, MaxPort)
		}

		if c.RabbitMQ.Exchange.Name == "" {
			return fmt.Errorf("rabbitmq exchange name is required when rabbitmq is enabled")
		}
	}

	return nil
}
