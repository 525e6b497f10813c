package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Gateway  GatewayConfig
	App      AppConfig
	SMTP     SMTPConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	ConnMaxLifetime time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
}

// GatewayConfig holds the simulated payment provider's behavior knobs
type GatewayConfig struct {
	// TimeoutRate is the probability of a provider timeout per charge
	TimeoutRate float64
	// DeclineRate is the probability of an insufficient-funds decline once
	// the timeout roll has passed
	DeclineRate float64
	// Delay is the artificial network round-trip applied to every charge
	Delay time.Duration
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	// ReconcileInterval is how often the reconciler scans the deferred queue
	ReconcileInterval time.Duration
	// RefundWindow is how long after a successful charge a refund may be
	// requested (inclusive cutoff)
	RefundWindow time.Duration
	// SubscriptionTerm is how long a new subscription stays active
	SubscriptionTerm time.Duration
}

// SMTPConfig holds outbound notification settings. An empty host disables
// SMTP delivery and notifications are only logged.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level string // debug, info, warn, error
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "subledger"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "5m"),
		},
		Gateway: GatewayConfig{
			TimeoutRate: getEnvAsFloat("GATEWAY_TIMEOUT_RATE", 0.05),
			DeclineRate: getEnvAsFloat("GATEWAY_DECLINE_RATE", 0.15),
			Delay:       getEnvAsDuration("GATEWAY_DELAY", "100ms"),
		},
		App: AppConfig{
			ReconcileInterval: getEnvAsDuration("RECONCILE_INTERVAL", "10s"),
			RefundWindow:      getEnvAsDuration("REFUND_WINDOW", "168h"),     // 7 days
			SubscriptionTerm:  getEnvAsDuration("SUBSCRIPTION_TERM", "720h"), // 30 days
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "noreply@subledger.local"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host cannot be empty")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name cannot be empty")
	}

	if c.Gateway.TimeoutRate < 0 || c.Gateway.TimeoutRate > 1 {
		return fmt.Errorf("gateway timeout rate must be between 0 and 1, got %f", c.Gateway.TimeoutRate)
	}
	if c.Gateway.DeclineRate < 0 || c.Gateway.DeclineRate > 1 {
		return fmt.Errorf("gateway decline rate must be between 0 and 1, got %f", c.Gateway.DeclineRate)
	}
	if c.Gateway.Delay < 0 {
		return fmt.Errorf("gateway delay cannot be negative")
	}

	if c.App.ReconcileInterval <= 0 {
		return fmt.Errorf("reconcile interval must be positive, got %s", c.App.ReconcileInterval)
	}
	if c.App.RefundWindow <= 0 {
		return fmt.Errorf("refund window must be positive, got %s", c.App.RefundWindow)
	}
	if c.App.SubscriptionTerm <= 0 {
		return fmt.Errorf("subscription term must be positive, got %s", c.App.SubscriptionTerm)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to parsing the default if provided value is invalid
		duration, err = time.ParseDuration(defaultValue)
		if err != nil {
			return 0
		}
	}
	return duration
}
