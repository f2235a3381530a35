package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Security SecurityConfig `mapstructure:"security"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// TrustProxyHeaders controls whether X-Forwarded-For and X-Real-IP
	// are believed. Leave false unless a trusted reverse proxy sits in
	// front; on direct connections these headers are client-controlled.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// DSN returns the PostgreSQL connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	Password     PasswordConfig     `mapstructure:"password"`
	Session      SessionConfig      `mapstructure:"session"`
	Auth         AuthConfig         `mapstructure:"auth"`
	RateLimiting RateLimitingConfig `mapstructure:"rate_limiting"`
	Alerts       AlertsConfig       `mapstructure:"alerts"`
}

// PasswordConfig holds chat password hashing configuration
type PasswordConfig struct {
	Argon2Memory      uint32 `mapstructure:"argon2_memory"`
	Argon2Iterations  uint32 `mapstructure:"argon2_iterations"`
	Argon2Parallelism uint8  `mapstructure:"argon2_parallelism"`
}

// SessionConfig holds chat session token configuration
type SessionConfig struct {
	// TokenTTL is how long a chat session token stays valid after a
	// successful verification. There is no refresh: after expiry the
	// client must verify again.
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// AuthConfig holds primary account token validation configuration
type AuthConfig struct {
	// SigningKey is the HMAC key used to validate primary bearer tokens
	// issued by the surrounding application.
	SigningKey string `mapstructure:"signing_key"`
	Issuer     string `mapstructure:"issuer"`
}

// RateLimitingConfig holds rate limiting configuration
type RateLimitingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// AlertsConfig holds lockout alert configuration. When enabled, a mail
// goes to the operator mailbox every time an account trips a lockout
// threshold.
type AlertsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Recipient string `mapstructure:"recipient"`
	Gmail     struct {
		CredentialsJSON string `mapstructure:"credentials_json"`
		SenderAddress   string `mapstructure:"sender_address"`
		SenderName      string `mapstructure:"sender_name"`
	} `mapstructure:"gmail"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/chatgate")

	setDefaults(v)

	// Config file is optional; defaults and env vars cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("CHATGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.trust_proxy_headers", false)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "chatgate")
	v.SetDefault("database.user", "chatgate")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 25)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Security defaults
	v.SetDefault("security.password.argon2_memory", 65536)
	v.SetDefault("security.password.argon2_iterations", 3)
	v.SetDefault("security.password.argon2_parallelism", 4)

	v.SetDefault("security.session.token_ttl", "60s")

	v.SetDefault("security.auth.signing_key", "")
	v.SetDefault("security.auth.issuer", "chatgate")

	v.SetDefault("security.rate_limiting.enabled", true)

	v.SetDefault("security.alerts.enabled", false)
	v.SetDefault("security.alerts.recipient", "")
	v.SetDefault("security.alerts.gmail.credentials_json", "")
	v.SetDefault("security.alerts.gmail.sender_address", "")
	v.SetDefault("security.alerts.gmail.sender_name", "ChatGate")
}
