package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	JWTSecret    string `yaml:"jwt_secret"`
	Issuer       string `yaml:"issuer"`
	TokenTTL     string `yaml:"token_ttl"`
	BcryptCost   int    `yaml:"bcrypt_cost"`
	SecureCookie bool   `yaml:"secure_cookie"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

const (
	defaultTokenTTL   = 24 * time.Hour
	defaultIssuer     = "workouttracker"
	defaultBcryptCost = 12
)

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// TTL returns the parsed token lifetime, defaulting to 24h.
func (a AuthConfig) TTL() time.Duration {
	if a.TokenTTL == "" {
		return defaultTokenTTL
	}
	d, err := time.ParseDuration(a.TokenTTL)
	if err != nil {
		return defaultTokenTTL
	}
	return d
}

// SlogLevel maps the configured level name to a slog.Level (info by default).
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix WORKOUTTRACKER_ and underscore-separated paths:
//
//	WORKOUTTRACKER_SERVER_HOST, WORKOUTTRACKER_SERVER_PORT,
//	WORKOUTTRACKER_DB_HOST, WORKOUTTRACKER_DB_PORT, WORKOUTTRACKER_DB_NAME,
//	WORKOUTTRACKER_DB_USER, WORKOUTTRACKER_DB_PASSWORD, WORKOUTTRACKER_DB_SSLMODE,
//	WORKOUTTRACKER_AUTH_JWT_SECRET, WORKOUTTRACKER_AUTH_TOKEN_TTL,
//	WORKOUTTRACKER_TAILSCALE_ENABLED, WORKOUTTRACKER_METRICS_ENABLED,
//	WORKOUTTRACKER_LOG_LEVEL
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WORKOUTTRACKER_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("WORKOUTTRACKER_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WORKOUTTRACKER_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("WORKOUTTRACKER_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("WORKOUTTRACKER_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("WORKOUTTRACKER_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("WORKOUTTRACKER_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("WORKOUTTRACKER_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("WORKOUTTRACKER_AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("WORKOUTTRACKER_AUTH_TOKEN_TTL"); v != "" {
		cfg.Auth.TokenTTL = v
	}
	if v := os.Getenv("WORKOUTTRACKER_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("WORKOUTTRACKER_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if v := os.Getenv("WORKOUTTRACKER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = defaultIssuer
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = defaultBcryptCost
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "workouttracker"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("auth.jwt_secret must be at least 16 characters")
	}
	if c.Auth.TokenTTL != "" {
		d, err := time.ParseDuration(c.Auth.TokenTTL)
		if err != nil {
			return fmt.Errorf("auth.token_ttl: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("auth.token_ttl must be positive")
		}
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be between 4 and 31")
	}
	if c.Tailscale.Enabled && c.Tailscale.StateDir == "" {
		return fmt.Errorf("tailscale.state_dir is required when tailscale is enabled")
	}
	return nil
}
