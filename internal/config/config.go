package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings. Values come from an optional YAML file
// and are overridden by environment variables.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DBConfig        `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type AuthConfig struct {
	JWTSecret         string `yaml:"jwt_secret"`
	AccessTTLMinutes  int    `yaml:"access_ttl_minutes"`
	RefreshTTLHours   int    `yaml:"refresh_ttl_hours"`
	CookieSecure      bool   `yaml:"cookie_secure"`
	CookieDomain      string `yaml:"cookie_domain"`
	InitialAdminEmail string `yaml:"initial_admin_email"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type SchedulerConfig struct {
	// ReconcileBalances is a six-field cron spec, or "off".
	ReconcileBalances string `yaml:"reconcile_balances"`
}

// Load reads CONFIG_FILE (if set) and the environment, then validates.
func Load() (*Config, error) {
	cfg := &Config{}
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Port, "SERVER_PORT")
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = parseCSV(origins)
	}

	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")

	setString(&c.Auth.JWTSecret, "JWT_SECRET_KEY")
	setInt(&c.Auth.AccessTTLMinutes, "ACCESS_TOKEN_TTL_MINUTES")
	setInt(&c.Auth.RefreshTTLHours, "REFRESH_TOKEN_TTL_HOURS")
	setBool(&c.Auth.CookieSecure, "COOKIE_SECURE")
	setString(&c.Auth.CookieDomain, "COOKIE_DOMAIN")
	setString(&c.Auth.InitialAdminEmail, "INITIAL_ADMIN_EMAIL")

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Log.File, "LOG_FILE")

	setString(&c.Scheduler.ReconcileBalances, "RECONCILE_SCHEDULE")
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Auth.AccessTTLMinutes <= 0 {
		c.Auth.AccessTTLMinutes = 15
	}
	if c.Auth.RefreshTTLHours <= 0 {
		c.Auth.RefreshTTLHours = 720
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.File == "" {
		c.Log.File = "./logs/app.log"
	}
	if c.Scheduler.ReconcileBalances == "" {
		c.Scheduler.ReconcileBalances = "0 0 3 * * *" // 3 AM UTC
	}
}

// Validate reports missing settings the server cannot start without.
func (c *Config) Validate() error {
	if _, err := c.Database.DSN(); err != nil {
		return err
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET_KEY not set in environment")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return errors.New("JWT_SECRET_KEY must be at least 32 characters")
	}
	return nil
}

// HTTPAddress returns the address for the HTTP server to bind to.
func (c *Config) HTTPAddress() string {
	return ":" + c.Server.Port
}

func (c AuthConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

func (c AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLHours) * time.Hour
}

// ReconcileEnabled is false when the reconcile job is switched off.
func (c SchedulerConfig) ReconcileEnabled() bool {
	return !strings.EqualFold(strings.TrimSpace(c.ReconcileBalances), "off")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func parseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
