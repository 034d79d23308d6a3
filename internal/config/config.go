// Package config loads the server settings from the environment.
//
// Values come from, in order of precedence: real environment variables,
// then an optional .env file, then the defaults below. Only SECRET_KEY has
// no default.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment keys.
const (
	KeySecretKey          = "SECRET_KEY"
	KeyDatabaseURI        = "DATABASE_URI"
	KeyPort               = "PORT"
	KeySessionTTL         = "SESSION_TTL"
	KeyCookieSecure       = "COOKIE_SECURE"
	KeyCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"
	KeyLogLevel           = "LOG_LEVEL"
	KeyLogFormat          = "LOG_FORMAT"
)

// minSecretLength matches auth.MinSecretLength; config is checked before
// the token service exists so the error names the env var.
const minSecretLength = 16

type Config struct {
	SecretKey          string
	DatabaseURI        string
	Port               int
	SessionTTL         time.Duration
	CookieSecure       bool
	CORSAllowedOrigins []string
	LogLevel           slog.Level
	LogFormat          string
}

// Load reads the configuration. envFile is an optional dotenv file; a
// missing file is not an error. Variables already set in the environment
// win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: reading %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetDefault(KeyDatabaseURI, "data/sightings.db")
	v.SetDefault(KeyPort, 5555)
	v.SetDefault(KeySessionTTL, "168h")
	v.SetDefault(KeyCookieSecure, false)
	v.SetDefault(KeyCORSAllowedOrigins, "*")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	// AutomaticEnv only consults keys viper already knows about.
	_ = v.BindEnv(KeySecretKey)
	v.AutomaticEnv()

	cfg := &Config{
		SecretKey:    v.GetString(KeySecretKey),
		DatabaseURI:  strings.TrimSpace(v.GetString(KeyDatabaseURI)),
		Port:         v.GetInt(KeyPort),
		SessionTTL:   v.GetDuration(KeySessionTTL),
		CookieSecure: v.GetBool(KeyCookieSecure),
		LogFormat:    strings.ToLower(v.GetString(KeyLogFormat)),
	}

	for _, origin := range strings.Split(v.GetString(KeyCORSAllowedOrigins), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return nil, fmt.Errorf("config: %s: %w", KeyLogLevel, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("config: %s is required", KeySecretKey)
	}
	if len(c.SecretKey) < minSecretLength {
		return fmt.Errorf("config: %s must be at least %d characters", KeySecretKey, minSecretLength)
	}
	if c.DatabaseURI == "" {
		return fmt.Errorf("config: %s must not be empty", KeyDatabaseURI)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: %s %d is out of range", KeyPort, c.Port)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: %s must be positive", KeySessionTTL)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("config: %s must be text or json, got %q", KeyLogFormat, c.LogFormat)
	}
	return nil
}

// Logger builds the application logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
