package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every key for the duration of the test. t.Setenv records
// the old value; os.Unsetenv then removes it.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		KeySecretKey, KeyDatabaseURI, KeyPort, KeySessionTTL, KeyCookieSecure,
		KeyCORSAllowedOrigins, KeyLogLevel, KeyLogFormat,
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(KeySecretKey, "sixteen-chars-ok")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sixteen-chars-ok", cfg.SecretKey)
	assert.Equal(t, "data/sightings.db", cfg.DatabaseURI)
	assert.Equal(t, 5555, cfg.Port)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(KeySecretKey, "a-much-longer-secret-key")
	t.Setenv(KeyDatabaseURI, ":memory:")
	t.Setenv(KeyPort, "8081")
	t.Setenv(KeySessionTTL, "30m")
	t.Setenv(KeyCookieSecure, "true")
	t.Setenv(KeyCORSAllowedOrigins, "http://localhost:3000, https://sightings.example.com")
	t.Setenv(KeyLogLevel, "DEBUG")
	t.Setenv(KeyLogFormat, "JSON")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DatabaseURI)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"http://localhost:3000", "https://sightings.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SECRET_KEY=from-dotenv-file-123\nDATABASE_URI=file.db\n"), 0o600))

	// A real env var beats the file.
	t.Setenv(KeyDatabaseURI, "env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv-file-123", cfg.SecretKey)
	assert.Equal(t, "env.db", cfg.DatabaseURI)

	// godotenv sets variables for the whole process; undo it.
	require.NoError(t, os.Unsetenv(KeySecretKey))
}

func TestLoad_MissingDotEnvIsFine(t *testing.T) {
	clearEnv(t)
	t.Setenv(KeySecretKey, "sixteen-chars-ok")

	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.env"))
	assert.NoError(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":  {},
		"short secret":    {KeySecretKey: "short"},
		"bad port":        {KeySecretKey: "sixteen-chars-ok", KeyPort: "70000"},
		"negative ttl":    {KeySecretKey: "sixteen-chars-ok", KeySessionTTL: "-1h"},
		"bad log level":   {KeySecretKey: "sixteen-chars-ok", KeyLogLevel: "loud"},
		"bad log format":  {KeySecretKey: "sixteen-chars-ok", KeyLogFormat: "xml"},
		"empty db string": {KeySecretKey: "sixteen-chars-ok", KeyDatabaseURI: " "},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: slog.LevelWarn, LogFormat: "json"}

	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
