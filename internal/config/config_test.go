package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv(ConfigPathEnv, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.HTTP.Addr)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "sha256", cfg.Session.PasswordHash)
	assert.Equal(t, "₹", cfg.Currency.Symbol)
	assert.Equal(t, []string{"png", "jpg", "jpeg", "gif", "webp"}, cfg.Upload.AllowedExtensions)
	assert.False(t, cfg.AI.VertexConfigured())
	assert.False(t, cfg.Kafka.Enabled())
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("GCP_PROJECT_ID", "craft-prod")
	t.Setenv("UPLOAD_ALLOWED_EXTENSIONS", "png,jpg")
	t.Setenv("PASSWORD_HASH", "bcrypt")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.AI.VertexConfigured())
	assert.True(t, cfg.AI.TextConfigured())
	assert.Equal(t, []string{"png", "jpg"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, "bcrypt", cfg.Session.PasswordHash)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "market.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  addr: \":7000\"\ncurrency:\n  symbol: \"$\"\n  code: USD\n"), 0o600))
	t.Setenv(ConfigPathEnv, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.Equal(t, "$", cfg.Currency.Symbol)
	assert.Equal(t, "USD", cfg.Currency.Code)
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Session.Store = "disk"
	cfg.Session.PasswordHash = "md5"
	cfg.Postgres.DSN = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session.store")
	assert.Contains(t, err.Error(), "password_hash")
	assert.Contains(t, err.Error(), "postgres.dsn")
}

func TestValidateAITimeoutFitsRequest(t *testing.T) {
	cfg := defaultConfig()
	assert.Less(t, cfg.AI.Timeout*AICallsPerRequest, cfg.HTTP.RequestTimeout)

	cfg.AI.Timeout = 20 * time.Second
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ai.timeout")

	cfg.HTTP.RequestTimeout = time.Minute + time.Second
	assert.NoError(t, cfg.Validate())
}

func TestGeminiKeyEnablesText(t *testing.T) {
	a := AIConfig{ProjectID: placeholderProject, GeminiAPIKey: "k"}
	assert.False(t, a.VertexConfigured())
	assert.True(t, a.TextConfigured())
}
