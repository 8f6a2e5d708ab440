package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "SENTIMENT_ADDR", "SENTIMENT_MODEL_DIR", "SENTIMENT_TEXT_COLUMN",
	"SENTIMENT_ALLOWED_ORIGINS", "SENTIMENT_STOPWORDS", "SENTIMENT_LOG_LEVEL",
	"SENTIMENT_LOG_FORMAT", "SENTIMENT_MAX_UPLOAD_MB",
}

// isolate runs the test from an empty directory with the service's
// environment variables unset, so only what the test provides is read.
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range envKeys {
		if _, ok := os.LookupEnv(key); ok {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":5000", cfg.Addr)
	assert.Equal(t, "reviews.text", cfg.TextColumn)
	assert.Equal(t, "Predicted sentiment", cfg.PredictionColumn)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes())
}

func TestLoadYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "sentiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":8080"
model_dir: /srv/models/en
text_column: body
allowed_origins: ["https://reviews.example.com"]
read_timeout: 10s
chart:
  width: 640
logging:
  level: debug
  format: console
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "/srv/models/en", cfg.ModelDir)
	assert.Equal(t, "body", cfg.TextColumn)
	assert.Equal(t, []string{"https://reviews.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 640, cfg.Chart.Width)
	assert.Equal(t, 500, cfg.Chart.Height)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "sentiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":8080\"\ntext_column: body\n"), 0o644))

	t.Setenv("PORT", "9000")
	t.Setenv("SENTIMENT_TEXT_COLUMN", "review")
	t.Setenv("SENTIMENT_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SENTIMENT_MAX_UPLOAD_MB", "5")
	t.Setenv("SENTIMENT_STOPWORDS", "bbalet")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "review", cfg.TextColumn)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(5), cfg.MaxUploadMB)
	assert.Equal(t, "bbalet", cfg.Stopwords)

	t.Setenv("SENTIMENT_ADDR", "127.0.0.1:7000")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Addr, "SENTIMENT_ADDR wins over PORT")
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SENTIMENT_MODEL_DIR=/opt/models\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SENTIMENT_MODEL_DIR") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/opt/models", cfg.ModelDir)
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("addr: [unterminated"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	t.Setenv("SENTIMENT_MAX_UPLOAD_MB", "lots")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model dir", func(c *Config) { c.ModelDir = "" }},
		{"empty text column", func(c *Config) { c.TextColumn = "" }},
		{"zero upload", func(c *Config) { c.MaxUploadMB = 0 }},
		{"negative timeout", func(c *Config) { c.WriteTimeout = -time.Second }},
		{"zero chart", func(c *Config) { c.Chart.Height = 0 }},
		{"unknown stopwords", func(c *Config) { c.Stopwords = "spacy" }},
		{"unknown level", func(c *Config) { c.Logging.Level = "trace" }},
		{"unknown format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
