// Package config loads the service configuration from defaults, an optional
// YAML file, a .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/sentiment"
)

// LoggingConfig selects the log level, format and destination.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ChartConfig sizes the distribution chart in pixels.
type ChartConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config holds every setting of the service.
type Config struct {
	Addr             string        `yaml:"addr"`
	ModelDir         string        `yaml:"model_dir"`
	TextColumn       string        `yaml:"text_column"`
	PredictionColumn string        `yaml:"prediction_column"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
	Stopwords        string        `yaml:"stopwords"`
	MaxUploadMB      int64         `yaml:"max_upload_mb"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout"`
	Chart            ChartConfig   `yaml:"chart"`
	Logging          LoggingConfig `yaml:"logging"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Addr:             ":5000",
		ModelDir:         "./models",
		TextColumn:       "reviews.text",
		PredictionColumn: sentiment.DefaultPredictionColumn,
		AllowedOrigins:   []string{"*"},
		Stopwords:        sentiment.StopwordsNLTK,
		MaxUploadMB:      32,
		ReadTimeout:      30 * time.Second,
		WriteTimeout:     2 * time.Minute,
		ShutdownTimeout:  5 * time.Second,
		Chart: ChartConfig{
			Width:  500,
			Height: 500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// Load builds a Config. path names an optional YAML file; an empty path
// skips it. A missing .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("loading .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Addr = ":" + port
	}
	if addr := os.Getenv("SENTIMENT_ADDR"); addr != "" {
		c.Addr = addr
	}
	if dir := os.Getenv("SENTIMENT_MODEL_DIR"); dir != "" {
		c.ModelDir = dir
	}
	if col := os.Getenv("SENTIMENT_TEXT_COLUMN"); col != "" {
		c.TextColumn = col
	}
	if origins := os.Getenv("SENTIMENT_ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
	if sw := os.Getenv("SENTIMENT_STOPWORDS"); sw != "" {
		c.Stopwords = sw
	}
	if level := os.Getenv("SENTIMENT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("SENTIMENT_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}
	if mb := os.Getenv("SENTIMENT_MAX_UPLOAD_MB"); mb != "" {
		n, err := strconv.ParseInt(mb, 10, 64)
		if err != nil {
			return fmt.Errorf("SENTIMENT_MAX_UPLOAD_MB: %w", err)
		}
		c.MaxUploadMB = n
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return errors.New("addr must not be empty")
	case c.ModelDir == "":
		return errors.New("model_dir must not be empty")
	case c.TextColumn == "":
		return errors.New("text_column must not be empty")
	case c.PredictionColumn == "":
		return errors.New("prediction_column must not be empty")
	case c.MaxUploadMB <= 0:
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	case c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.ShutdownTimeout <= 0:
		return errors.New("timeouts must be positive")
	case c.Chart.Width <= 0 || c.Chart.Height <= 0:
		return fmt.Errorf("chart size must be positive, got %dx%d", c.Chart.Width, c.Chart.Height)
	}

	if _, err := sentiment.StopwordsFor(c.Stopwords); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
