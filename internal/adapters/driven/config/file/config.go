// Package file loads the TOML configuration file, applying defaults for
// anything the file leaves out.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultRateLimitSeconds = 2
	DefaultMaxWorkers       = 3
	DefaultFreshnessHours   = 24
	DefaultWindowWords      = 100
)

// Config is the full application configuration.
type Config struct {
	// DataDir is the root for artifacts, journals and both stores.
	// Defaults to ~/.chanscribe/data.
	DataDir string `toml:"data_dir"`

	// RateLimitSeconds is the minimum spacing between source requests.
	RateLimitSeconds int `toml:"rate_limit_seconds"`

	// MaxWorkers bounds concurrent per-video pipelines.
	MaxWorkers int `toml:"max_workers"`

	// FreshnessHours is the skip window for already-ingested videos.
	FreshnessHours int `toml:"freshness_hours"`

	// WindowWords is the transcript chunk size in words.
	WindowWords int `toml:"window_words"`

	Source  SourceConfig  `toml:"source"`
	Whisper WhisperConfig `toml:"whisper"`
	Ollama  OllamaConfig  `toml:"ollama"`
}

// SourceConfig configures the yt-dlp source adapter.
type SourceConfig struct {
	// Binary overrides the yt-dlp executable path.
	Binary string `toml:"binary"`

	// CookiesFile is a Netscape-format cookies file for age-gated content.
	CookiesFile string `toml:"cookies_file"`

	// BrowserCookies names a browser to lift cookies from instead.
	// Mutually exclusive with CookiesFile.
	BrowserCookies string `toml:"browser_cookies"`
}

// WhisperConfig configures the transcription service.
type WhisperConfig struct {
	BaseURL     string `toml:"base_url"`
	ModelSize   string `toml:"model_size"`
	Device      string `toml:"device"`
	ComputeType string `toml:"compute_type"`
	CPUThreads  int    `toml:"cpu_threads"`
	NumWorkers  int    `toml:"num_workers"`
	BatchSize   int    `toml:"batch_size"`
}

// OllamaConfig configures the embedding service.
type OllamaConfig struct {
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		RateLimitSeconds: DefaultRateLimitSeconds,
		MaxWorkers:       DefaultMaxWorkers,
		FreshnessHours:   DefaultFreshnessHours,
		WindowWords:      DefaultWindowWords,
	}
}

// DefaultPath returns ~/.chanscribe/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".chanscribe", "config.toml"), nil
}

// Load reads the TOML file at path. A missing file yields the defaults;
// a present file overlays them.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.RateLimitSeconds < 0 {
		return fmt.Errorf("rate_limit_seconds must not be negative, got %d", c.RateLimitSeconds)
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be at least 1, got %d", c.MaxWorkers)
	}
	if c.FreshnessHours < 0 {
		return fmt.Errorf("freshness_hours must not be negative, got %d", c.FreshnessHours)
	}
	if c.WindowWords < 1 {
		return fmt.Errorf("window_words must be at least 1, got %d", c.WindowWords)
	}
	if c.Source.CookiesFile != "" && c.Source.BrowserCookies != "" {
		return fmt.Errorf("cookies_file and browser_cookies are mutually exclusive")
	}
	return nil
}
