package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultRateLimitSeconds, cfg.RateLimitSeconds)
	assert.Equal(t, DefaultMaxWorkers, cfg.MaxWorkers)
	assert.Equal(t, DefaultFreshnessHours, cfg.FreshnessHours)
	assert.Equal(t, DefaultWindowWords, cfg.WindowWords)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
data_dir = "/tmp/chanscribe"
max_workers = 5

[source]
cookies_file = "/tmp/cookies.txt"

[whisper]
model_size = "large-v3"
device = "cuda"

[ollama]
model = "mxbai-embed-large"
dimensions = 1024
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/chanscribe", cfg.DataDir)
	assert.Equal(t, 5, cfg.MaxWorkers)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultRateLimitSeconds, cfg.RateLimitSeconds)
	assert.Equal(t, "/tmp/cookies.txt", cfg.Source.CookiesFile)
	assert.Equal(t, "large-v3", cfg.Whisper.ModelSize)
	assert.Equal(t, "cuda", cfg.Whisper.Device)
	assert.Equal(t, "mxbai-embed-large", cfg.Ollama.Model)
	assert.Equal(t, 1024, cfg.Ollama.Dimensions)
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := writeConfig(t, "max_workers = [not toml")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"negative rate limit", func(c *Config) { c.RateLimitSeconds = -1 }, "rate_limit_seconds"},
		{"zero workers", func(c *Config) { c.MaxWorkers = 0 }, "max_workers"},
		{"negative freshness", func(c *Config) { c.FreshnessHours = -5 }, "freshness_hours"},
		{"zero window", func(c *Config) { c.WindowWords = 0 }, "window_words"},
		{
			"both cookie options",
			func(c *Config) {
				c.Source.CookiesFile = "/tmp/c.txt"
				c.Source.BrowserCookies = "firefox"
			},
			"mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
