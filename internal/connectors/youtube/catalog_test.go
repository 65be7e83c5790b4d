package youtube

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chanscribe/chanscribe/internal/core/domain"
)

// fakeTool writes an executable script that prints output and exits with
// the given code, standing in for yt-dlp.
func fakeTool(t *testing.T, output string, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("script-based fake tool requires a POSIX shell")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "fake-ytdlp")
	script := fmt.Sprintf("#!/bin/sh\ncat <<'EOF'\n%s\nEOF\nexit %d\n", output, exitCode)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

const playlistJSON = `{
  "channel_id": "UCtest",
  "title": "Test Channel",
  "channel_url": "https://www.youtube.com/@test",
  "description": "desc",
  "entries": [
    {"id": "v2", "title": "newer", "url": "https://www.youtube.com/watch?v=v2"},
    {"id": "v1", "title": "older", "url": "https://www.youtube.com/watch?v=v1"}
  ]
}`

func TestEnumerate(t *testing.T) {
	catalog, err := NewCatalog(Config{Binary: fakeTool(t, playlistJSON, 0)})
	require.NoError(t, err)

	refs, ch, err := catalog.Enumerate(context.Background(), "https://www.youtube.com/@test")
	require.NoError(t, err)

	require.Len(t, refs, 2)
	assert.Equal(t, "v2", refs[0].ID)
	assert.Equal(t, "v1", refs[1].ID)

	assert.Equal(t, "UCtest", ch.ID)
	assert.Equal(t, "Test Channel", ch.Title)
	assert.Equal(t, 2, ch.VideoCount)
	assert.WithinDuration(t, time.Now().UTC(), ch.ExtractedAt, time.Minute)
}

func TestEnumerateEmptyChannel(t *testing.T) {
	catalog, err := NewCatalog(Config{Binary: fakeTool(t, `{"channel_id":"UCtest","entries":[]}`, 0)})
	require.NoError(t, err)

	_, _, err = catalog.Enumerate(context.Background(), "https://www.youtube.com/@test")
	assert.ErrorIs(t, err, domain.ErrEmptyChannel)
}

func TestEnumerateToolFailure(t *testing.T) {
	catalog, err := NewCatalog(Config{Binary: fakeTool(t, "boom", 1)})
	require.NoError(t, err)

	_, _, err = catalog.Enumerate(context.Background(), "https://www.youtube.com/@test")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestEnumerateMalformedOutput(t *testing.T) {
	catalog, err := NewCatalog(Config{Binary: fakeTool(t, "not json", 0)})
	require.NoError(t, err)

	_, _, err = catalog.Enumerate(context.Background(), "https://www.youtube.com/@test")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

const videoJSON = `{
  "id": "v1",
  "title": "A Video",
  "channel_id": "UCtest",
  "channel": "Test Channel",
  "webpage_url": "https://www.youtube.com/watch?v=v1",
  "upload_date": "20240115",
  "duration": 930,
  "view_count": 1200,
  "like_count": 34,
  "language": "en",
  "automatic_captions": {"en": []},
  "subtitles": {}
}`

func TestResolveVideo(t *testing.T) {
	catalog, err := NewCatalog(Config{Binary: fakeTool(t, videoJSON, 0)})
	require.NoError(t, err)

	ref, ch, err := catalog.ResolveVideo(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "v1", ref.ID)
	assert.Equal(t, "A Video", ref.Title)
	assert.Equal(t, "UCtest", ch.ID)
}

func TestResolveVideoNotFound(t *testing.T) {
	catalog, err := NewCatalog(Config{Binary: fakeTool(t, "", 1)})
	require.NoError(t, err)

	_, _, err = catalog.ResolveVideo(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrVideoNotFound))
}

func TestNewCatalogRejectsBadConfig(t *testing.T) {
	_, err := NewCatalog(Config{CookiesFile: "a", BrowserCookies: "firefox"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
