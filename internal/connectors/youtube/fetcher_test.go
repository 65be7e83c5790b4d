package youtube

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chanscribe/chanscribe/internal/core/domain"
)

func TestWavSetAndNewestDelta(t *testing.T) {
	dir := t.TempDir()
	write := func(name string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	write("a.wav")
	write("ignored.mp3")
	before, err := wavSet(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"a.wav": true}, before)

	write("b.wav")
	time.Sleep(10 * time.Millisecond)
	write("c.wav")
	after, err := wavSet(dir)
	require.NoError(t, err)
	require.Len(t, after, 3)

	// Two new files: the most recently written one wins.
	got := newestDelta(dir, before, after)
	assert.Equal(t, filepath.Join(dir, "c.wav"), got)

	// No delta at all.
	assert.Empty(t, newestDelta(dir, after, after))
}

// audioFakeTool writes a script that creates a WAV file in the output
// directory, mimicking a successful yt-dlp audio extraction.
func audioFakeTool(t *testing.T, destDir, wavName string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("script-based fake tool requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "fake-ytdlp")
	script := "#!/bin/sh\necho audio > \"" + filepath.Join(destDir, wavName) + "\"\nexit 0\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestFetchAudio(t *testing.T) {
	destDir := t.TempDir()
	fetcher, err := NewFetcher(Config{Binary: audioFakeTool(t, destDir, "renamed-output.wav")})
	require.NoError(t, err)

	// The tool names its output differently from the requested template;
	// the directory diff still finds it.
	path, err := fetcher.FetchAudio(context.Background(), "v1", destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "renamed-output.wav"), path)
}

func TestFetchAudioNoNewFile(t *testing.T) {
	destDir := t.TempDir()
	fetcher, err := NewFetcher(Config{Binary: fakeTool(t, "", 0)})
	require.NoError(t, err)

	_, err = fetcher.FetchAudio(context.Background(), "v1", destDir)
	assert.ErrorIs(t, err, domain.ErrExternalTool)
}

func TestFetchAudioToolFailure(t *testing.T) {
	destDir := t.TempDir()
	fetcher, err := NewFetcher(Config{Binary: fakeTool(t, "network error", 1)})
	require.NoError(t, err)

	_, err = fetcher.FetchAudio(context.Background(), "v1", destDir)
	assert.ErrorIs(t, err, domain.ErrExternalTool)
}

func TestFetchMetadata(t *testing.T) {
	fetcher, err := NewFetcher(Config{Binary: fakeTool(t, videoJSON, 0)})
	require.NoError(t, err)

	video, err := fetcher.FetchMetadata(context.Background(), "v1")
	require.NoError(t, err)

	assert.Equal(t, "v1", video.ID)
	assert.Equal(t, "UCtest", video.ChannelID)
	assert.Equal(t, "A Video", video.Title)
	assert.Equal(t, "20240115", video.UploadDate)
	assert.Equal(t, int64(930), video.Duration)
	assert.Equal(t, int64(1200), video.ViewCount)
	assert.True(t, video.HasAutoCaptions)
	assert.False(t, video.HasSubtitles)
	assert.WithinDuration(t, time.Now().UTC(), video.ExtractedAt, time.Minute)
}
