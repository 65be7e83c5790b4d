package youtube

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chanscribe/chanscribe/internal/core/domain"
	"github.com/chanscribe/chanscribe/internal/core/ports/driven"
	"github.com/chanscribe/chanscribe/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.AudioFetcher = (*Fetcher)(nil)

// Fetcher downloads video audio and metadata via yt-dlp.
type Fetcher struct {
	cfg     Config
	catalog *Catalog
}

// NewFetcher creates a fetcher with the given connector config.
func NewFetcher(cfg Config) (*Fetcher, error) {
	catalog, err := NewCatalog(cfg)
	if err != nil {
		return nil, err
	}
	return &Fetcher{cfg: cfg, catalog: catalog}, nil
}

// FetchMetadata pulls a video's full metadata.
func (f *Fetcher) FetchMetadata(ctx context.Context, videoID string) (*domain.Video, error) {
	dump, err := f.catalog.dumpVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	url := dump.WebpageURL
	if url == "" {
		url = watchURL(videoID)
	}
	return &domain.Video{
		ID:              videoID,
		ChannelID:       dump.ChannelID,
		Title:           dump.Title,
		Description:     dump.Description,
		UploadDate:      dump.UploadDate,
		Duration:        dump.Duration,
		ViewCount:       dump.ViewCount,
		LikeCount:       dump.LikeCount,
		Tags:            dump.Tags,
		Categories:      dump.Categories,
		Language:        dump.Language,
		AudioLanguage:   dump.AudioLanguage,
		HasAutoCaptions: len(dump.AutoCaptions) > 2, // "{}" when absent
		HasSubtitles:    len(dump.Subtitles) > 2,
		Chapters:        dump.Chapters,
		URL:             url,
		Uploader:        dump.Uploader,
		ExtractedAt:     time.Now().UTC(),
	}, nil
}

// FetchAudio downloads a video's audio as WAV into destDir. The newly
// created file is identified by diffing the directory's WAV set before and
// after the tool run: yt-dlp's output naming is not a contract.
func (f *Fetcher) FetchAudio(ctx context.Context, videoID, destDir string) (string, error) {
	before, err := wavSet(destDir)
	if err != nil {
		return "", err
	}

	args := []string{
		"--extract-audio",
		"--audio-format", "wav",
		"--audio-quality", "0",
		"-o", filepath.Join(destDir, videoID+".%(ext)s"),
		"--no-warnings",
		"--ignore-errors",
	}
	args = append(args, f.cfg.cookieArgs()...)
	args = append(args, watchURL(videoID))

	if _, err := f.catalog.run(ctx, args); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExternalTool, err)
	}

	after, err := wavSet(destDir)
	if err != nil {
		return "", err
	}

	path := newestDelta(destDir, before, after)
	if path == "" {
		return "", fmt.Errorf("%w: no new WAV file after download of %s", domain.ErrExternalTool, videoID)
	}
	logger.Debug("Downloaded %s -> %s", videoID, filepath.Base(path))
	return path, nil
}

// wavSet snapshots the WAV filenames currently in dir.
func wavSet(dir string) (map[string]bool, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.wav"))
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(matches))
	for _, m := range matches {
		set[filepath.Base(m)] = true
	}
	return set, nil
}

// newestDelta returns the most recently modified file present in after but
// not in before, or "" when the sets are equal.
func newestDelta(dir string, before, after map[string]bool) string {
	var (
		newest    string
		newestMod time.Time
	)
	for name := range after {
		if before[name] {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = path
			newestMod = info.ModTime()
		}
	}
	return newest
}
