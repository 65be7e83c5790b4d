package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/chanscribe/chanscribe/internal/core/domain"
	"github.com/chanscribe/chanscribe/internal/core/ports/driven"
	"github.com/chanscribe/chanscribe/internal/logger"
)

// Ensure Catalog implements the interface.
var _ driven.SourceCatalog = (*Catalog)(nil)

// watchURL is the canonical watch URL for a video ID.
func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// Catalog enumerates channels and resolves videos via yt-dlp.
type Catalog struct {
	cfg Config
}

// NewCatalog creates a catalog with the given connector config.
func NewCatalog(cfg Config) (*Catalog, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Catalog{cfg: cfg}, nil
}

// playlistDump is the shape of `yt-dlp --dump-single-json --flat-playlist`.
type playlistDump struct {
	ChannelID   string `json:"channel_id"`
	Title       string `json:"title"`
	ChannelURL  string `json:"channel_url"`
	Description string `json:"description"`
	Entries     []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"entries"`
}

// Enumerate lists a channel's videos and its metadata.
func (c *Catalog) Enumerate(ctx context.Context, channelURL string) ([]domain.VideoRef, *domain.Channel, error) {
	args := []string{"--dump-single-json", "--flat-playlist"}
	args = append(args, c.cfg.cookieArgs()...)
	args = append(args, channelURL)

	out, err := c.run(ctx, args)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}

	var dump playlistDump
	if err := json.Unmarshal(out, &dump); err != nil {
		return nil, nil, fmt.Errorf("%w: parsing playlist dump: %w", domain.ErrSourceUnavailable, err)
	}
	if len(dump.Entries) == 0 {
		return nil, nil, domain.ErrEmptyChannel
	}

	refs := make([]domain.VideoRef, 0, len(dump.Entries))
	for _, e := range dump.Entries {
		if e.ID == "" {
			continue
		}
		url := e.URL
		if url == "" {
			url = watchURL(e.ID)
		}
		refs = append(refs, domain.VideoRef{ID: e.ID, Title: e.Title, URL: url})
	}
	if len(refs) == 0 {
		return nil, nil, domain.ErrEmptyChannel
	}

	channelID := dump.ChannelID
	if channelID == "" {
		channelID = "unknown"
	}
	ch := &domain.Channel{
		ID:          channelID,
		Title:       dump.Title,
		Description: dump.Description,
		URL:         dump.ChannelURL,
		VideoCount:  len(refs),
		ExtractedAt: time.Now().UTC(),
	}

	logger.Info("Enumerated %d videos for channel %s", len(refs), ch.ID)
	return refs, ch, nil
}

// videoDump is the subset of `yt-dlp --dump-single-json --no-playlist`
// the pipeline cares about.
type videoDump struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	UploadDate    string           `json:"upload_date"`
	Duration      int64            `json:"duration"`
	ViewCount     int64            `json:"view_count"`
	LikeCount     int64            `json:"like_count"`
	Tags          []string         `json:"tags"`
	Categories    []string         `json:"categories"`
	Language      string           `json:"language"`
	AudioLanguage string           `json:"audio_language"`
	AutoCaptions  json.RawMessage  `json:"automatic_captions"`
	Subtitles     json.RawMessage  `json:"subtitles"`
	Chapters      []domain.Chapter `json:"chapters"`
	WebpageURL    string           `json:"webpage_url"`
	Uploader      string           `json:"uploader"`
	Channel       string           `json:"channel"`
	ChannelID     string           `json:"channel_id"`
	ChannelURL    string           `json:"channel_url"`
}

// ResolveVideo looks up a single video and its owning channel.
func (c *Catalog) ResolveVideo(ctx context.Context, videoID string) (*domain.VideoRef, *domain.Channel, error) {
	dump, err := c.dumpVideo(ctx, videoID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrVideoNotFound, videoID)
	}

	ref := &domain.VideoRef{ID: dump.ID, Title: dump.Title, URL: dump.WebpageURL}
	if ref.URL == "" {
		ref.URL = watchURL(videoID)
	}
	ch := &domain.Channel{
		ID:          dump.ChannelID,
		Title:       dump.Channel,
		URL:         dump.ChannelURL,
		ExtractedAt: time.Now().UTC(),
	}
	if ch.ID == "" {
		ch.ID = "unknown"
	}
	return ref, ch, nil
}

// dumpVideo fetches the full JSON dump for one video.
func (c *Catalog) dumpVideo(ctx context.Context, videoID string) (*videoDump, error) {
	args := []string{"--dump-single-json", "--no-playlist"}
	args = append(args, c.cfg.cookieArgs()...)
	args = append(args, watchURL(videoID))

	out, err := c.run(ctx, args)
	if err != nil {
		return nil, err
	}

	var dump videoDump
	if err := json.Unmarshal(out, &dump); err != nil {
		return nil, fmt.Errorf("parsing video dump: %w", err)
	}
	if dump.ID == "" {
		dump.ID = videoID
	}
	return &dump, nil
}

// run invokes yt-dlp and returns its stdout. A non-zero exit is a hard
// failure for the invocation; stderr is folded into the error.
func (c *Catalog) run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.cfg.binary(), args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Running %s %v", c.cfg.binary(), args)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", c.cfg.binary(), err, firstLine(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// firstLine trims a tool's stderr down to something loggable.
func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
