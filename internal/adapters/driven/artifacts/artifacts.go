// Package artifacts persists the JSON artifacts of a run under a
// per-channel directory tree:
//
//	<root>/<Channel_Title>_<channelID>/
//	    audio/           downloaded and trimmed WAV files
//	    channel_info/    channel metadata
//	    metadata/        per-video metadata
//	    transcriptions/  per-video transcripts
//	    sessions/        per-run summaries
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chanscribe/chanscribe/internal/core/domain"
	"github.com/chanscribe/chanscribe/internal/core/ports/driven"
)

// Subdirectories of a channel directory.
const (
	audioDir      = "audio"
	channelDir    = "channel_info"
	metadataDir   = "metadata"
	transcriptDir = "transcriptions"
	sessionDir    = "sessions"
)

// Store writes one channel's artifacts. Create one per ingested channel.
type Store struct {
	root string
}

var _ driven.ArtifactStore = (*Store)(nil)

// NewStore creates the channel directory tree under rootDir. The directory
// name combines the sanitized channel title with the immutable channel ID,
// so a retitled channel still maps to the same tree when re-ingested by ID.
func NewStore(rootDir string, ch *domain.Channel) (*Store, error) {
	name := SanitizeName(ch.Title)
	if name == "" {
		name = "channel"
	}
	root := filepath.Join(rootDir, name+"_"+ch.ID)

	for _, sub := range []string{audioDir, channelDir, metadataDir, transcriptDir, sessionDir} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0755); err != nil {
			return nil, fmt.Errorf("creating artifact directory: %w", err)
		}
	}

	return &Store{root: root}, nil
}

// Root returns the channel directory path.
func (s *Store) Root() string {
	return s.root
}

// AudioDir is the directory the fetcher downloads into.
func (s *Store) AudioDir() string {
	return filepath.Join(s.root, audioDir)
}

// WriteChannelMetadata writes the channel record.
func (s *Store) WriteChannelMetadata(ch *domain.Channel) error {
	return s.writeJSON(filepath.Join(channelDir, "channel.json"), channelArtifact{
		ID:          ch.ID,
		Title:       ch.Title,
		Description: ch.Description,
		URL:         ch.URL,
		VideoCount:  ch.VideoCount,
		ExtractedAt: ch.ExtractedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// WriteVideoMetadata writes one video's metadata keyed by video ID.
func (s *Store) WriteVideoMetadata(v *domain.Video) error {
	return s.writeJSON(filepath.Join(metadataDir, v.ID+".json"), v)
}

// WriteTranscript writes one video's transcript keyed by video ID.
func (s *Store) WriteTranscript(videoID string, t *domain.Transcript) error {
	return s.writeJSON(filepath.Join(transcriptDir, videoID+".json"), t)
}

// WriteSessionSummary writes the run summary keyed by run ID.
func (s *Store) WriteSessionSummary(sum *driven.SessionSummary) error {
	return s.writeJSON(filepath.Join(sessionDir, sum.RunID+".json"), sum)
}

// writeJSON writes indented JSON via a temp file and rename, so a crash
// mid-write never leaves a truncated artifact.
func (s *Store) writeJSON(rel string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", rel, err)
	}

	path := filepath.Join(s.root, rel)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s: %w", rel, err)
	}
	return nil
}

// channelArtifact is the on-disk channel record shape.
type channelArtifact struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	VideoCount  int    `json:"video_count"`
	ExtractedAt string `json:"extracted_at"`
}

// SanitizeName reduces a display title to a filesystem-safe directory stem:
// alphanumerics, dashes and underscores survive, spaces become underscores,
// everything else is dropped.
func SanitizeName(title string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	return b.String()
}
