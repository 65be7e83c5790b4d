package driven

import (
	"github.com/chanscribe/chanscribe/internal/core/domain"
)

// Journal is the durable append-only record of terminal per-video outcomes.
// Appends are serialized by the implementation so lines from concurrent
// workers never interleave.
type Journal interface {
	// RecordDownloaded appends one success line for the video.
	RecordDownloaded(videoID string) error

	// RecordFailure appends one failure line with the last error.
	RecordFailure(videoID string, cause error) error

	// Downloaded returns the set of video IDs already recorded as
	// downloaded, used to filter the enumeration before scheduling.
	Downloaded() (map[string]bool, error)
}

// ArtifactStore persists the JSON artifacts of a run: channel metadata,
// per-video metadata, per-video transcripts and the session summary.
type ArtifactStore interface {
	WriteChannelMetadata(ch *domain.Channel) error
	WriteVideoMetadata(v *domain.Video) error
	WriteTranscript(videoID string, t *domain.Transcript) error
	WriteSessionSummary(s *SessionSummary) error

	// AudioDir is the directory the fetcher downloads into.
	AudioDir() string
}

// SessionSummary is written after every run, regardless of item failures.
type SessionSummary struct {
	RunID     string `json:"run_id"`
	Date      string `json:"date"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Skipped   int    `json:"skipped"`
	Attempted int    `json:"total_attempted"`
}
