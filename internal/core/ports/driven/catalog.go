package driven

import (
	"context"

	"github.com/chanscribe/chanscribe/internal/core/domain"
)

// SourceCatalog enumerates the videos available for a channel and resolves
// single videos by ID. Enumeration is a network operation against a
// rate-limited source and can fail with domain.ErrSourceUnavailable or
// domain.ErrEmptyChannel.
type SourceCatalog interface {
	// Enumerate lists the channel's videos (newest first) along with the
	// channel's metadata.
	Enumerate(ctx context.Context, channelURL string) ([]domain.VideoRef, *domain.Channel, error)

	// ResolveVideo looks up a single video by ID for single-item mode.
	// Returns the ref and the owning channel; fails with
	// domain.ErrVideoNotFound when the source does not know the ID.
	ResolveVideo(ctx context.Context, videoID string) (*domain.VideoRef, *domain.Channel, error)
}

// AudioFetcher downloads one video's audio and metadata.
type AudioFetcher interface {
	// FetchMetadata pulls the full metadata for a video. Metadata is
	// best-effort: callers treat a failure here as non-fatal.
	FetchMetadata(ctx context.Context, videoID string) (*domain.Video, error)

	// FetchAudio downloads the video's audio as WAV into destDir and
	// returns the path of the newly created file. The new file is found by
	// diffing the directory's WAV set before and after the tool run, not
	// by trusting the tool's output naming.
	FetchAudio(ctx context.Context, videoID, destDir string) (string, error)
}
