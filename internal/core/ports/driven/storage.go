package driven

import (
	"context"
	"time"

	"github.com/chanscribe/chanscribe/internal/core/domain"
)

// MetadataStore is the relational side of the dual-store persistence.
// All writes are idempotent upserts keyed by stable IDs.
type MetadataStore interface {
	// UpsertChannel inserts or updates a channel row. The ID is immutable;
	// title, description and URL are overwritten.
	UpsertChannel(ctx context.Context, ch *domain.Channel) error

	// UpsertVideo inserts or updates a video row, refreshing the
	// extracted_at timestamp used by freshness checks.
	UpsertVideo(ctx context.Context, v *domain.Video) error

	// UpsertChunks batch-inserts or updates chunk rows by derived ID.
	UpsertChunks(ctx context.Context, chunks []domain.Chunk) error

	// ChannelFreshness returns when the channel row was last written,
	// or ok=false when no row exists.
	ChannelFreshness(ctx context.Context, channelID string) (time.Time, bool, error)

	// VideoFreshness returns the video's extracted_at timestamp,
	// or ok=false when no row exists.
	VideoFreshness(ctx context.Context, videoID string) (time.Time, bool, error)

	// GetVectorRef returns the vector-store internal ID recorded for a
	// chunk, or ok=false when the chunk has never been written there.
	GetVectorRef(ctx context.Context, chunkID string) (uint64, bool, error)

	// PutVectorRef records the vector-store internal ID for a chunk.
	PutVectorRef(ctx context.Context, chunkID string, vecID uint64) error

	// Summary reports per-channel ingest counts for the status view.
	Summary(ctx context.Context) ([]ChannelStatus, error)

	// Ping verifies the store is reachable. Called once at run start;
	// failure is fatal for the run.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChannelStatus is one row of the ingest status summary.
type ChannelStatus struct {
	ChannelID string
	Title     string
	Videos    int
	Chunks    int
}

// VectorStore is the semantic side of the dual-store persistence. Records
// are keyed by the same derived chunk IDs as the relational store, so
// re-applying a write converges instead of duplicating.
type VectorStore interface {
	// Upsert writes one chunk's text, embedding and metadata. The ref is
	// the store-internal ID from a previous write of the same chunk, or
	// ok=false for a first write. Returns the store-internal ID.
	Upsert(ctx context.Context, chunk domain.Chunk, meta VectorMetadata, ref uint64, hasRef bool) (uint64, error)

	// Close releases resources.
	Close() error
}

// VectorMetadata is the retrieval-time payload stored beside each vector.
type VectorMetadata struct {
	VideoID   string
	ChannelID string
	Start     float64
	End       float64
	Title     string
	Channel   string
	Published string
	URL       string
}

// EmbeddingService generates vector embeddings from chunk text. It is the
// vector store's embedding function; the pipeline never calls it directly.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
