// Package vector provides the semantic side of the dual-store persistence,
// backed by an embedded vecgo index with write-ahead logging for durability
// across runs.
package vector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hupe1980/vecgo"
	"github.com/hupe1980/vecgo/metadata"

	"github.com/chanscribe/chanscribe/internal/core/domain"
	"github.com/chanscribe/chanscribe/internal/core/ports/driven"
)

// Store wraps a vecgo flat index. Chunk text is the record payload; the
// retrieval metadata rides alongside as a filterable document.
type Store struct {
	db       *vecgo.Vecgo[string]
	embedder driven.EmbeddingService
}

var _ driven.VectorStore = (*Store)(nil)

// NewStore opens (or creates) the vector index under dataDir and replays
// its write-ahead log. The embedder turns chunk text into vectors; its
// dimensionality fixes the index dimension.
func NewStore(ctx context.Context, dataDir string, embedder driven.EmbeddingService) (*Store, error) {
	walDir := filepath.Join(dataDir, "vectors", "wal")
	if err := os.MkdirAll(walDir, 0700); err != nil {
		return nil, fmt.Errorf("creating vector data directory: %w", err)
	}

	db, err := vecgo.Flat[string](embedder.Dimensions()).
		Cosine().
		WAL(walDir).
		Build()
	if err != nil {
		return nil, fmt.Errorf("building vector index: %w", err)
	}

	if err := db.RecoverFromWAL(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("recovering vector index: %w", err)
	}

	return &Store{db: db, embedder: embedder}, nil
}

// Upsert embeds the chunk text and writes it to the index. A previous
// write's internal ID makes this an update; otherwise it is an insert and
// the new internal ID is returned for the caller to record.
func (s *Store) Upsert(ctx context.Context, chunk domain.Chunk, meta driven.VectorMetadata, ref uint64, hasRef bool) (uint64, error) {
	vec, err := s.embedder.Embed(ctx, chunk.Text)
	if err != nil {
		return 0, fmt.Errorf("embedding chunk %s: %w", chunk.ID, err)
	}

	item := vecgo.VectorWithData[string]{
		Vector: vec,
		Data:   chunk.Text,
		Metadata: metadata.Metadata{
			"chunk_id":   metadata.String(chunk.ID),
			"video_id":   metadata.String(meta.VideoID),
			"channel_id": metadata.String(meta.ChannelID),
			"start":      metadata.Float(meta.Start),
			"end":        metadata.Float(meta.End),
			"title":      metadata.String(meta.Title),
			"channel":    metadata.String(meta.Channel),
			"published":  metadata.String(meta.Published),
			"url":        metadata.String(meta.URL),
		},
	}

	if hasRef {
		if err := s.db.Update(ctx, ref, item); err != nil {
			return 0, fmt.Errorf("updating vector %d: %w", ref, err)
		}
		return ref, nil
	}

	id, err := s.db.Insert(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("inserting vector: %w", err)
	}
	return id, nil
}

// Close flushes the write-ahead log and releases the index.
func (s *Store) Close() error {
	return s.db.Close()
}
