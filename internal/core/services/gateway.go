package services

import (
	"context"
	"fmt"
	"time"

	"github.com/chanscribe/chanscribe/internal/core/domain"
	"github.com/chanscribe/chanscribe/internal/core/ports/driven"
)

// DefaultFreshness is the window within which an already-ingested entity
// is skipped rather than re-fetched.
const DefaultFreshness = 24 * time.Hour

// PersistenceGateway applies a video's writes to the relational and vector
// stores. Every write is an idempotent upsert keyed by stable IDs, so a
// failed run can be re-applied and both stores converge.
type PersistenceGateway struct {
	meta      driven.MetadataStore
	vectors   driven.VectorStore
	freshness time.Duration
}

// NewPersistenceGateway creates a gateway over both stores. A zero
// freshness falls back to DefaultFreshness.
func NewPersistenceGateway(meta driven.MetadataStore, vectors driven.VectorStore, freshness time.Duration) *PersistenceGateway {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &PersistenceGateway{
		meta:      meta,
		vectors:   vectors,
		freshness: freshness,
	}
}

// ChannelFresh reports whether the channel was written within the
// freshness window.
func (g *PersistenceGateway) ChannelFresh(ctx context.Context, channelID string) (bool, error) {
	at, ok, err := g.meta.ChannelFreshness(ctx, channelID)
	if err != nil {
		return false, fmt.Errorf("checking channel freshness: %w", err)
	}
	return ok && time.Since(at) < g.freshness, nil
}

// VideoFresh reports whether the video was extracted within the
// freshness window.
func (g *PersistenceGateway) VideoFresh(ctx context.Context, videoID string) (bool, error) {
	at, ok, err := g.meta.VideoFreshness(ctx, videoID)
	if err != nil {
		return false, fmt.Errorf("checking video freshness: %w", err)
	}
	return ok && time.Since(at) < g.freshness, nil
}

// PersistChannel upserts the channel row.
func (g *PersistenceGateway) PersistChannel(ctx context.Context, ch *domain.Channel) error {
	if err := g.meta.UpsertChannel(ctx, ch); err != nil {
		return fmt.Errorf("persisting channel %s: %w", ch.ID, err)
	}
	return nil
}

// PersistVideo writes the video row, its chunk rows and the chunk vectors.
// The relational side goes first; a vector-side failure after that is
// reported as domain.ErrPartialWrite so the caller knows a re-run will
// reconcile rather than duplicate.
func (g *PersistenceGateway) PersistVideo(ctx context.Context, ch *domain.Channel, v *domain.Video, chunks []domain.Chunk) error {
	if err := g.meta.UpsertVideo(ctx, v); err != nil {
		return fmt.Errorf("persisting video %s: %w", v.ID, err)
	}
	if err := g.meta.UpsertChunks(ctx, chunks); err != nil {
		return fmt.Errorf("persisting chunks for %s: %w", v.ID, err)
	}

	for _, chunk := range chunks {
		meta := driven.VectorMetadata{
			VideoID:   v.ID,
			ChannelID: ch.ID,
			Start:     chunk.Start,
			End:       chunk.End,
			Title:     v.Title,
			Channel:   ch.Title,
			Published: v.UploadDate,
			URL:       v.URL,
		}

		ref, hasRef, err := g.meta.GetVectorRef(ctx, chunk.ID)
		if err != nil {
			return fmt.Errorf("%w: looking up vector ref for %s: %v", domain.ErrPartialWrite, chunk.ID, err)
		}

		newRef, err := g.vectors.Upsert(ctx, chunk, meta, ref, hasRef)
		if err != nil {
			return fmt.Errorf("%w: writing vector for %s: %v", domain.ErrPartialWrite, chunk.ID, err)
		}

		if !hasRef {
			if err := g.meta.PutVectorRef(ctx, chunk.ID, newRef); err != nil {
				return fmt.Errorf("%w: recording vector ref for %s: %v", domain.ErrPartialWrite, chunk.ID, err)
			}
		}
	}

	return nil
}
