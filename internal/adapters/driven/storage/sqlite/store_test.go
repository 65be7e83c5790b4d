package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chanscribe/chanscribe/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testChannel() *domain.Channel {
	return &domain.Channel{
		ID:          "UCabc",
		Title:       "Test Channel",
		Description: "A channel about tests",
		URL:         "https://www.youtube.com/channel/UCabc",
		VideoCount:  2,
	}
}

func testVideo() *domain.Video {
	return &domain.Video{
		ID:          "vid001",
		ChannelID:   "UCabc",
		Title:       "First video",
		Description: "desc",
		UploadDate:  "20260101",
		Duration:    321,
		ViewCount:   100,
		LikeCount:   7,
		Tags:        []string{"go", "testing"},
		Categories:  []string{"Education"},
		Language:    "en",
		Chapters:    []domain.Chapter{{Title: "Intro", Start: 0, End: 30}},
		URL:         "https://www.youtube.com/watch?v=vid001",
		Uploader:    "Test Channel",
		ExtractedAt: time.Now().UTC(),
	}
}

func TestStore_Ping(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestStore_MigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening runs migrate again against the same file.
	store, err = NewStore(dir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestStore_UpsertChannel(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertChannel(ctx, testChannel()))

	_, ok, err := store.ChannelFreshness(ctx, "UCabc")
	require.NoError(t, err)
	assert.True(t, ok)

	// Second write with changed title must update, not duplicate.
	ch := testChannel()
	ch.Title = "Renamed Channel"
	require.NoError(t, store.UpsertChannel(ctx, ch))

	rows, err := store.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Renamed Channel", rows[0].Title)
}

func TestStore_ChannelFreshness_Missing(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.ChannelFreshness(context.Background(), "UCmissing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_UpsertVideo(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertChannel(ctx, testChannel()))
	require.NoError(t, store.UpsertVideo(ctx, testVideo()))

	got, ok, err := store.VideoFreshness(ctx, "vid001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().UTC(), got, time.Minute)

	// Re-upsert with a newer timestamp refreshes extracted_at.
	v := testVideo()
	v.ExtractedAt = time.Now().UTC().Add(time.Hour)
	require.NoError(t, store.UpsertVideo(ctx, v))

	got2, ok, err := store.VideoFreshness(ctx, "vid001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got2.After(got))
}

func TestStore_VideoFreshness_Missing(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.VideoFreshness(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_UpsertChunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertChannel(ctx, testChannel()))
	require.NoError(t, store.UpsertVideo(ctx, testVideo()))

	chunks := []domain.Chunk{
		{ID: domain.ChunkID("UCabc", "vid001", 0), VideoID: "vid001", ChannelID: "UCabc", Index: 0, Start: 0, End: 10.5, Text: "first window"},
		{ID: domain.ChunkID("UCabc", "vid001", 1), VideoID: "vid001", ChannelID: "UCabc", Index: 1, Start: 10.5, End: 20, Text: "second window"},
	}
	require.NoError(t, store.UpsertChunks(ctx, chunks))

	// Applying the same batch again converges on the same rows.
	chunks[1].Text = "second window revised"
	require.NoError(t, store.UpsertChunks(ctx, chunks))

	rows, err := store.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Videos)
	assert.Equal(t, 2, rows[0].Chunks)
}

func TestStore_UpsertChunks_Empty(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.UpsertChunks(context.Background(), nil))
}

func TestStore_VectorRefs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chunkID := domain.ChunkID("UCabc", "vid001", 0)

	_, ok, err := store.GetVectorRef(ctx, chunkID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.PutVectorRef(ctx, chunkID, 42))

	vecID, ok, err := store.GetVectorRef(ctx, chunkID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(42), vecID)

	// Overwrite on re-run.
	require.NoError(t, store.PutVectorRef(ctx, chunkID, 43))
	vecID, _, err = store.GetVectorRef(ctx, chunkID)
	require.NoError(t, err)
	assert.Equal(t, uint64(43), vecID)
}
