package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/chanscribe/chanscribe/internal/chunker"
	"github.com/chanscribe/chanscribe/internal/core/domain"
	"github.com/chanscribe/chanscribe/internal/core/ports/driven"
	"github.com/chanscribe/chanscribe/internal/core/ports/driving"
	"github.com/chanscribe/chanscribe/internal/logger"
	"github.com/chanscribe/chanscribe/internal/ratelimit"
)

// Ensure IngestOrchestrator implements the interface.
var _ driving.Ingestor = (*IngestOrchestrator)(nil)

// maxAttempts bounds the retry loop for one video's pipeline.
const maxAttempts = 3

// JournalFactory opens the journal rooted at the channel's directory.
type JournalFactory func(ch *domain.Channel) (driven.Journal, error)

// ArtifactFactory opens the artifact store rooted at the channel's directory.
type ArtifactFactory func(ch *domain.Channel) (driven.ArtifactStore, error)

// IngestOrchestrator coordinates the per-video pipeline: fetch, normalize,
// transcribe, chunk, persist. Videos run concurrently over a bounded worker
// pool; all source requests funnel through one shared rate limiter.
type IngestOrchestrator struct {
	catalog     driven.SourceCatalog
	fetcher     driven.AudioFetcher
	normalizer  driven.AudioNormalizer
	transcriber driven.Transcriber
	gateway     *PersistenceGateway
	journalFor  JournalFactory
	artifactFor ArtifactFactory
	limiter     *ratelimit.Limiter
	chunks      *chunker.Chunker

	pool *ants.Pool

	// backoff computes the pause before retry attempt n. Overridable in
	// tests; the default is uniform(1,5) seconds scaled by the attempt.
	backoff func(attempt int) time.Duration
}

// Option configures an IngestOrchestrator.
type Option func(*IngestOrchestrator) error

// WithPoolSize sets the worker pool size for concurrent video pipelines.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *IngestOrchestrator) error {
		if size < 1 {
			size = 1
		}
		if o.pool != nil {
			o.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		o.pool = pool
		return nil
	}
}

// WithBackoff overrides the retry pause schedule.
func WithBackoff(f func(attempt int) time.Duration) Option {
	return func(o *IngestOrchestrator) error {
		o.backoff = f
		return nil
	}
}

// NewIngestOrchestrator creates the orchestrator. The journal and artifact
// factories are invoked once the channel is known, since both live under
// the channel's directory.
func NewIngestOrchestrator(
	catalog driven.SourceCatalog,
	fetcher driven.AudioFetcher,
	normalizer driven.AudioNormalizer,
	transcriber driven.Transcriber,
	gateway *PersistenceGateway,
	journalFor JournalFactory,
	artifactFor ArtifactFactory,
	limiter *ratelimit.Limiter,
	chunks *chunker.Chunker,
	opts ...Option,
) (*IngestOrchestrator, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	o := &IngestOrchestrator{
		catalog:     catalog,
		fetcher:     fetcher,
		normalizer:  normalizer,
		transcriber: transcriber,
		gateway:     gateway,
		journalFor:  journalFor,
		artifactFor: artifactFor,
		limiter:     limiter,
		chunks:      chunks,
		pool:        pool,
		backoff:     defaultBackoff,
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			o.pool.Release()
			return nil, err
		}
	}

	return o, nil
}

// Release shuts down the worker pool.
func (o *IngestOrchestrator) Release() {
	o.pool.Release()
}

// Plan enumerates the channel, persists its metadata unless it was written
// recently, and reports what is available against the download journal.
func (o *IngestOrchestrator) Plan(ctx context.Context, channelURL string) (*driving.IngestPlan, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	refs, ch, err := o.catalog.Enumerate(ctx, channelURL)
	if err != nil {
		return nil, fmt.Errorf("enumerating channel: %w", err)
	}
	logger.Info("Enumerated %d videos for channel %s", len(refs), ch.Title)

	journal, err := o.journalFor(ch)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	downloaded, err := journal.Downloaded()
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}

	fresh, err := o.gateway.ChannelFresh(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	if fresh {
		logger.Debug("Channel %s written recently, skipping metadata refresh", ch.ID)
	} else {
		if err := o.gateway.PersistChannel(ctx, ch); err != nil {
			return nil, err
		}
		artifacts, err := o.artifactFor(ch)
		if err != nil {
			return nil, fmt.Errorf("opening artifact store: %w", err)
		}
		if err := artifacts.WriteChannelMetadata(ch); err != nil {
			return nil, fmt.Errorf("writing channel metadata: %w", err)
		}
	}

	return &driving.IngestPlan{
		Channel:    ch,
		Refs:       refs,
		Downloaded: downloaded,
	}, nil
}

// Run schedules the selected videos over the worker pool and blocks until
// all submitted items complete. Cancellation stops further submissions and
// retries; an attempt already in flight finishes so external tools are
// never killed mid-write. The session summary is written regardless of
// item failures.
func (o *IngestOrchestrator) Run(ctx context.Context, plan *driving.IngestPlan, sel domain.Selection) (*driving.IngestResult, error) {
	journal, err := o.journalFor(plan.Channel)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	artifacts, err := o.artifactFor(plan.Channel)
	if err != nil {
		return nil, fmt.Errorf("opening artifact store: %w", err)
	}

	refs := sel.Apply(plan.Refs, plan.Downloaded)

	// Single-video mode may name an ID outside the enumeration.
	if sel.Mode == domain.SelectSingle && len(refs) == 1 && refs[0].URL == "" {
		resolved, _, err := o.resolveSingle(ctx, refs[0].ID)
		if err != nil {
			return nil, err
		}
		refs[0] = *resolved
	}

	result := &driving.IngestResult{RunID: uuid.NewString()}
	logger.Section(fmt.Sprintf("Run %s: %d videos selected", result.RunID, len(refs)))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	tally := func(f func(*driving.IngestResult)) {
		mu.Lock()
		defer mu.Unlock()
		f(result)
	}

	for _, ref := range refs {
		if ctx.Err() != nil {
			logger.Warn("Cancelled, not submitting remaining videos")
			break
		}

		ref := ref
		wg.Add(1)
		err := o.pool.Submit(func() {
			defer wg.Done()
			o.runOne(ctx, plan.Channel, ref, journal, artifacts, tally)
		})
		if err != nil {
			wg.Done()
			tally(func(r *driving.IngestResult) { r.Failed++ })
			logger.Warn("Submitting %s failed: %v", ref.ID, err)
		}
	}

	wg.Wait()

	summary := &driven.SessionSummary{
		RunID:     result.RunID,
		Date:      time.Now().UTC().Format("2006-01-02"),
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		Skipped:   result.Skipped,
		Attempted: result.Succeeded + result.Failed + result.Skipped,
	}
	if err := artifacts.WriteSessionSummary(summary); err != nil {
		logger.Warn("Writing session summary failed: %v", err)
	}

	logger.Info("Run %s complete: %d succeeded, %d failed, %d skipped",
		result.RunID, result.Succeeded, result.Failed, result.Skipped)
	return result, nil
}

// resolveSingle looks up one explicit video ID at the source.
func (o *IngestOrchestrator) resolveSingle(ctx context.Context, videoID string) (*domain.VideoRef, *domain.Channel, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}
	ref, ch, err := o.catalog.ResolveVideo(ctx, videoID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving video %s: %w", videoID, err)
	}
	return ref, ch, nil
}

// runOne drives one video through the pipeline with retries and records
// its terminal outcome.
func (o *IngestOrchestrator) runOne(
	ctx context.Context,
	ch *domain.Channel,
	ref domain.VideoRef,
	journal driven.Journal,
	artifacts driven.ArtifactStore,
	tally func(func(*driving.IngestResult)),
) {
	fresh, err := o.gateway.VideoFresh(ctx, ref.ID)
	if err != nil {
		logger.Warn("Freshness check for %s failed: %v", ref.ID, err)
	}
	if fresh {
		logger.Debug("Video %s ingested recently, skipping", ref.ID)
		tally(func(r *driving.IngestResult) { r.Skipped++ })
		return
	}

	// An attempt that has started runs to completion even when the run is
	// being torn down; ctx only gates whether another attempt begins. A
	// hard kill would leave half-written tool output behind.
	work := context.WithoutCancel(ctx)

	// Metadata once up front; retries restart at the audio fetch.
	video := o.fetchMetadata(work, ch, ref)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = o.pipeline(work, ch, ref, video, artifacts)
		if lastErr == nil {
			if err := journal.RecordDownloaded(ref.ID); err != nil {
				logger.Warn("Recording success for %s failed: %v", ref.ID, err)
			}
			tally(func(r *driving.IngestResult) { r.Succeeded++ })
			return
		}

		var step *domain.StepError
		if errors.As(lastErr, &step) && !step.Retryable() {
			logger.Warn("Video %s failed at %s, not retryable", ref.ID, step.Kind)
			break
		}
		// An interrupted video is not a terminal failure; leave it out of
		// the failure journal so the next run picks it up again.
		if ctx.Err() != nil {
			logger.Warn("Video %s interrupted, leaving it for the next run", ref.ID)
			tally(func(r *driving.IngestResult) { r.Failed++ })
			return
		}
		if attempt < maxAttempts {
			pause := o.backoff(attempt)
			logger.Debug("Video %s attempt %d failed: %v (retrying in %s)", ref.ID, attempt, lastErr, pause)
			if err := sleepCtx(ctx, pause); err != nil {
				logger.Warn("Video %s interrupted, leaving it for the next run", ref.ID)
				tally(func(r *driving.IngestResult) { r.Failed++ })
				return
			}
		}
	}

	logger.Warn("Video %s failed: %v", ref.ID, lastErr)
	if err := journal.RecordFailure(ref.ID, lastErr); err != nil {
		logger.Warn("Recording failure for %s failed: %v", ref.ID, err)
	}
	tally(func(r *driving.IngestResult) { r.Failed++ })
}

// pipeline is one attempt at the full per-video sequence. Each failure is
// wrapped as a StepError so the retry driver can classify it.
func (o *IngestOrchestrator) pipeline(ctx context.Context, ch *domain.Channel, ref domain.VideoRef, video *domain.Video, artifacts driven.ArtifactStore) error {
	if err := o.limiter.Wait(ctx); err != nil {
		return domain.StepFailure(domain.FailFetch, err)
	}
	audioPath, err := o.fetcher.FetchAudio(ctx, ref.ID, artifacts.AudioDir())
	if err != nil {
		return domain.StepFailure(domain.FailFetch, err)
	}

	if err := o.normalizer.Normalize(ctx, audioPath); err != nil {
		return domain.StepFailure(domain.FailNormalize, err)
	}

	transcript, err := o.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return domain.StepFailure(domain.FailTranscribe, err)
	}

	if err := artifacts.WriteVideoMetadata(video); err != nil {
		return domain.StepFailure(domain.FailPersist, err)
	}
	if err := artifacts.WriteTranscript(ref.ID, transcript); err != nil {
		return domain.StepFailure(domain.FailPersist, err)
	}

	chunks := o.chunks.Chunk(ch.ID, ref.ID, transcript.Segments)
	if err := o.gateway.PersistVideo(ctx, ch, video, chunks); err != nil {
		return domain.StepFailure(domain.FailPersist, err)
	}

	logger.Info("Video %s ingested (%d chunks)", ref.ID, len(chunks))
	return nil
}

// fetchMetadata pulls full metadata, degrading to the enumeration-level
// record when the source refuses.
func (o *IngestOrchestrator) fetchMetadata(ctx context.Context, ch *domain.Channel, ref domain.VideoRef) *domain.Video {
	if err := o.limiter.Wait(ctx); err == nil {
		if video, err := o.fetcher.FetchMetadata(ctx, ref.ID); err == nil {
			video.ChannelID = ch.ID
			return video
		} else {
			logger.Warn("Metadata for %s unavailable: %v", ref.ID, err)
		}
	}

	return &domain.Video{
		ID:          ref.ID,
		ChannelID:   ch.ID,
		Title:       ref.Title,
		URL:         ref.URL,
		ExtractedAt: time.Now().UTC(),
	}
}

// defaultBackoff pauses between 1 and 5 seconds, scaled by the attempt.
func defaultBackoff(attempt int) time.Duration {
	seconds := (rand.Float64()*4 + 1) * float64(attempt)
	return time.Duration(seconds * float64(time.Second))
}

// sleepCtx sleeps for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
