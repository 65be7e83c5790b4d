package driving

import (
	"context"

	"github.com/chanscribe/chanscribe/internal/core/domain"
)

// Ingestor drives the ingestion pipeline for one channel.
type Ingestor interface {
	// Plan enumerates the channel, persists its metadata (unless fresh)
	// and reports what is available to download.
	Plan(ctx context.Context, channelURL string) (*IngestPlan, error)

	// Run schedules the selected videos over the worker pool and blocks
	// until all complete or the context is cancelled. The returned result
	// is valid even when individual items failed.
	Run(ctx context.Context, plan *IngestPlan, sel domain.Selection) (*IngestResult, error)
}

// IngestPlan is the outcome of enumeration, before selection.
type IngestPlan struct {
	Channel    *domain.Channel
	Refs       []domain.VideoRef
	Downloaded map[string]bool
}

// NewCount reports how many enumerated videos have no download record yet.
func (p *IngestPlan) NewCount() int {
	n := 0
	for _, ref := range p.Refs {
		if !p.Downloaded[ref.ID] {
			n++
		}
	}
	return n
}

// IngestResult aggregates terminal outcomes for a run.
type IngestResult struct {
	RunID     string
	Succeeded int
	Failed    int
	Skipped   int
}
