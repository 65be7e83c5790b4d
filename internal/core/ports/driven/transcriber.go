package driven

import (
	"context"

	"github.com/chanscribe/chanscribe/internal/core/domain"
)

// Transcriber converts a normalized audio file into timed text segments.
// The underlying speech model is an external collaborator; the pipeline
// treats it as a blocking, accelerator-bound black box and never invokes it
// beyond the worker pool's concurrency cap.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*domain.Transcript, error)
}
