package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable indicates the external source could not be
	// reached or returned malformed data.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrVideoNotFound indicates a requested video does not exist at the source.
	ErrVideoNotFound = errors.New("video not found")

	// ErrEmptyChannel indicates channel enumeration returned zero videos.
	ErrEmptyChannel = errors.New("channel has no videos")

	// ErrExternalTool indicates an external tool invocation failed
	// (non-zero exit, or the expected output was never produced).
	ErrExternalTool = errors.New("external tool failure")

	// ErrSourceFileMissing indicates an audio file expected on disk is absent.
	ErrSourceFileMissing = errors.New("source file missing")

	// ErrStoreUnavailable indicates a backing store could not be reached.
	// At the start of a run this is fatal for the whole run.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrPartialWrite indicates the relational write succeeded but the
	// vector write failed (or vice versa). Both writes are idempotent,
	// so re-running the item reconciles the stores.
	ErrPartialWrite = errors.New("partial write across stores")
)

// FailKind classifies a per-item pipeline step failure. The retry driver
// uses it to decide between retrying the item and failing it terminally.
type FailKind int

const (
	// FailFetch covers audio download failures.
	FailFetch FailKind = iota

	// FailNormalize covers silence-removal failures.
	FailNormalize

	// FailTranscribe covers transcription failures.
	FailTranscribe

	// FailPersist covers store write failures.
	FailPersist
)

// String returns the kind's log label.
func (k FailKind) String() string {
	switch k {
	case FailFetch:
		return "fetch"
	case FailNormalize:
		return "normalize"
	case FailTranscribe:
		return "transcribe"
	case FailPersist:
		return "persist"
	default:
		return "unknown"
	}
}

// StepError is the typed result of a failed pipeline step.
type StepError struct {
	Kind FailKind
	Err  error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return e.Kind.String() + ": " + e.Err.Error()
}

// Unwrap exposes the underlying cause for errors.Is checks.
func (e *StepError) Unwrap() error {
	return e.Err
}

// StepFailure wraps err as a StepError of the given kind.
func StepFailure(kind FailKind, err error) *StepError {
	return &StepError{Kind: kind, Err: err}
}

// Retryable reports whether a step failure is worth another attempt.
// Store failures are not: the stores are checked at startup, and a write
// rejected once will be rejected again within the same run.
func (e *StepError) Retryable() bool {
	return e.Kind != FailPersist
}
