package driven

import "context"

// AudioNormalizer removes silence from a raw audio file and re-encodes it
// in place. The operation is atomic from the caller's point of view: either
// the file at path is fully normalized on return, or the original is left
// untouched and an error is returned.
type AudioNormalizer interface {
	Normalize(ctx context.Context, path string) error
}
