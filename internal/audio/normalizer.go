// Package audio removes silence from downloaded audio files using ffmpeg.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/chanscribe/chanscribe/internal/core/domain"
	"github.com/chanscribe/chanscribe/internal/core/ports/driven"
	"github.com/chanscribe/chanscribe/internal/logger"
)

// Ensure Normalizer implements the interface.
var _ driven.AudioNormalizer = (*Normalizer)(nil)

// silenceFilter trims every silent period of at least one second quieter
// than -50dB. The parameters are fixed; results must be deterministic for
// a given input so re-runs transcribe identical audio.
const silenceFilter = "silenceremove=stop_periods=-1:stop_duration=1:stop_threshold=-50dB"

// Normalizer shells out to ffmpeg for silence removal.
type Normalizer struct {
	binary string
}

// Option configures the normalizer.
type Option func(*Normalizer)

// WithBinary overrides the ffmpeg executable. Useful for testing.
func WithBinary(bin string) Option {
	return func(n *Normalizer) {
		if bin != "" {
			n.binary = bin
		}
	}
}

// New creates a normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize removes silence from the WAV file at path and replaces it in
// place. ffmpeg writes to a sibling temp file first; only after the tool
// exits zero and produced non-empty output is it renamed over the
// original, so the canonical path always holds a complete file.
func (n *Normalizer) Normalize(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrSourceFileMissing, path)
	}

	ext := filepath.Ext(path)
	trimmed := strings.TrimSuffix(path, ext) + "_trimmed" + ext

	cmd := exec.CommandContext(ctx, n.binary,
		"-i", path,
		"-af", silenceFilter,
		"-acodec", "pcm_s16le",
		"-y",
		trimmed,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("Trimming silence: %s", filepath.Base(path))
	if err := cmd.Run(); err != nil {
		os.Remove(trimmed)
		return fmt.Errorf("%w: %s: %w", domain.ErrExternalTool, n.binary, err)
	}

	info, err := os.Stat(trimmed)
	if err != nil || info.Size() == 0 {
		os.Remove(trimmed)
		return fmt.Errorf("%w: %s produced no output for %s", domain.ErrExternalTool, n.binary, filepath.Base(path))
	}

	// Same directory, same filesystem: the rename replaces atomically.
	if err := os.Rename(trimmed, path); err != nil {
		os.Remove(trimmed)
		return fmt.Errorf("replacing original: %w", err)
	}
	return nil
}
