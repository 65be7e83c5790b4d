// Package chunker folds timed transcript segments into fixed word-count
// windows, each carrying the timestamps of the segments it covers.
package chunker

import (
	"strings"

	"github.com/chanscribe/chanscribe/internal/core/domain"
)

// DefaultWindowWords is the default number of words per chunk window.
const DefaultWindowWords = 100

// Chunker splits a segment sequence into retrieval chunks.
type Chunker struct {
	windowWords int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithWindowWords sets the word count at which a window closes.
func WithWindowWords(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.windowWords = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{windowWords: DefaultWindowWords}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chunk folds segments into windows. A window closes when its accumulated
// word count reaches the configured size, or at the final segment, so the
// last window is always emitted even when short. The window's start is the
// start of the first segment folded into it and its end is the end of the
// closing segment. An empty segment sequence yields no chunks.
func (c *Chunker) Chunk(channelID, videoID string, segments []domain.TranscriptSegment) []domain.Chunk {
	if len(segments) == 0 {
		return nil
	}

	var (
		chunks  []domain.Chunk
		buf     strings.Builder
		words   int
		start   float64
		started bool
	)

	for i, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text != "" {
			if !started {
				start = seg.Start
				started = true
			}
			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(text)
			words += len(strings.Fields(text))
		}

		last := i == len(segments)-1
		if (words >= c.windowWords || last) && buf.Len() > 0 {
			index := len(chunks)
			chunks = append(chunks, domain.Chunk{
				ID:        domain.ChunkID(channelID, videoID, index),
				VideoID:   videoID,
				ChannelID: channelID,
				Index:     index,
				Start:     start,
				End:       seg.End,
				Text:      buf.String(),
			})
			buf.Reset()
			words = 0
			started = false
		}
	}

	return chunks
}
