package domain

import "fmt"

// Chunk is the unit of retrieval: a fixed word-count window of transcript
// text with the timestamps of the segments folded into it.
//
// A chunk's ID is derived, not store-assigned, so the relational and vector
// stores converge on the same key across re-runs.
type Chunk struct {
	// ID is ChunkID(ChannelID, VideoID, Index).
	ID string

	// VideoID links to the parent Video.
	VideoID string

	// ChannelID links to the Video's Channel.
	ChannelID string

	// Index is the ordinal window position within the video's transcript.
	Index int

	// Start and End are the window bounds in seconds. Start <= End.
	Start float64
	End   float64

	// Text is the window text. Never empty for an emitted chunk.
	Text string
}

// ChunkID derives the stable chunk identifier. It is a pure function of its
// inputs: re-running the pipeline on unchanged input yields byte-identical
// IDs, which is what makes the dual-store upserts converge.
func ChunkID(channelID, videoID string, index int) string {
	return fmt.Sprintf("%s-%s-%d", channelID, videoID, index)
}
