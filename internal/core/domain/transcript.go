package domain

// TranscriptSegment is one timed span of transcribed speech.
// Segments arrive in start order, non-overlapping, with monotonically
// non-decreasing start times. They are consumed immediately by the chunker.
type TranscriptSegment struct {
	// Start and End are offsets in seconds from the beginning of the audio.
	Start float64 `json:"start"`
	End   float64 `json:"end"`

	// Text is the transcribed text of the span.
	Text string `json:"text"`

	// Words carries per-word timing when the model produced it.
	Words []TranscriptWord `json:"words,omitempty"`
}

// TranscriptWord is per-word timing within a segment.
type TranscriptWord struct {
	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability"`
}

// Transcript is the full output of transcribing one audio file.
type Transcript struct {
	// Text is the concatenated segment text.
	Text string `json:"text"`

	// Language is the detected language code.
	Language string `json:"language"`

	// LanguageProbability is the model's confidence in the detection.
	LanguageProbability float64 `json:"language_probability"`

	// Segments are the timed spans in start order.
	Segments []TranscriptSegment `json:"segments"`
}
