package domain

import "time"

// Video is one unit of ingestible content belonging to a Channel.
// Created when first fetched and never deleted by the pipeline; its
// ExtractedAt timestamp drives the freshness skip.
type Video struct {
	// ID is the source-assigned video identifier.
	ID string

	// ChannelID links to the parent Channel.
	ChannelID string

	// Title is the video title.
	Title string

	// Description is the video description.
	Description string

	// UploadDate is the publish date as reported by the source (YYYYMMDD).
	UploadDate string

	// Duration is the length in seconds.
	Duration int64

	// ViewCount and LikeCount are popularity counters at extraction time.
	ViewCount int64
	LikeCount int64

	// Tags and Categories are source-assigned labels.
	Tags       []string
	Categories []string

	// Language is the spoken language code, if known.
	Language string

	// AudioLanguage is the audio track language, if distinct.
	AudioLanguage string

	// HasAutoCaptions and HasSubtitles flag available caption tracks.
	HasAutoCaptions bool
	HasSubtitles    bool

	// Chapters holds source-provided chapter markers.
	Chapters []Chapter

	// URL is the watch URL.
	URL string

	// Uploader is the display name of the channel owner.
	Uploader string

	// ExtractedAt is when the metadata was last pulled from the source.
	ExtractedAt time.Time
}

// Chapter is a source-provided chapter marker within a video.
type Chapter struct {
	Title string  `json:"title"`
	Start float64 `json:"start_time"`
	End   float64 `json:"end_time"`
}
