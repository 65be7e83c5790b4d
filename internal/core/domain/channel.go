package domain

import "time"

// Channel is one logical source grouping of videos.
// Its ID is assigned by the source on first enumeration and never changes;
// title, description and URL are overwritten on later runs.
type Channel struct {
	// ID is the source-assigned channel identifier.
	ID string

	// Title is the display title.
	Title string

	// Description is the channel description.
	Description string

	// URL is the canonical channel URL.
	URL string

	// VideoCount is the number of videos found at enumeration time.
	VideoCount int

	// ExtractedAt is when the metadata was last pulled from the source.
	ExtractedAt time.Time
}

// VideoRef identifies one enumerable video before its full metadata is known.
// Enumeration returns refs in the source's playlist order, newest first.
type VideoRef struct {
	// ID is the source-assigned video identifier.
	ID string

	// Title is the playlist-level title, if the source exposed one.
	Title string

	// URL is the watch URL.
	URL string
}
