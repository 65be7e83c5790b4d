package domain

// SelectionMode names the pre-run download choice.
type SelectionMode int

const (
	// SelectAllNew downloads every video not yet recorded as downloaded.
	SelectAllNew SelectionMode = iota

	// SelectOldest downloads the N oldest new videos.
	SelectOldest

	// SelectNewest downloads the N newest new videos.
	SelectNewest

	// SelectSingle downloads one explicit video by ID.
	SelectSingle
)

// Selection narrows the enumerated video set before scheduling.
// It is a pure filter/sort step: no I/O, no side effects.
type Selection struct {
	Mode SelectionMode

	// Count bounds SelectOldest and SelectNewest. Ignored otherwise.
	Count int

	// VideoID names the target for SelectSingle. Ignored otherwise.
	VideoID string
}

// Apply filters refs (assumed newest first, as enumerated) down to the
// videos this run should process. Items whose IDs appear in downloaded are
// dropped first, except in single-video mode where the explicit request wins.
func (s Selection) Apply(refs []VideoRef, downloaded map[string]bool) []VideoRef {
	if s.Mode == SelectSingle {
		for _, ref := range refs {
			if ref.ID == s.VideoID {
				return []VideoRef{ref}
			}
		}
		// Not in the enumeration: let the caller resolve it directly.
		return []VideoRef{{ID: s.VideoID}}
	}

	fresh := make([]VideoRef, 0, len(refs))
	for _, ref := range refs {
		if !downloaded[ref.ID] {
			fresh = append(fresh, ref)
		}
	}

	switch s.Mode {
	case SelectOldest:
		// Oldest are at the tail; take from the end, oldest first.
		n := min(s.Count, len(fresh))
		out := make([]VideoRef, 0, n)
		for i := len(fresh) - 1; i >= len(fresh)-n; i-- {
			out = append(out, fresh[i])
		}
		return out
	case SelectNewest:
		n := min(s.Count, len(fresh))
		return fresh[:n]
	default:
		return fresh
	}
}
