package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// refs are newest first, as enumeration returns them.
func testRefs() []VideoRef {
	return []VideoRef{
		{ID: "v5"}, {ID: "v4"}, {ID: "v3"}, {ID: "v2"}, {ID: "v1"},
	}
}

func TestSelectionApply(t *testing.T) {
	tests := []struct {
		name       string
		sel        Selection
		downloaded map[string]bool
		wantIDs    []string
	}{
		{
			name:    "all new with nothing downloaded",
			sel:     Selection{Mode: SelectAllNew},
			wantIDs: []string{"v5", "v4", "v3", "v2", "v1"},
		},
		{
			name:       "all new skips downloaded",
			sel:        Selection{Mode: SelectAllNew},
			downloaded: map[string]bool{"v4": true, "v1": true},
			wantIDs:    []string{"v5", "v3", "v2"},
		},
		{
			name:    "newest two",
			sel:     Selection{Mode: SelectNewest, Count: 2},
			wantIDs: []string{"v5", "v4"},
		},
		{
			name:    "oldest two come back oldest first",
			sel:     Selection{Mode: SelectOldest, Count: 2},
			wantIDs: []string{"v1", "v2"},
		},
		{
			name:    "count larger than set",
			sel:     Selection{Mode: SelectOldest, Count: 10},
			wantIDs: []string{"v1", "v2", "v3", "v4", "v5"},
		},
		{
			name:       "single video ignores downloaded filter",
			sel:        Selection{Mode: SelectSingle, VideoID: "v3"},
			downloaded: map[string]bool{"v3": true},
			wantIDs:    []string{"v3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.sel.Apply(testRefs(), tt.downloaded)
			ids := make([]string, len(got))
			for i, ref := range got {
				ids[i] = ref.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestSelectionApplySingleNotEnumerated(t *testing.T) {
	sel := Selection{Mode: SelectSingle, VideoID: "vX"}
	got := sel.Apply(testRefs(), nil)
	assert.Len(t, got, 1)
	assert.Equal(t, "vX", got[0].ID)
}
