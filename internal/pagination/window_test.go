package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		total      int
		maxVisible int
		want       []int
	}{
		{"centered", 7, 20, 5, []int{5, 6, 7, 8, 9}},
		{"clamped at start", 1, 20, 5, []int{1, 2, 3, 4, 5}},
		{"clamped at end", 20, 20, 5, []int{16, 17, 18, 19, 20}},
		{"near start", 2, 20, 5, []int{1, 2, 3, 4, 5}},
		{"near end", 19, 20, 5, []int{16, 17, 18, 19, 20}},
		{"fewer pages than window", 2, 3, 5, []int{1, 2, 3}},
		{"single page", 1, 1, 5, []int{1}},
		{"no pages", 1, 0, 5, nil},
		{"negative total", 1, -4, 5, nil},
		{"zero width", 3, 10, 0, nil},
		{"even window width", 6, 10, 4, []int{4, 5, 6, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Window(tt.current, tt.total, tt.maxVisible))
		})
	}
}

func TestWindowAlwaysFullWidth(t *testing.T) {
	const total, width = 30, 5
	for current := 1; current <= total; current++ {
		got := Window(current, total, width)
		assert.Len(t, got, width, "current=%d", current)
		assert.Contains(t, got, current, "window must include the current page")
	}
}
