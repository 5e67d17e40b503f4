// Package pagination computes the sliding window of visible page numbers.
package pagination

// DefaultMaxVisible is the default width of the page-number window.
const DefaultMaxVisible = 5

// Window returns the inclusive range of page numbers to display around
// current, at most maxVisible wide and clamped to [1, total].
//
// The window is centered on current where possible. When current sits
// near either edge the window shifts so that it always spans
// min(maxVisible, total) pages. A total of zero (or negative) yields an
// empty window; callers typically hide pagination entirely when total
// is at most one.
func Window(current, total, maxVisible int) []int {
	if total <= 0 || maxVisible <= 0 {
		return nil
	}

	half := maxVisible / 2
	start := current - half
	if start < 1 {
		start = 1
	}
	end := start + maxVisible - 1
	if end > total {
		end = total
	}
	// end was clamped; pull start back so the window keeps its width.
	if shifted := end - maxVisible + 1; shifted > 1 {
		start = shifted
	} else {
		start = 1
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
