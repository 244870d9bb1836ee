// Package pagination holds the pure page arithmetic shared by the collection
// engine and the HTTP layer.
package pagination

// Item is one slot of a pager control: a page number or an ellipsis marker.
type Item struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

func TotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	n := (totalItems + pageSize - 1) / pageSize
	if n < 1 {
		n = 1
	}
	return n
}

// Clamp keeps the current page inside [1, max(totalPages,1)]. Must be applied
// whenever the item count changes, not just at render time.
func Clamp(current, totalItems, pageSize int) int {
	tp := TotalPages(totalItems, pageSize)
	if current < 1 {
		return 1
	}
	if current > tp {
		return tp
	}
	return current
}

// Window produces the visible pager slots for the given state. The first and
// last pages are always present; an ellipsis fills any gap wider than one
// between the neighbourhood around current (±delta) and the edges.
func Window(current, totalPages, delta int) []Item {
	if totalPages < 1 {
		totalPages = 1
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}
	if delta < 0 {
		delta = 0
	}

	out := []Item{{Page: 1}}
	if totalPages == 1 {
		return out
	}

	lo := current - delta
	if lo < 2 {
		lo = 2
	}
	hi := current + delta
	if hi > totalPages-1 {
		hi = totalPages - 1
	}
	// a gap of exactly one page is shown as the page itself
	if lo == 3 {
		lo = 2
	}
	if hi == totalPages-2 {
		hi = totalPages - 1
	}

	if lo > 2 {
		out = append(out, Item{Ellipsis: true})
	}
	for p := lo; p <= hi; p++ {
		out = append(out, Item{Page: p})
	}
	if hi < totalPages-1 {
		out = append(out, Item{Ellipsis: true})
	}
	out = append(out, Item{Page: totalPages})
	return out
}

// Slice returns the records visible on page (1-based). Out-of-range pages
// yield an empty slice; callers are expected to Clamp first.
func Slice[T any](records []T, page, pageSize int) []T {
	if pageSize <= 0 || page < 1 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(records) {
		return nil
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
