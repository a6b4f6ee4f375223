// Package paginate slices ordered result sets into zero-based pages. It has
// no knowledge of the element type; every listing surface reuses it.
package paginate

// Page describes one slice of a larger sequence.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	TotalPages int  `json:"totalPages"`
	Total      int  `json:"total"`
	HasPrev    bool `json:"hasPrev"`
	HasNext    bool `json:"hasNext"`
}

// Slice returns the zero-based page of items, clamped to the sequence bounds.
// An out-of-range page yields an empty page rather than an error.
func Slice[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = 10
	}
	if page < 0 {
		page = 0
	}

	total := len(items)
	totalPages := TotalPages(total, pageSize)

	start := page * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 0,
		HasNext:    page+1 < totalPages,
	}
}

// TotalPages computes ceil(total/pageSize); an empty sequence has zero pages.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
