package shared

import "math"

// DefaultPageSize is the fixed listing page size.
const DefaultPageSize = 5

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPagination computes pagination metadata. An empty result set yields
// TotalPages == 0.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Paginate slices records for the requested page. Out-of-range pages yield an
// empty slice rather than an error.
func Paginate[T any](records []T, page, perPage int) ([]T, Pagination) {
	p := NewPagination(page, perPage, len(records))
	start := (p.Page - 1) * p.PerPage
	if start >= len(records) {
		return []T{}, p
	}
	end := start + p.PerPage
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], p
}
