package dto

// PageRequest carries page-number pagination from the query string.
type PageRequest struct {
	Page    int `form:"page" validate:"omitempty,gte=1"`
	PerPage int `form:"per_page" validate:"omitempty,gte=1,lte=100"`
}

// PageResponse wraps one page of items.
type PageResponse[T any] struct {
	Items      []T  `json:"items"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewPageResponse converts items with convert. Items is never null in JSON.
func NewPageResponse[S, T any](items []S, total, page, perPage int, convert func(*S) T) *PageResponse[T] {
	out := make([]T, 0, len(items))
	for i := range items {
		out = append(out, convert(&items[i]))
	}

	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}

	return &PageResponse[T]{
		Items:      out,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
