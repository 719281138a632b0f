package api

import (
	"math"
	"net/http"
	"strconv"
)

// DefaultLimit is the page size when the caller sends none.
const DefaultLimit = 50

// MaxLimit caps the page size to bound per-request store load.
const MaxLimit = 200

// PaginationParams holds parsed pagination values from query params.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationMeta contains pagination metadata for the response.
type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ParsePagination extracts page and limit from query params with defaults.
// Page is 1-based; limit is clamped to MaxLimit.
func ParsePagination(r *http.Request) PaginationParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Meta builds the response metadata from the total matching count.
func (p PaginationParams) Meta(total int) PaginationMeta {
	totalPages := int(math.Ceil(float64(total) / float64(p.Limit)))
	return PaginationMeta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
