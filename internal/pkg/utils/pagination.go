package utils

import (
	"net/http"
	"strconv"
)

// PaginationParams is a resolved page request
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// ParsePaginationParams reads page and page_size (or pageSize) from the
// query string. Bad values fall back to the defaults and sizes are capped.
func ParsePaginationParams(r *http.Request) PaginationParams {
	q := r.URL.Query()
	size := q.Get("page_size")
	if size == "" {
		size = q.Get("pageSize")
	}

	p := PaginationParams{
		Page:     atoiOr(q.Get("page"), 1),
		PageSize: atoiOr(size, DefaultPageSize),
	}
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	p.Offset = (p.Page - 1) * p.PageSize
	return p
}

func atoiOr(s string, fallback int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return fallback
}
