package service

import (
	"strconv"
	"strings"

	"shop-service/pkg/apperr"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a 1-indexed page window
type PageRequest struct {
	Page     int
	PageSize int
}

// NewPageRequest parses page and pageSize, falling back to the defaults for
// absent, non-numeric or non-positive input. pageSize is capped at MaxPageSize.
func NewPageRequest(page, pageSize string) PageRequest {
	req := PageRequest{Page: DefaultPage, PageSize: DefaultPageSize}
	if n, err := strconv.Atoi(strings.TrimSpace(page)); err == nil && n > 0 {
		req.Page = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(pageSize)); err == nil && n > 0 {
		req.PageSize = min(n, MaxPageSize)
	}
	return req
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is one window of a listing
type Page[T any] struct {
	Items       []T   `json:"items"`
	CurrentPage int   `json:"currentPage"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

// newPage builds the page for items. An empty window, including one past the
// last page, is a not-found result with all counters zero.
func newPage[T any](items []T, req PageRequest, total int64, notFoundMsg string) (Page[T], error) {
	if len(items) == 0 {
		return Page[T]{Items: []T{}}, apperr.NotFound(notFoundMsg)
	}
	size := int64(req.PageSize)
	return Page[T]{
		Items:       items,
		CurrentPage: req.Page,
		TotalItems:  total,
		TotalPages:  int((total + size - 1) / size),
	}, nil
}
