package repository

import "ministry/internal/domain/constants"

// Pagination is a page request. Zero values fall back to the defaults.
type Pagination struct {
	Page    int
	PerPage int
}

// Normalize clamps the page request into the allowed range.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = constants.DefaultPage
	}
	if p.PerPage < 1 {
		p.PerPage = constants.DefaultPerPage
	}
	if p.PerPage > constants.MaxPerPage {
		p.PerPage = constants.MaxPerPage
	}

	return p
}

// Offset is the number of rows to skip for the page.
func (p Pagination) Offset() int {
	n := p.Normalize()

	return (n.Page - 1) * n.PerPage
}

// Page is one page of results with its totals.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	LastPage int   `json:"last_page"`
}

// NewPage assembles a page from its items and the unpaginated total.
func NewPage[T any](items []T, total int64, p Pagination) *Page[T] {
	p = p.Normalize()
	last := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if last < 1 {
		last = 1
	}
	if items == nil {
		items = []T{}
	}

	return &Page[T]{
		Items:    items,
		Total:    total,
		Page:     p.Page,
		PerPage:  p.PerPage,
		LastPage: last,
	}
}

// MapPage converts the items of a page while keeping its totals.
func MapPage[T, U any](page *Page[T], fn func(T) U) *Page[U] {
	items := make([]U, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, fn(item))
	}

	return &Page[U]{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PerPage:  page.PerPage,
		LastPage: page.LastPage,
	}
}
