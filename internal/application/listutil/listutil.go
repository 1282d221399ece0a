// Package listutil parses paging parameters for the sync run history.
package listutil

import (
	"net/url"
	"slices"
	"strconv"
)

// PageParams carries paging parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed
	PerPage int
}

// PageInfo is the paging envelope returned alongside a page of runs.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// DefaultPerPage is used when per_page is absent or not one of PerPageOptions.
const DefaultPerPage = 20

// PerPageOptions are the accepted per_page values.
var PerPageOptions = []int{10, 20, 50, 100}

// ParsePageParams reads page and per_page from query values.
// A bare limit (the older run-history parameter) is honoured when per_page is absent.
// POST: Page >= 1 and PerPage is one of PerPageOptions or a limit in [1, 100]
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage := DefaultPerPage
	if v := q.Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && slices.Contains(PerPageOptions, n) {
			perPage = n
		}
	} else if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 100 {
			perPage = n
		}
	}
	return PageParams{Page: page, PerPage: perPage}
}

// NewPageInfo computes paging metadata for total rows.
// PRE: total >= 0
// POST: Page is clamped to [1, TotalPages]; TotalPages >= 1
func NewPageInfo(p PageParams, total int) PageInfo {
	perPage := p.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := max((total+perPage-1)/perPage, 1)
	page := min(max(p.Page, 1), totalPages)
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the row offset of the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// HasNext reports whether a later page exists.
func (p PageInfo) HasNext() bool {
	return p.Page < p.TotalPages
}
