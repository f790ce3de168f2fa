package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultPerPage is the changelist page size when an admin does not set one.
	DefaultPerPage = 100
	// AutocompletePerPage is the page size of autocomplete lookups.
	AutocompletePerPage = 20
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page    int
	PerPage int
}

// Page describes one slice of a counted result set.
type Page struct {
	Number   int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Count    int64 `json:"count"`
	NumPages int   `json:"num_pages"`
}

// ParsePage reads a 1-based page number; blank means the first page.
func ParsePage(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid page %q", value)
	}
	return n, nil
}

// Normalize fills in defaults for zero values.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	return p
}

// Offset returns the number of rows preceding the page.
func (p Params) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.PerPage
}

// Limit returns the page size.
func (p Params) Limit() int {
	return p.Normalize().PerPage
}

// NumPages returns how many pages count rows span. An empty result still has one page.
func NumPages(count int64, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if count <= 0 {
		return 1
	}
	return int((count + int64(perPage) - 1) / int64(perPage))
}

// Resolve validates the requested page against count and returns the page metadata.
func (p Params) Resolve(count int64) (Page, error) {
	p = p.Normalize()
	pages := NumPages(count, p.PerPage)
	if p.Page > pages {
		return Page{}, fmt.Errorf("page %d out of range (1-%d)", p.Page, pages)
	}
	return Page{
		Number:   p.Page,
		PerPage:  p.PerPage,
		Count:    count,
		NumPages: pages,
	}, nil
}

// HasMore reports whether rows remain after the page.
func (pg Page) HasMore() bool {
	return pg.Number < pg.NumPages
}
