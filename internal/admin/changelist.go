package admin

import (
	"net/url"

	"github.com/angelmondragon/storefront-admin/pkg/pagination"
)

// ChangeList is one rendered page of a model's listing.
type ChangeList[T any] struct {
	Results  []T      `json:"results"`
	Count    int64    `json:"count"`
	Page     int      `json:"page"`
	NumPages int      `json:"num_pages"`
	PerPage  int      `json:"per_page"`
	Ordering string   `json:"ordering"`
	Filters  []Filter `json:"filters"`
	Actions  []Action `json:"actions"`
}

// NewChangeList assembles the page metadata around rows.
func NewChangeList[T any](opts Options, params ListParams, page pagination.Page, rows []T, filters []Filter) *ChangeList[T] {
	if rows == nil {
		rows = []T{}
	}
	if filters == nil {
		filters = []Filter{}
	}
	return &ChangeList[T]{
		Results:  rows,
		Count:    page.Count,
		Page:     page.Number,
		NumPages: page.NumPages,
		PerPage:  page.PerPage,
		Ordering: FormatOrdering(params.Ordering),
		Filters:  filters,
		Actions:  opts.AvailableActions(),
	}
}

// Filter describes one list filter and its choices.
type Filter struct {
	Title      string         `json:"title"`
	Parameters []string       `json:"parameters"`
	Choices    []FilterChoice `json:"choices"`
}

// FilterChoice is one selectable filter value. Query is the changelist query
// string that applies it while keeping the other active parameters.
type FilterChoice struct {
	Label    string `json:"label"`
	Query    string `json:"query"`
	Selected bool   `json:"selected"`
}

// QueryString rebuilds the changelist query from current with set applied
// and remove dropped. The page parameter is always reset.
func QueryString(current url.Values, set map[string]string, remove ...string) string {
	next := url.Values{}
	for key, vals := range current {
		next[key] = append([]string(nil), vals...)
	}
	next.Del(PageParam)
	for _, key := range remove {
		next.Del(key)
	}
	for key, val := range set {
		next.Set(key, val)
	}
	encoded := next.Encode()
	if encoded == "" {
		return "?"
	}
	return "?" + encoded
}

// ActiveValues returns the parameters that shape the listing: search,
// ordering and filters. Filter choice queries are built on top of them.
func (p ListParams) ActiveValues() url.Values {
	values := url.Values{}
	for key, vals := range p.Filters {
		values[key] = append([]string(nil), vals...)
	}
	if p.Query != "" {
		values.Set(SearchParam, p.Query)
	}
	if p.OrderingParam != "" {
		values.Set(OrderParam, p.OrderingParam)
	}
	return values
}
