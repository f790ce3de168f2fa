package admin

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
)

const dateLayout = "2006-01-02"

// RelatedChoice is one row offered by a relation filter.
type RelatedChoice struct {
	ID    uint
	Label string
}

// RelatedFilter filters on a foreign key. Params lists the accepted parameter
// names, the first one is used when building choice queries.
type RelatedFilter struct {
	Title  string
	Column string
	Params []string
}

// Selected returns the chosen id, or nil when the filter is inactive.
func (f RelatedFilter) Selected(values url.Values) (*uint, error) {
	for _, param := range f.Params {
		raw := strings.TrimSpace(values.Get(param))
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid filter value").
				WithDetails(map[string]any{"field": param, "value": raw})
		}
		v := uint(id)
		return &v, nil
	}
	return nil, nil
}

// Apply narrows db when the filter is active.
func (f RelatedFilter) Apply(db *gorm.DB, values url.Values) (*gorm.DB, error) {
	selected, err := f.Selected(values)
	if err != nil || selected == nil {
		return db, err
	}
	return db.Where(f.Column+" = ?", *selected), nil
}

// Describe renders the filter with an "All" choice followed by choices.
func (f RelatedFilter) Describe(active url.Values, choices []RelatedChoice) Filter {
	selected, _ := f.Selected(active)
	out := Filter{
		Title:      f.Title,
		Parameters: f.Params,
		Choices: []FilterChoice{{
			Label:    "All",
			Query:    QueryString(active, nil, f.Params...),
			Selected: selected == nil,
		}},
	}
	for _, choice := range choices {
		out.Choices = append(out.Choices, FilterChoice{
			Label:    choice.Label,
			Query:    QueryString(active, map[string]string{f.Params[0]: strconv.FormatUint(uint64(choice.ID), 10)}, f.Params[1:]...),
			Selected: selected != nil && *selected == choice.ID,
		})
	}
	return out
}

// DateFilter filters a timestamp column on a [gte, lt) date range with the
// Any date / Today / Past 7 days / This month / This year choices.
type DateFilter struct {
	Title  string
	Column string
	// Field is the query parameter stem: <Field>__gte and <Field>__lt.
	Field string
}

func (f DateFilter) gteParam() string { return f.Field + "__gte" }
func (f DateFilter) ltParam() string  { return f.Field + "__lt" }

// Params returns the accepted query parameters.
func (f DateFilter) Params() []string {
	return []string{f.gteParam(), f.ltParam()}
}

// Apply narrows db to the requested range. Malformed dates are validation errors.
func (f DateFilter) Apply(db *gorm.DB, values url.Values) (*gorm.DB, error) {
	for _, bound := range []struct {
		param string
		op    string
	}{
		{param: f.gteParam(), op: ">="},
		{param: f.ltParam(), op: "<"},
	} {
		raw := strings.TrimSpace(values.Get(bound.param))
		if raw == "" {
			continue
		}
		day, err := parseDate(raw)
		if err != nil {
			return db, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date filter").
				WithDetails(map[string]any{"field": bound.param, "value": raw})
		}
		db = db.Where(f.Column+" "+bound.op+" ?", day)
	}
	return db, nil
}

// Describe renders the date choices relative to now.
func (f DateFilter) Describe(active url.Values, now time.Time) Filter {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)

	ranges := []struct {
		label    string
		from, to time.Time
	}{
		{label: "Today", from: today, to: tomorrow},
		{label: "Past 7 days", from: today.AddDate(0, 0, -7), to: tomorrow},
		{label: "This month", from: monthStart, to: monthStart.AddDate(0, 1, 0)},
		{label: "This year", from: yearStart, to: yearStart.AddDate(1, 0, 0)},
	}

	gte := strings.TrimSpace(active.Get(f.gteParam()))
	lt := strings.TrimSpace(active.Get(f.ltParam()))

	out := Filter{
		Title:      f.Title,
		Parameters: f.Params(),
		Choices: []FilterChoice{{
			Label:    "Any date",
			Query:    QueryString(active, nil, f.Params()...),
			Selected: gte == "" && lt == "",
		}},
	}
	for _, r := range ranges {
		from, to := r.from.Format(dateLayout), r.to.Format(dateLayout)
		out.Choices = append(out.Choices, FilterChoice{
			Label:    r.label,
			Query:    QueryString(active, map[string]string{f.gteParam(): from, f.ltParam(): to}),
			Selected: gte == from && lt == to,
		})
	}
	return out
}

// parseDate accepts a date or an RFC 3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// ChoiceFilter is a single-parameter filter with a fixed set of values.
// Values outside the set leave the listing unfiltered.
type ChoiceFilter struct {
	Title     string
	Parameter string
	Choices   []ChoiceOption
}

// ChoiceOption pairs a parameter value with its label.
type ChoiceOption struct {
	Value string
	Label string
}

// Value returns the active value when it is one of the filter's choices.
func (f ChoiceFilter) Value(values url.Values) (string, bool) {
	raw := strings.TrimSpace(values.Get(f.Parameter))
	for _, choice := range f.Choices {
		if choice.Value == raw {
			return raw, true
		}
	}
	return "", false
}

// Describe renders the "All" choice followed by the fixed choices.
func (f ChoiceFilter) Describe(active url.Values) Filter {
	current, ok := f.Value(active)
	out := Filter{
		Title:      f.Title,
		Parameters: []string{f.Parameter},
		Choices: []FilterChoice{{
			Label:    "All",
			Query:    QueryString(active, nil, f.Parameter),
			Selected: !ok,
		}},
	}
	for _, choice := range f.Choices {
		out.Choices = append(out.Choices, FilterChoice{
			Label:    choice.Label,
			Query:    QueryString(active, map[string]string{f.Parameter: choice.Value}),
			Selected: ok && current == choice.Value,
		})
	}
	return out
}
