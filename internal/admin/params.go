package admin

import (
	"net/url"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/pagination"
	"github.com/angelmondragon/storefront-admin/pkg/search"
)

// OrderField is one column of a changelist ordering.
type OrderField struct {
	Column string
	Desc   bool
}

func (f OrderField) String() string {
	if f.Desc {
		return "-" + f.Column
	}
	return f.Column
}

// ListParams are the parsed changelist query parameters.
type ListParams struct {
	Query    string
	Ordering []OrderField
	// OrderingParam is the o parameter as requested, blank for the default ordering.
	OrderingParam string
	Page          pagination.Params
	// Filters holds the list filter parameters, already checked against the admin.
	Filters url.Values
}

// ParseListParams reads q, o, p and the admin's filter parameters from values.
// Unknown parameters and non-sortable ordering columns are validation errors.
func ParseListParams(values url.Values, opts Options) (ListParams, error) {
	page, err := pagination.ParsePage(values.Get(PageParam))
	if err != nil {
		return ListParams{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid page").
			WithDetails(map[string]any{"field": PageParam})
	}

	ordering, err := ParseOrdering(values.Get(OrderParam), opts)
	if err != nil {
		return ListParams{}, err
	}

	filters := url.Values{}
	for key, vals := range values {
		switch key {
		case SearchParam, OrderParam, PageParam:
			continue
		}
		if !opts.acceptsFilter(key) {
			return ListParams{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown filter parameter").
				WithDetails(map[string]any{"field": key})
		}
		filters[key] = vals
	}

	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = pagination.DefaultPerPage
	}

	return ListParams{
		Query:         strings.TrimSpace(values.Get(SearchParam)),
		Ordering:      ordering,
		OrderingParam: strings.TrimSpace(values.Get(OrderParam)),
		Page:          pagination.Params{Page: page, PerPage: perPage},
		Filters:       filters,
	}, nil
}

// ParseOrdering parses a comma-separated ordering; blank means the admin's default.
func ParseOrdering(raw string, opts Options) ([]OrderField, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return parseFields(opts.Ordering), nil
	}
	fields := parseFields(strings.Split(raw, ","))
	for _, field := range fields {
		if _, ok := opts.Sortable[field.Column]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "column is not sortable").
				WithDetails(map[string]any{"field": OrderParam, "column": field.Column, "sortable": sortableColumns(opts)})
		}
	}
	return fields, nil
}

func parseFields(parts []string) []OrderField {
	fields := make([]OrderField, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		fields = append(fields, OrderField{Column: strings.TrimPrefix(part, "-"), Desc: desc})
	}
	return fields
}

func sortableColumns(opts Options) []string {
	cols := make([]string, 0, len(opts.Sortable))
	for col := range opts.Sortable {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// OrderBy applies the ordering followed by a descending primary key tie-breaker.
func (o Options) OrderBy(db *gorm.DB, fields []OrderField) *gorm.DB {
	columns := make([]clause.OrderByColumn, 0, len(fields)+1)
	pkSeen := false
	for _, field := range fields {
		expr, ok := o.Sortable[field.Column]
		if !ok {
			expr = field.Column
		}
		if expr == o.PKColumn {
			pkSeen = true
		}
		columns = append(columns, clause.OrderByColumn{
			Column: clause.Column{Name: expr, Raw: true},
			Desc:   field.Desc,
		})
	}
	if !pkSeen && o.PKColumn != "" {
		columns = append(columns, clause.OrderByColumn{
			Column: clause.Column{Name: o.PKColumn, Raw: true},
			Desc:   true,
		})
	}
	return db.Order(clause.OrderBy{Columns: columns})
}

// Search narrows db to rows matching the search term on the admin's search fields.
func (o Options) Search(db *gorm.DB, query string) *gorm.DB {
	return search.Scope(o.SearchFields, query)(db)
}

// ResolvePage counts the rows matched by db and validates the requested page.
func ResolvePage(db *gorm.DB, params pagination.Params) (pagination.Page, error) {
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return pagination.Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count changelist rows")
	}
	page, err := params.Resolve(count)
	if err != nil {
		return pagination.Page{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid page").
			WithDetails(map[string]any{"field": PageParam})
	}
	return page, nil
}

// Paginate limits db to the rows of page.
func Paginate(db *gorm.DB, page pagination.Page) *gorm.DB {
	params := pagination.Params{Page: page.Number, PerPage: page.PerPage}
	return db.Offset(params.Offset()).Limit(params.Limit())
}

// FormatOrdering renders fields back into the o parameter form.
func FormatOrdering(fields []OrderField) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}
