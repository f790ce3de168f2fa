package admin

import (
	"context"

	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/pagination"
)

// AutocompleteItem is one lookup match.
type AutocompleteItem struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// AutocompleteResult is one page of lookup matches.
type AutocompleteResult struct {
	Results []AutocompleteItem `json:"results"`
	More    bool               `json:"more"`
}

// Lookup searches db (already bound to the model) with the admin's search
// fields and default ordering and returns one page of matches.
func Lookup[T any](ctx context.Context, db *gorm.DB, opts Options, term string, page int, item func(T) AutocompleteItem) (*AutocompleteResult, error) {
	q := opts.Search(db.WithContext(ctx), term).Session(&gorm.Session{})

	params := pagination.Params{Page: page, PerPage: pagination.AutocompletePerPage}
	resolved, err := ResolvePage(q, params)
	if err != nil {
		return nil, err
	}

	var rows []T
	if err := Paginate(opts.OrderBy(q, parseFields(opts.Ordering)), resolved).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "autocomplete lookup")
	}

	out := &AutocompleteResult{
		Results: make([]AutocompleteItem, 0, len(rows)),
		More:    resolved.HasMore(),
	}
	for _, row := range rows {
		out.Results = append(out.Results, item(row))
	}
	return out, nil
}
