// Package admin holds the changelist machinery shared by every model admin:
// list parameters, ordering, list filters, bulk actions, operator messages
// and the action log.
package admin

import (
	"fmt"
	"slices"
)

const (
	// SearchParam carries the free-text search term.
	SearchParam = "q"
	// OrderParam carries the comma-separated ordering columns.
	OrderParam = "o"
	// PageParam carries the 1-based page number.
	PageParam = "p"
)

// Options describes how one model is administered.
type Options struct {
	// Model is the URL name, e.g. "product".
	Model string
	// ObjectType is the app-qualified name stored in the action log, e.g. "store.product".
	ObjectType        string
	VerboseName       string
	VerboseNamePlural string
	ListDisplay       []string
	// SearchFields are SQL column expressions matched by the search term.
	SearchFields []string
	// Sortable maps a display column to the SQL expression it orders by.
	Sortable map[string]string
	// Ordering is the default ordering, display column names with an optional "-" prefix.
	Ordering []string
	// PKColumn is the primary key expression used as the final tie-breaker.
	PKColumn string
	PerPage  int
	// FilterParams lists the query parameters the admin's list filters accept.
	FilterParams []string
	Actions      []Action
}

// Action describes one bulk action offered on a changelist.
type Action struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ActionDeleteSelected is offered by every admin.
const ActionDeleteSelected = "delete_selected"

// AvailableActions returns the admin's actions, delete_selected first.
func (o Options) AvailableActions() []Action {
	actions := make([]Action, 0, len(o.Actions)+1)
	actions = append(actions, Action{
		Name:        ActionDeleteSelected,
		Description: fmt.Sprintf("Delete selected %s", o.VerboseNamePlural),
	})
	return append(actions, o.Actions...)
}

// HasAction reports whether name is one of the admin's actions.
func (o Options) HasAction(name string) bool {
	for _, action := range o.AvailableActions() {
		if action.Name == name {
			return true
		}
	}
	return false
}

// NounFor returns the verbose name matching count.
func (o Options) NounFor(count int64) string {
	if count == 1 {
		return o.VerboseName
	}
	return o.VerboseNamePlural
}

// acceptsFilter matches param exactly; filters read their keys case-sensitively.
func (o Options) acceptsFilter(param string) bool {
	return slices.Contains(o.FilterParams, param)
}
