package controllers

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/angelmondragon/storefront-admin/api/responses"
	"github.com/angelmondragon/storefront-admin/api/validators"
	"github.com/angelmondragon/storefront-admin/internal/admin"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
)

const maxAutocompleteTerm = 255

// Autocompleter searches one model for the autocomplete widget.
type Autocompleter interface {
	Autocomplete(ctx context.Context, term string, page int) (*admin.AutocompleteResult, error)
}

// Autocomplete serves GET /admin/autocomplete/?model=&term=&page= over the
// registered sources, keyed by model name.
func Autocomplete(sources map[string]Autocompleter, logg *logger.Logger) http.HandlerFunc {
	known := make([]string, 0, len(sources))
	for name := range sources {
		known = append(known, name)
	}
	sort.Strings(known)

	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		model := strings.ToLower(strings.TrimSpace(query.Get("model")))
		source, ok := sources[model]
		if !ok || source == nil {
			err := pkgerrors.New(pkgerrors.CodeValidation, "unknown autocomplete model").
				WithDetails(map[string]any{"field": "model", "value": model, "allowed": known})
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		term := validators.SanitizeString(query.Get("term"), maxAutocompleteTerm)
		result, err := source.Autocomplete(r.Context(), term, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
