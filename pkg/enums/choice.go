package enums

import (
	"fmt"
	"slices"
)

// parseChoice matches value against the stored codes of a choice field.
// Labels are never accepted as input.
func parseChoice[T ~string](kind, value string, valid []T) (T, error) {
	if slices.Contains(valid, T(value)) {
		return T(value), nil
	}
	return "", fmt.Errorf("invalid %s %q", kind, value)
}
