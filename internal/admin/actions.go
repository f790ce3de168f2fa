package admin

import (
	"github.com/angelmondragon/storefront-admin/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/types"
)

// ActionRequest selects a bulk action and the rows it applies to.
type ActionRequest struct {
	Action string
	IDs    []uint
}

// ActionResult reports what a bulk action did.
type ActionResult struct {
	Action   string          `json:"action"`
	Affected int64           `json:"affected"`
	Messages []types.Message `json:"-"`
}

// CheckAction validates the request against the admin. A request without
// ids is not an error: it yields a warning and no rows change.
func CheckAction(opts Options, req ActionRequest) (*ActionResult, error) {
	if req.Action == "" || !opts.HasAction(req.Action) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "No action selected.").
			WithDetails(map[string]any{"field": "action", "value": req.Action})
	}
	if len(req.IDs) == 0 {
		return &ActionResult{
			Action: req.Action,
			Messages: []types.Message{
				NewMessage(enums.MessageLevelWarning, "Items must be selected in order to perform actions on them. No items have been changed."),
			},
		}, nil
	}
	return nil, nil
}

// UniqueIDs drops duplicate and zero ids, keeping the first occurrence order.
func UniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
