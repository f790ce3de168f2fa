package admin

import (
	"fmt"

	"github.com/angelmondragon/storefront-admin/pkg/enums"
	"github.com/angelmondragon/storefront-admin/pkg/types"
)

// NewMessage builds an operator message.
func NewMessage(level enums.MessageLevel, format string, args ...any) types.Message {
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	return types.Message{Level: level.String(), Message: text}
}

// AddedMessage confirms an add.
func AddedMessage(opts Options, repr string) types.Message {
	return NewMessage(enums.MessageLevelSuccess, "The %s “%s” was added successfully.", opts.VerboseName, repr)
}

// ChangedMessage confirms a change.
func ChangedMessage(opts Options, repr string) types.Message {
	return NewMessage(enums.MessageLevelSuccess, "The %s “%s” was changed successfully.", opts.VerboseName, repr)
}

// DeletedMessage confirms a single delete.
func DeletedMessage(opts Options, repr string) types.Message {
	return NewMessage(enums.MessageLevelSuccess, "The %s “%s” was deleted successfully.", opts.VerboseName, repr)
}

// BulkDeletedMessage confirms delete_selected.
func BulkDeletedMessage(opts Options, count int64) types.Message {
	return NewMessage(enums.MessageLevelSuccess, "Successfully deleted %d %s.", count, opts.NounFor(count))
}

// ChangedCountMessage confirms a list_editable save.
func ChangedCountMessage(opts Options, count int64) types.Message {
	if count == 1 {
		return NewMessage(enums.MessageLevelSuccess, "1 %s was changed successfully.", opts.VerboseName)
	}
	return NewMessage(enums.MessageLevelSuccess, "%d %s were changed successfully.", count, opts.VerboseNamePlural)
}
