package orders

import (
	"fmt"

	"github.com/angelmondragon/storefront-admin/internal/admin"
)

// Admin configures the order changelist. Items are edited inline on the
// order form.
var Admin = admin.Options{
	Model:             "order",
	ObjectType:        "store.order",
	VerboseName:       "order",
	VerboseNamePlural: "orders",
	ListDisplay:       []string{"id", "placed_at", "customer"},
	Sortable: map[string]string{
		"id":        "store_order.id",
		"placed_at": "store_order.placed_at",
		"customer":  "store_order.customer_id",
	},
	Ordering: []string{"-id"},
	PKColumn: "store_order.id",
	PerPage:  100,
}

const itemVerboseName = "order item"

func orderRepr(id uint) string {
	return fmt.Sprintf("Order object (%d)", id)
}

func itemRepr(id uint) string {
	return fmt.Sprintf("OrderItem object (%d)", id)
}
