package customers

import "github.com/angelmondragon/storefront-admin/internal/admin"

// Admin configures the customer changelist. membership is editable from the
// list itself.
var Admin = admin.Options{
	Model:             "customer",
	ObjectType:        "store.customer",
	VerboseName:       "customer",
	VerboseNamePlural: "customers",
	ListDisplay:       []string{"first_name", "last_name", "membership"},
	SearchFields:      []string{"store_customer.first_name", "store_customer.last_name"},
	Sortable: map[string]string{
		"first_name": "store_customer.first_name",
		"last_name":  "store_customer.last_name",
		"membership": "store_customer.membership",
	},
	Ordering: []string{"first_name", "last_name"},
	PKColumn: "store_customer.id",
	PerPage:  20,
}
