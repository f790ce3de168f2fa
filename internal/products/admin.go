package product

import (
	"github.com/angelmondragon/storefront-admin/internal/admin"
)

// LowInventoryThreshold is the stock level under which a product counts as low.
const LowInventoryThreshold = 10

const (
	InventoryStatusLow = "Low"
	InventoryStatusOK  = "OK"

	ActionClearInventory = "clear_inventory"

	inventoryParam = "inventory"
	inventoryLow   = "<10"
)

// InventoryStatus is the label shown in the inventory column.
func InventoryStatus(inventory int) string {
	if inventory < LowInventoryThreshold {
		return InventoryStatusLow
	}
	return InventoryStatusOK
}

var (
	collectionFilter = admin.RelatedFilter{
		Title:  "collection",
		Column: "store_product.collection_id",
		Params: []string{"collection__id__exact", "collection__id"},
	}
	lastUpdateFilter = admin.DateFilter{
		Title:  "last update",
		Column: "store_product.last_update",
		Field:  "last_update",
	}
	inventoryFilter = admin.ChoiceFilter{
		Title:     "Inventory",
		Parameter: inventoryParam,
		Choices:   []admin.ChoiceOption{{Value: inventoryLow, Label: "Low"}},
	}
)

// Admin configures the product changelist.
var Admin = admin.Options{
	Model:             "product",
	ObjectType:        "store.product",
	VerboseName:       "product",
	VerboseNamePlural: "products",
	ListDisplay:       []string{"title", "unit_price", "inventory_status", "collection_title"},
	SearchFields:      []string{"store_product.title"},
	Sortable: map[string]string{
		"title":            "store_product.title",
		"unit_price":       "store_product.unit_price",
		"inventory_status": "store_product.inventory",
	},
	Ordering: []string{"title"},
	PKColumn: "store_product.id",
	PerPage:  20,
	FilterParams: []string{
		"collection__id__exact", "collection__id",
		"last_update__gte", "last_update__lt",
		inventoryParam,
	},
	Actions: []admin.Action{{Name: ActionClearInventory, Description: "Clear inventory"}},
}
