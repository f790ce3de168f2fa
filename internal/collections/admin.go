package collections

import (
	"fmt"
	"html"
	"net/url"
	"strconv"

	"github.com/angelmondragon/storefront-admin/internal/admin"
)

// ProductChangelistPath is where the products_count link points.
const ProductChangelistPath = "/admin/store/product/"

// Admin configures the collection changelist.
var Admin = admin.Options{
	Model:             "collection",
	ObjectType:        "store.collection",
	VerboseName:       "collection",
	VerboseNamePlural: "collections",
	ListDisplay:       []string{"title", "products_count"},
	SearchFields:      []string{"store_collection.title"},
	Sortable: map[string]string{
		"title":          "store_collection.title",
		"products_count": "products_count",
	},
	Ordering: []string{"title"},
	PKColumn: "store_collection.id",
	PerPage:  100,
}

// ProductsURL is the product changelist filtered to one collection.
func ProductsURL(collectionID uint) string {
	q := url.Values{}
	q.Set("collection__id", strconv.FormatUint(uint64(collectionID), 10))
	return ProductChangelistPath + "?" + q.Encode()
}

// ProductsLink renders the products count as an anchor to ProductsURL.
func ProductsLink(collectionID uint, count int64) string {
	return fmt.Sprintf(`<a href="%s" >%d</a>`, html.EscapeString(ProductsURL(collectionID)), count)
}
