package collections

import (
	"github.com/angelmondragon/storefront-admin/internal/admin"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
)

// CollectionRow is one changelist row.
type CollectionRow struct {
	ID                uint   `json:"id"`
	Title             string `json:"title"`
	ProductsCount     int64  `json:"products_count"`
	ProductsCountURL  string `json:"products_count_url"`
	ProductsCountHTML string `json:"products_count_html"`
}

// CollectionDTO is the change form payload of one collection.
type CollectionDTO struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	ProductsCount int64  `json:"products_count"`
}

// CollectionInput holds the editable collection fields.
type CollectionInput struct {
	Title string
}

// CollectionList is the collection changelist page.
type CollectionList = admin.ChangeList[CollectionRow]

// NewCollectionRow maps an annotated collection to its changelist row.
func NewCollectionRow(c models.CollectionWithCount) CollectionRow {
	return CollectionRow{
		ID:                c.ID,
		Title:             c.Title,
		ProductsCount:     c.ProductsCount,
		ProductsCountURL:  ProductsURL(c.ID),
		ProductsCountHTML: ProductsLink(c.ID, c.ProductsCount),
	}
}

// NewCollectionDTO maps an annotated collection to its change form payload.
func NewCollectionDTO(c *models.CollectionWithCount) *CollectionDTO {
	if c == nil {
		return nil
	}
	return &CollectionDTO{ID: c.ID, Title: c.Title, ProductsCount: c.ProductsCount}
}
