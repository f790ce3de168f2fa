package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-admin/internal/admin"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
)

// ProductRow is one changelist row.
type ProductRow struct {
	ID              uint            `json:"id"`
	Title           string          `json:"title"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	InventoryStatus string          `json:"inventory_status"`
	CollectionTitle string          `json:"collection_title"`
}

// ProductDTO is the change form payload of one product.
type ProductDTO struct {
	ID              uint            `json:"id"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Description     *string         `json:"description"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Inventory       int             `json:"inventory"`
	InventoryStatus string          `json:"inventory_status"`
	LastUpdate      time.Time       `json:"last_update"`
	CollectionID    uint            `json:"collection_id"`
	CollectionTitle string          `json:"collection_title"`
}

// ProductInput holds the editable product fields. A blank Slug is derived
// from the Title.
type ProductInput struct {
	Title        string
	Slug         string
	Description  *string
	UnitPrice    decimal.Decimal
	Inventory    int
	CollectionID uint
}

// ProductList is the product changelist page.
type ProductList = admin.ChangeList[ProductRow]

func collectionTitle(p models.Product) string {
	if p.Collection == nil {
		return ""
	}
	return p.Collection.Title
}

// NewProductRow maps a product with its collection loaded.
func NewProductRow(p models.Product) ProductRow {
	return ProductRow{
		ID:              p.ID,
		Title:           p.Title,
		UnitPrice:       p.UnitPrice,
		InventoryStatus: InventoryStatus(p.Inventory),
		CollectionTitle: collectionTitle(p),
	}
}

// NewProductDTO maps a product with its collection loaded.
func NewProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Description:     p.Description,
		UnitPrice:       p.UnitPrice,
		Inventory:       p.Inventory,
		InventoryStatus: InventoryStatus(p.Inventory),
		LastUpdate:      p.LastUpdate,
		CollectionID:    p.CollectionID,
		CollectionTitle: collectionTitle(*p),
	}
}
