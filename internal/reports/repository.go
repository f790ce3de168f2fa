package reports

import (
	"context"

	"gorm.io/gorm"

	product "github.com/angelmondragon/storefront-admin/internal/products"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
)

// Repository runs the report queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ProductsByTitle defines all products ordered by title. The query is not run.
func (r *Repository) ProductsByTitle(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Product{}).Order("title ASC")
}

// LowInventoryProducts defines the products below the low inventory threshold.
// The query is not run.
func (r *Repository) LowInventoryProducts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("inventory < ?", product.LowInventoryThreshold)
}

// OrderedProductIDs returns each product id referenced by an order item once.
func (r *Repository) OrderedProductIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Distinct("product_id").
		Order("product_id ASC").
		Pluck("product_id", &ids).
		Error
	return ids, err
}
