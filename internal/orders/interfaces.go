package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-admin/internal/admin"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/pagination"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, params admin.ListParams) ([]models.Order, pagination.Page, error)
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Order, error)
	CustomerExists(ctx context.Context, id uint) (bool, error)
	ExistingProductIDs(ctx context.Context, ids []uint) ([]uint, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	UpdateOrder(ctx context.Context, id uint, updates map[string]any) error
	CreateItems(ctx context.Context, items []models.OrderItem) error
	UpdateItem(ctx context.Context, id uint, updates map[string]any) error
	DeleteItems(ctx context.Context, orderID uint, itemIDs []uint) error
	DeleteOrders(ctx context.Context, ids []uint) (int64, error)
}
