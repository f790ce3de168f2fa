package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-admin/internal/admin"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/enums"
)

// OrderRow is one changelist row.
type OrderRow struct {
	ID         uint      `json:"id"`
	PlacedAt   time.Time `json:"placed_at"`
	CustomerID uint      `json:"customer_id"`
	Customer   string    `json:"customer"`
}

// OrderDTO is the change form payload of one order with its items.
type OrderDTO struct {
	ID            uint                `json:"id"`
	PlacedAt      time.Time           `json:"placed_at"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	CustomerID    uint                `json:"customer_id"`
	Customer      string              `json:"customer"`
	Items         []OrderItemDTO      `json:"items"`
}

// OrderItemDTO is one inline item row.
type OrderItemDTO struct {
	ID           uint            `json:"id"`
	ProductID    uint            `json:"product_id"`
	ProductTitle string          `json:"product_title"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// OrderInput holds the editable order fields and the inline item rows.
// A blank PaymentStatus defaults to Pending.
type OrderInput struct {
	CustomerID    uint
	PaymentStatus enums.PaymentStatus
	Items         []ItemInput
}

// ItemInput is one inline row. A zero ID creates a new item; an existing ID
// updates that item, or removes it when Delete is set.
type ItemInput struct {
	ID        uint
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
	Delete    bool
}

// OrderList is the order changelist page.
type OrderList = admin.ChangeList[OrderRow]

func customerName(c *models.Customer) string {
	if c == nil {
		return ""
	}
	return c.FullName()
}

// NewOrderRow maps an order with its customer loaded.
func NewOrderRow(o models.Order) OrderRow {
	return OrderRow{
		ID:         o.ID,
		PlacedAt:   o.PlacedAt,
		CustomerID: o.CustomerID,
		Customer:   customerName(o.Customer),
	}
}

// NewOrderDTO maps an order with its customer and items loaded. Only
// persisted items are listed.
func NewOrderDTO(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		dto := OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		if item.Product != nil {
			dto.ProductTitle = item.Product.Title
		}
		items = append(items, dto)
	}
	return &OrderDTO{
		ID:            o.ID,
		PlacedAt:      o.PlacedAt,
		PaymentStatus: o.PaymentStatus,
		CustomerID:    o.CustomerID,
		Customer:      customerName(o.Customer),
		Items:         items,
	}
}
