package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-admin/pkg/enums"
)

// Order is a customer purchase. It owns its items.
type Order struct {
	ID            uint                `gorm:"column:id;primaryKey"`
	PlacedAt      time.Time           `gorm:"column:placed_at;autoCreateTime"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;size:1;not null;default:P"`
	CustomerID    uint                `gorm:"column:customer_id;not null;index"`
	Customer      *Customer           `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string {
	return "store_order"
}

// OrderItem is one product line of an order.
type OrderItem struct {
	ID        uint            `gorm:"column:id;primaryKey"`
	OrderID   uint            `gorm:"column:order_id;not null;index"`
	ProductID uint            `gorm:"column:product_id;not null;index"`
	Product   *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(6,2);not null"`
}

func (OrderItem) TableName() string {
	return "store_orderitem"
}
