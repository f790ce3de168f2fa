package controllers

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-admin/internal/orders"
	"github.com/angelmondragon/storefront-admin/pkg/enums"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
)

// OrderAdmin is the order model admin with its inline items.
type OrderAdmin = ModelAdmin[*orders.OrderList, *orders.OrderDTO, orders.OrderInput, orderRequest]

// NewOrderAdmin wires the order views.
func NewOrderAdmin(svc orders.Service, logg *logger.Logger) *OrderAdmin {
	return newModelAdmin[*orders.OrderList, *orders.OrderDTO, orders.OrderInput, orderRequest](orders.Admin, svc, logg)
}

type orderRequest struct {
	CustomerID    uint               `json:"customer_id" validate:"required"`
	PaymentStatus string             `json:"payment_status" validate:"omitempty,oneof=P C F"`
	Items         []orderItemRequest `json:"items" validate:"dive"`
}

type orderItemRequest struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Delete    bool            `json:"delete"`
}

func (r orderRequest) toInput() (orders.OrderInput, error) {
	input := orders.OrderInput{
		CustomerID:    r.CustomerID,
		PaymentStatus: enums.PaymentStatus(strings.TrimSpace(r.PaymentStatus)),
		Items:         make([]orders.ItemInput, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		input.Items = append(input.Items, orders.ItemInput{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Delete:    item.Delete,
		})
	}
	return input, nil
}
