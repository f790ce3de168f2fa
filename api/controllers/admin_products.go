package controllers

import (
	"strings"

	"github.com/shopspring/decimal"

	product "github.com/angelmondragon/storefront-admin/internal/products"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
)

// ProductAdmin is the product model admin.
type ProductAdmin = ModelAdmin[*product.ProductList, *product.ProductDTO, product.ProductInput, productRequest]

// NewProductAdmin wires the product views.
func NewProductAdmin(svc product.Service, logg *logger.Logger) *ProductAdmin {
	return newModelAdmin[*product.ProductList, *product.ProductDTO, product.ProductInput, productRequest](product.Admin, svc, logg)
}

// productRequest is the product change form. Promotions are not editable
// here, so a promotions field is rejected as unknown.
type productRequest struct {
	Title        string          `json:"title" validate:"required"`
	Slug         string          `json:"slug"`
	Description  *string         `json:"description"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Inventory    *int            `json:"inventory" validate:"required"`
	CollectionID uint            `json:"collection_id" validate:"required"`
}

func (r productRequest) toInput() (product.ProductInput, error) {
	input := product.ProductInput{
		Title:        r.Title,
		Slug:         strings.TrimSpace(r.Slug),
		Description:  r.Description,
		UnitPrice:    r.UnitPrice,
		CollectionID: r.CollectionID,
	}
	if r.Inventory != nil {
		input.Inventory = *r.Inventory
	}
	return input, nil
}
