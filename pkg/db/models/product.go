package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry.
type Product struct {
	ID           uint            `gorm:"column:id;primaryKey"`
	Title        string          `gorm:"column:title;size:255;not null"`
	Slug         string          `gorm:"column:slug;size:255;not null;uniqueIndex"`
	Description  *string         `gorm:"column:description"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:decimal(6,2);not null"`
	Inventory    int             `gorm:"column:inventory;not null"`
	LastUpdate   time.Time       `gorm:"column:last_update;autoUpdateTime"`
	CollectionID uint            `gorm:"column:collection_id;not null;index"`
	Collection   *Collection     `gorm:"foreignKey:CollectionID;constraint:OnDelete:RESTRICT"`
	Promotions   []Promotion     `gorm:"many2many:store_product_promotions;joinForeignKey:ProductID;joinReferences:PromotionID"`
}

func (Product) TableName() string {
	return "store_product"
}
