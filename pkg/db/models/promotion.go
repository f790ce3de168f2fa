package models

// Promotion is a discount campaign products can take part in.
type Promotion struct {
	ID          uint    `gorm:"column:id;primaryKey"`
	Description string  `gorm:"column:description;size:255;not null"`
	Discount    float64 `gorm:"column:discount;not null"`
}

func (Promotion) TableName() string {
	return "store_promotion"
}
