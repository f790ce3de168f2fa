package models

// Collection groups products for merchandising.
type Collection struct {
	ID    uint   `gorm:"column:id;primaryKey"`
	Title string `gorm:"column:title;size:255;not null"`
}

func (Collection) TableName() string {
	return "store_collection"
}

// CollectionWithCount is a collection row annotated with its live product count.
type CollectionWithCount struct {
	Collection
	ProductsCount int64 `gorm:"column:products_count"`
}
