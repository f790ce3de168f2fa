package models

import (
	"strings"
	"time"

	"github.com/angelmondragon/storefront-admin/pkg/enums"
)

// Customer is a registered shopper.
type Customer struct {
	ID         uint             `gorm:"column:id;primaryKey"`
	FirstName  string           `gorm:"column:first_name;size:255;not null"`
	LastName   string           `gorm:"column:last_name;size:255;not null"`
	Email      string           `gorm:"column:email;size:254;not null;uniqueIndex"`
	Phone      string           `gorm:"column:phone;size:255;not null;default:''"`
	BirthDate  *time.Time       `gorm:"column:birth_date;type:date"`
	Membership enums.Membership `gorm:"column:membership;size:1;not null;default:B"`
}

func (Customer) TableName() string {
	return "store_customer"
}

// FullName is the customer's display representation.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
