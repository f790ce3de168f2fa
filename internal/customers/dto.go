package customers

import (
	"time"

	"github.com/angelmondragon/storefront-admin/internal/admin"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/enums"
	"github.com/angelmondragon/storefront-admin/pkg/types"
)

const birthDateLayout = "2006-01-02"

// CustomerRow is one changelist row.
type CustomerRow struct {
	ID                uint             `json:"id"`
	FirstName         string           `json:"first_name"`
	LastName          string           `json:"last_name"`
	Membership        enums.Membership `json:"membership"`
	MembershipDisplay string           `json:"membership_display"`
}

// CustomerDTO is the change form payload of one customer.
type CustomerDTO struct {
	ID         uint             `json:"id"`
	FirstName  string           `json:"first_name"`
	LastName   string           `json:"last_name"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone"`
	BirthDate  *string          `json:"birth_date"`
	Membership enums.Membership `json:"membership"`
}

// CustomerInput holds the editable customer fields. A blank Membership
// defaults to Bronze.
type CustomerInput struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	BirthDate  *time.Time
	Membership enums.Membership
}

// MembershipChange is one row of a list_editable save.
type MembershipChange struct {
	ID         uint
	Membership string
}

// EditResult reports a list_editable save.
type EditResult struct {
	Changed  int64           `json:"changed"`
	Messages []types.Message `json:"-"`
}

// CustomerList is the customer changelist page.
type CustomerList = admin.ChangeList[CustomerRow]

// NewCustomerRow maps a customer to its changelist row.
func NewCustomerRow(c models.Customer) CustomerRow {
	return CustomerRow{
		ID:                c.ID,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		Membership:        c.Membership,
		MembershipDisplay: c.Membership.Label(),
	}
}

// NewCustomerDTO maps a customer to its change form payload.
func NewCustomerDTO(c *models.Customer) *CustomerDTO {
	if c == nil {
		return nil
	}
	dto := &CustomerDTO{
		ID:         c.ID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Phone:      c.Phone,
		Membership: c.Membership,
	}
	if c.BirthDate != nil {
		formatted := c.BirthDate.Format(birthDateLayout)
		dto.BirthDate = &formatted
	}
	return dto
}
