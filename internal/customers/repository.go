package customers

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-admin/internal/admin"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/enums"
	"github.com/angelmondragon/storefront-admin/pkg/pagination"
)

var editableColumns = []string{"first_name", "last_name", "email", "phone", "birth_date", "membership"}

// Repository wraps customer persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns one changelist page.
func (r *Repository) List(ctx context.Context, params admin.ListParams) ([]models.Customer, pagination.Page, error) {
	q := Admin.Search(r.db.WithContext(ctx).Model(&models.Customer{}), params.Query).
		Session(&gorm.Session{})

	page, err := admin.ResolvePage(q, params.Page)
	if err != nil {
		return nil, pagination.Page{}, err
	}

	var rows []models.Customer
	if err := admin.Paginate(Admin.OrderBy(q, params.Ordering), page).Find(&rows).Error; err != nil {
		return nil, pagination.Page{}, err
	}
	return rows, page, nil
}

// FindByID loads one customer.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByIDs loads the customers matching ids, ordered by id.
func (r *Repository) FindByIDs(ctx context.Context, ids []uint) ([]models.Customer, error) {
	var rows []models.Customer
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&rows).Error
	return rows, err
}

// Create inserts a new customer row.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// Update writes the editable columns of an existing customer.
func (r *Repository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Model(customer).Select(editableColumns).Updates(customer).Error
}

// SetMembership updates a single customer's tier.
func (r *Repository) SetMembership(ctx context.Context, id uint, membership enums.Membership) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		UpdateColumn("membership", membership).
		Error
}

// CountOrders counts the orders placed by any of ids.
func (r *Repository) CountOrders(ctx context.Context, ids []uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("customer_id IN ?", ids).Count(&count).Error
	return count, err
}

// Delete removes the customers.
func (r *Repository) Delete(ctx context.Context, ids []uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Customer{})
	return res.RowsAffected, res.Error
}

// Lookup returns one autocomplete page of customers matching term.
func (r *Repository) Lookup(ctx context.Context, term string, page int) (*admin.AutocompleteResult, error) {
	return admin.Lookup(ctx, r.db.Model(&models.Customer{}), Admin, term, page, func(c models.Customer) admin.AutocompleteItem {
		return admin.AutocompleteItem{ID: c.ID, Text: c.FullName()}
	})
}
