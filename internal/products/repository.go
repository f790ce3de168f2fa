package product

import (
	"context"
	"net/url"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/storefront-admin/internal/admin"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/pagination"
)

// editableColumns are written by Update; last_update is refreshed on every save.
var editableColumns = []string{"title", "slug", "description", "unit_price", "inventory", "collection_id"}

// Repository wraps product persistence.
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

// List returns one changelist page with each product's collection joined in
// the same query.
func (r *Repository) List(ctx context.Context, params admin.ListParams) ([]models.Product, pagination.Page, error) {
	q, err := applyFilters(r.db.WithContext(ctx).Model(&models.Product{}), params.Filters)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	q = Admin.Search(q, params.Query).Session(&gorm.Session{})

	page, err := admin.ResolvePage(q, params.Page)
	if err != nil {
		return nil, pagination.Page{}, err
	}

	var rows []models.Product
	err = admin.Paginate(Admin.OrderBy(q.Joins("Collection"), params.Ordering), page).
		Find(&rows).
		Error
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return rows, page, nil
}

func applyFilters(db *gorm.DB, values url.Values) (*gorm.DB, error) {
	db, err := collectionFilter.Apply(db, values)
	if err != nil {
		return nil, err
	}
	db, err = lastUpdateFilter.Apply(db, values)
	if err != nil {
		return nil, err
	}
	if value, ok := inventoryFilter.Value(values); ok && value == inventoryLow {
		db = db.Where("store_product.inventory < ?", LowInventoryThreshold)
	}
	return db, nil
}

// CollectionChoices lists every collection for the collection filter.
func (r *Repository) CollectionChoices(ctx context.Context) ([]admin.RelatedChoice, error) {
	var rows []models.Collection
	if err := r.db.WithContext(ctx).Order("title ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	choices := make([]admin.RelatedChoice, 0, len(rows))
	for _, row := range rows {
		choices = append(choices, admin.RelatedChoice{ID: row.ID, Label: row.Title})
	}
	return choices, nil
}

// FindByID loads the product with its collection.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Collection").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the products matching ids, ordered by id.
func (r *Repository) FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var rows []models.Product
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// CollectionExists reports whether the collection row is present.
func (r *Repository) CollectionExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Collection{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new product row. Associations are never written.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

// Update writes the editable columns of an existing product.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Model(product).
		Select(editableColumns).
		Omit(clause.Associations).
		Updates(product).
		Error
}

// CountOrderItems counts the order items referencing any of ids.
func (r *Repository) CountOrderItems(ctx context.Context, ids []uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("product_id IN ?", ids).
		Count(&count).
		Error
	return count, err
}

// Delete removes the products and their promotion links.
func (r *Repository) Delete(ctx context.Context, ids []uint) (int64, error) {
	tx := r.db.WithContext(ctx)
	if err := tx.Exec("DELETE FROM store_product_promotions WHERE product_id IN ?", ids).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id IN ?", ids).Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

// ClearInventory zeroes the inventory of the selected products in one
// statement and returns the number of rows updated. last_update is left as is.
func (r *Repository) ClearInventory(ctx context.Context, ids []uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id IN ?", ids).
		UpdateColumn("inventory", 0)
	return res.RowsAffected, res.Error
}

// Lookup returns one autocomplete page of products matching term.
func (r *Repository) Lookup(ctx context.Context, term string, page int) (*admin.AutocompleteResult, error) {
	return admin.Lookup(ctx, r.db.Model(&models.Product{}), Admin, term, page, func(p models.Product) admin.AutocompleteItem {
		return admin.AutocompleteItem{ID: p.ID, Text: p.Title}
	})
}
