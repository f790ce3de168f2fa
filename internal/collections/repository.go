package collections

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-admin/internal/admin"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/pagination"
)

const countedColumns = "store_collection.id, store_collection.title, COUNT(store_product.id) AS products_count"

// Repository wraps collection persistence.
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

// withProductCount annotates each collection with the number of products
// referencing it. Collections without products count 0.
func withProductCount(db *gorm.DB) *gorm.DB {
	return db.
		Select(countedColumns).
		Joins("LEFT JOIN store_product ON store_product.collection_id = store_collection.id").
		Group("store_collection.id, store_collection.title")
}

// List returns one changelist page with the live product counts.
func (r *Repository) List(ctx context.Context, params admin.ListParams) ([]models.CollectionWithCount, pagination.Page, error) {
	q := Admin.Search(r.db.WithContext(ctx).Model(&models.Collection{}), params.Query).
		Session(&gorm.Session{})

	page, err := admin.ResolvePage(q, params.Page)
	if err != nil {
		return nil, pagination.Page{}, err
	}

	var rows []models.CollectionWithCount
	err = admin.Paginate(Admin.OrderBy(withProductCount(q), params.Ordering), page).
		Find(&rows).
		Error
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return rows, page, nil
}

// FindByID loads one collection with its product count.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.CollectionWithCount, error) {
	var row models.CollectionWithCount
	err := withProductCount(r.db.WithContext(ctx).Model(&models.Collection{})).
		Where("store_collection.id = ?", id).
		Take(&row).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIDs loads the collections matching ids with their product counts.
func (r *Repository) FindByIDs(ctx context.Context, ids []uint) ([]models.CollectionWithCount, error) {
	var rows []models.CollectionWithCount
	if len(ids) == 0 {
		return rows, nil
	}
	err := withProductCount(r.db.WithContext(ctx).Model(&models.Collection{})).
		Where("store_collection.id IN ?", ids).
		Order("store_collection.id ASC").
		Find(&rows).
		Error
	return rows, err
}

// Create inserts a new collection row.
func (r *Repository) Create(ctx context.Context, collection *models.Collection) error {
	return r.db.WithContext(ctx).Create(collection).Error
}

// UpdateTitle renames a collection.
func (r *Repository) UpdateTitle(ctx context.Context, id uint, title string) error {
	return r.db.WithContext(ctx).
		Model(&models.Collection{}).
		Where("id = ?", id).
		Update("title", title).
		Error
}

// Delete removes the collections.
func (r *Repository) Delete(ctx context.Context, ids []uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Collection{})
	return res.RowsAffected, res.Error
}

// Lookup returns one autocomplete page of collections matching term.
func (r *Repository) Lookup(ctx context.Context, term string, page int) (*admin.AutocompleteResult, error) {
	return admin.Lookup(ctx, r.db.Model(&models.Collection{}), Admin, term, page, func(c models.Collection) admin.AutocompleteItem {
		return admin.AutocompleteItem{ID: c.ID, Text: c.Title}
	})
}
