package staff

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-admin/internal/repo"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
)

// Repository exposes staff persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a staff repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByEmail retrieves the staff member matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Staff, error) {
	return repo.First[models.Staff](ctx, r.Base, "email = ?", email)
}

// FindByID loads a staff member by id.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Staff, error) {
	return repo.First[models.Staff](ctx, r.Base, "id = ?", id)
}

// Save inserts or updates a staff row.
func (r *Repository) Save(ctx context.Context, member *models.Staff) error {
	return r.DB(ctx).Save(member).Error
}

// UpdateLastLogin refreshes the staff member's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.DB(ctx).
		Model(&models.Staff{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}
