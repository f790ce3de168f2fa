package product

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-admin/internal/admin"
	"github.com/angelmondragon/storefront-admin/pkg/db"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/slug"
	"github.com/angelmondragon/storefront-admin/pkg/types"
)

const maxTitleLen = 255

var (
	minUnitPrice = decimal.NewFromInt(1)
	maxUnitPrice = decimal.RequireFromString("9999.99")
)

// Service exposes the product admin.
type Service interface {
	List(ctx context.Context, params admin.ListParams) (*ProductList, error)
	Get(ctx context.Context, id uint) (*ProductDTO, error)
	Create(ctx context.Context, staffID uint, input ProductInput) (*ProductDTO, types.Message, error)
	Update(ctx context.Context, staffID, id uint, input ProductInput) (*ProductDTO, types.Message, error)
	Delete(ctx context.Context, staffID, id uint) (types.Message, error)
	RunAction(ctx context.Context, staffID uint, req admin.ActionRequest) (*admin.ActionResult, error)
	History(ctx context.Context, id uint) ([]admin.HistoryEntry, error)
	Autocomplete(ctx context.Context, term string, page int) (*admin.AutocompleteResult, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	log      *admin.Log
	now      func() time.Time
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client, log *admin.Log) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if log == nil {
		return nil, fmt.Errorf("admin log required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		log:      log,
		now:      time.Now,
	}, nil
}

func (s *service) List(ctx context.Context, params admin.ListParams) (*ProductList, error) {
	products, page, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, wrapErr(err, "list products")
	}
	choices, err := s.repo.CollectionChoices(ctx)
	if err != nil {
		return nil, wrapErr(err, "list collection choices")
	}

	active := params.ActiveValues()
	filters := []admin.Filter{
		collectionFilter.Describe(active, choices),
		lastUpdateFilter.Describe(active, s.now()),
		inventoryFilter.Describe(active),
	}

	rows := make([]ProductRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, NewProductRow(p))
	}
	return admin.NewChangeList(Admin, params, page, rows, filters), nil
}

func (s *service) Get(ctx context.Context, id uint) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load product")
	}
	return NewProductDTO(product), nil
}

func (s *service) Create(ctx context.Context, staffID uint, input ProductInput) (*ProductDTO, types.Message, error) {
	input, err := normalizeInput(input)
	if err != nil {
		return nil, types.Message{}, err
	}

	var createdID uint
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := ensureCollection(ctx, repo, input.CollectionID); err != nil {
			return err
		}

		product := &models.Product{
			Title:        input.Title,
			Slug:         input.Slug,
			Description:  input.Description,
			UnitPrice:    input.UnitPrice,
			Inventory:    input.Inventory,
			CollectionID: input.CollectionID,
		}
		if err := repo.Create(ctx, product); err != nil {
			return writeErr(err, "db: insert product")
		}
		createdID = product.ID

		entry := admin.Entry(staffID, Admin, product.ID, product.Title, enums.ActionFlagAddition, admin.AddedChange())
		return s.log.WithTx(tx).Record(ctx, Admin, entry)
	})
	if err != nil {
		return nil, types.Message{}, wrapErr(err, "create product")
	}

	dto, err := s.Get(ctx, createdID)
	if err != nil {
		return nil, types.Message{}, err
	}
	return dto, admin.AddedMessage(Admin, dto.Title), nil
}

func (s *service) Update(ctx context.Context, staffID, id uint, input ProductInput) (*ProductDTO, types.Message, error) {
	input, err := normalizeInput(input)
	if err != nil {
		return nil, types.Message{}, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		product, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "load product")
		}
		if err := ensureCollection(ctx, repo, input.CollectionID); err != nil {
			return err
		}

		changed := applyInput(product, input)
		if err := repo.Update(ctx, product); err != nil {
			return writeErr(err, "db: update product")
		}

		entry := admin.Entry(staffID, Admin, product.ID, product.Title, enums.ActionFlagChange, admin.ChangedFields(changed...))
		return s.log.WithTx(tx).Record(ctx, Admin, entry)
	})
	if err != nil {
		return nil, types.Message{}, wrapErr(err, "update product")
	}

	dto, err := s.Get(ctx, id)
	if err != nil {
		return nil, types.Message{}, err
	}
	return dto, admin.ChangedMessage(Admin, dto.Title), nil
}

func (s *service) Delete(ctx context.Context, staffID, id uint) (types.Message, error) {
	var title string
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		product, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "load product")
		}
		title = product.Title

		if err := ensureUnreferenced(ctx, repo, []models.Product{*product}); err != nil {
			return err
		}
		if _, err := repo.Delete(ctx, []uint{id}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
		}

		entry := admin.Entry(staffID, Admin, product.ID, product.Title, enums.ActionFlagDeletion, "")
		return s.log.WithTx(tx).Record(ctx, Admin, entry)
	})
	if err != nil {
		return types.Message{}, wrapErr(err, "delete product")
	}
	return admin.DeletedMessage(Admin, title), nil
}

func (s *service) RunAction(ctx context.Context, staffID uint, req admin.ActionRequest) (*admin.ActionResult, error) {
	req.IDs = admin.UniqueIDs(req.IDs)
	if result, err := admin.CheckAction(Admin, req); err != nil || result != nil {
		return result, err
	}

	var (
		result *admin.ActionResult
		err    error
	)
	switch req.Action {
	case ActionClearInventory:
		result, err = s.clearInventory(ctx, staffID, req.IDs)
	case admin.ActionDeleteSelected:
		result, err = s.deleteSelected(ctx, staffID, req.IDs)
	}
	if err != nil {
		s.log.ActionFailed(Admin, req.Action)
		return nil, err
	}
	s.log.ObserveAction(Admin, req.Action, result.Affected)
	return result, nil
}

func (s *service) clearInventory(ctx context.Context, staffID uint, ids []uint) (*admin.ActionResult, error) {
	var updated int64
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		products, err := repo.FindByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load selected products")
		}
		updated, err = repo.ClearInventory(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear inventory")
		}

		entries := make([]models.LogEntry, 0, len(products))
		for _, p := range products {
			entries = append(entries, admin.Entry(staffID, Admin, p.ID, p.Title, enums.ActionFlagChange, admin.ChangedFields("Inventory")))
		}
		return s.log.WithTx(tx).Record(ctx, Admin, entries...)
	})
	if err != nil {
		return nil, wrapErr(err, "clear inventory")
	}

	return &admin.ActionResult{
		Action:   ActionClearInventory,
		Affected: updated,
		Messages: []types.Message{
			admin.NewMessage(enums.MessageLevelError, "%d product were successfully updated!!!", updated),
		},
	}, nil
}

func (s *service) deleteSelected(ctx context.Context, staffID uint, ids []uint) (*admin.ActionResult, error) {
	var deleted int64
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		products, err := repo.FindByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load selected products")
		}
		if len(products) == 0 {
			return nil
		}
		if err := ensureUnreferenced(ctx, repo, products); err != nil {
			return err
		}

		found := make([]uint, 0, len(products))
		entries := make([]models.LogEntry, 0, len(products))
		for _, p := range products {
			found = append(found, p.ID)
			entries = append(entries, admin.Entry(staffID, Admin, p.ID, p.Title, enums.ActionFlagDeletion, ""))
		}
		deleted, err = repo.Delete(ctx, found)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete products")
		}
		return s.log.WithTx(tx).Record(ctx, Admin, entries...)
	})
	if err != nil {
		return nil, wrapErr(err, "delete selected products")
	}

	return &admin.ActionResult{
		Action:   admin.ActionDeleteSelected,
		Affected: deleted,
		Messages: []types.Message{admin.BulkDeletedMessage(Admin, deleted)},
	}, nil
}

func (s *service) History(ctx context.Context, id uint) ([]admin.HistoryEntry, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFoundOr(err, "load product")
	}
	entries, err := s.log.History(ctx, Admin, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product history")
	}
	return entries, nil
}

func (s *service) Autocomplete(ctx context.Context, term string, page int) (*admin.AutocompleteResult, error) {
	return s.repo.Lookup(ctx, term, page)
}

func normalizeInput(input ProductInput) (ProductInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return input, fieldErr("title", "title is required")
	}
	if utf8.RuneCountInString(input.Title) > maxTitleLen {
		return input, fieldErr("title", "title must be at most 255 characters")
	}

	input.Slug = strings.TrimSpace(input.Slug)
	if input.Slug == "" {
		input.Slug = slug.FromTitle(input.Title)
	}
	if input.Slug == "" {
		return input, fieldErr("slug", "slug is required")
	}
	if !slug.Valid(input.Slug) {
		return input, fieldErr("slug", "slug may contain only letters, numbers, underscores or hyphens")
	}

	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed == "" {
			input.Description = nil
		} else {
			input.Description = &trimmed
		}
	}

	if input.UnitPrice.LessThan(minUnitPrice) {
		return input, fieldErr("unit_price", "unit_price must be at least 1")
	}
	if input.UnitPrice.GreaterThan(maxUnitPrice) {
		return input, fieldErr("unit_price", "unit_price must be at most 9999.99")
	}
	if !input.UnitPrice.Equal(input.UnitPrice.Round(2)) {
		return input, fieldErr("unit_price", "unit_price must have at most 2 decimal places")
	}

	if input.Inventory < 0 {
		return input, fieldErr("inventory", "inventory cannot be negative")
	}
	if input.CollectionID == 0 {
		return input, fieldErr("collection_id", "collection is required")
	}
	return input, nil
}

// applyInput copies input onto product and returns the labels of the fields
// that changed.
func applyInput(product *models.Product, input ProductInput) []string {
	var changed []string
	if product.Title != input.Title {
		product.Title = input.Title
		changed = append(changed, "Title")
	}
	if product.Slug != input.Slug {
		product.Slug = input.Slug
		changed = append(changed, "Slug")
	}
	if !sameString(product.Description, input.Description) {
		product.Description = input.Description
		changed = append(changed, "Description")
	}
	if !product.UnitPrice.Equal(input.UnitPrice) {
		product.UnitPrice = input.UnitPrice
		changed = append(changed, "Unit price")
	}
	if product.Inventory != input.Inventory {
		product.Inventory = input.Inventory
		changed = append(changed, "Inventory")
	}
	if product.CollectionID != input.CollectionID {
		product.CollectionID = input.CollectionID
		changed = append(changed, "Collection")
	}
	return changed
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func ensureCollection(ctx context.Context, repo *Repository, id uint) error {
	ok, err := repo.CollectionExists(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check collection")
	}
	if !ok {
		return fieldErr("collection_id", "collection does not exist")
	}
	return nil
}

func ensureUnreferenced(ctx context.Context, repo *Repository, products []models.Product) error {
	ids := make([]uint, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	count, err := repo.CountOrderItems(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count order items")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "product is referenced by order items").
			WithDetails(map[string]any{"product_ids": ids, "order_items": count})
	}
	return nil
}

func fieldErr(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}

func writeErr(err error, message string) error {
	switch {
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product with this slug already exists").
			WithDetails(map[string]any{"field": "slug"})
	case db.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "collection does not exist").
			WithDetails(map[string]any{"field": "collection_id"})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

func notFoundOr(err error, message string) error {
	if db.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

func wrapErr(err error, message string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
