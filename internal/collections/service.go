package collections

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-admin/internal/admin"
	"github.com/angelmondragon/storefront-admin/pkg/db"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/types"
)

const maxTitleLen = 255

// Service exposes the collection admin.
type Service interface {
	List(ctx context.Context, params admin.ListParams) (*CollectionList, error)
	Get(ctx context.Context, id uint) (*CollectionDTO, error)
	Create(ctx context.Context, staffID uint, input CollectionInput) (*CollectionDTO, types.Message, error)
	Update(ctx context.Context, staffID, id uint, input CollectionInput) (*CollectionDTO, types.Message, error)
	Delete(ctx context.Context, staffID, id uint) (types.Message, error)
	RunAction(ctx context.Context, staffID uint, req admin.ActionRequest) (*admin.ActionResult, error)
	History(ctx context.Context, id uint) ([]admin.HistoryEntry, error)
	Autocomplete(ctx context.Context, term string, page int) (*admin.AutocompleteResult, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	log      *admin.Log
}

// NewService constructs a collection service instance.
func NewService(repo *Repository, dbClient *db.Client, log *admin.Log) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("collection repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if log == nil {
		return nil, fmt.Errorf("admin log required")
	}
	return &service{repo: repo, dbClient: dbClient, log: log}, nil
}

func (s *service) List(ctx context.Context, params admin.ListParams) (*CollectionList, error) {
	collections, page, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, wrapErr(err, "list collections")
	}
	rows := make([]CollectionRow, 0, len(collections))
	for _, c := range collections {
		rows = append(rows, NewCollectionRow(c))
	}
	return admin.NewChangeList(Admin, params, page, rows, nil), nil
}

func (s *service) Get(ctx context.Context, id uint) (*CollectionDTO, error) {
	collection, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load collection")
	}
	return NewCollectionDTO(collection), nil
}

func (s *service) Create(ctx context.Context, staffID uint, input CollectionInput) (*CollectionDTO, types.Message, error) {
	title, err := normalizeTitle(input.Title)
	if err != nil {
		return nil, types.Message{}, err
	}

	collection := &models.Collection{Title: title}
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, collection); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert collection")
		}
		entry := admin.Entry(staffID, Admin, collection.ID, collection.Title, enums.ActionFlagAddition, admin.AddedChange())
		return s.log.WithTx(tx).Record(ctx, Admin, entry)
	})
	if err != nil {
		return nil, types.Message{}, wrapErr(err, "create collection")
	}
	dto := &CollectionDTO{ID: collection.ID, Title: collection.Title}
	return dto, admin.AddedMessage(Admin, dto.Title), nil
}

func (s *service) Update(ctx context.Context, staffID, id uint, input CollectionInput) (*CollectionDTO, types.Message, error) {
	title, err := normalizeTitle(input.Title)
	if err != nil {
		return nil, types.Message{}, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "load collection")
		}

		var changed []string
		if current.Title != title {
			if err := repo.UpdateTitle(ctx, id, title); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update collection")
			}
			changed = append(changed, "Title")
		}
		entry := admin.Entry(staffID, Admin, id, title, enums.ActionFlagChange, admin.ChangedFields(changed...))
		return s.log.WithTx(tx).Record(ctx, Admin, entry)
	})
	if err != nil {
		return nil, types.Message{}, wrapErr(err, "update collection")
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
		collection, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "load collection")
		}
		title = collection.Title

		if err := ensureEmpty([]models.CollectionWithCount{*collection}); err != nil {
			return err
		}
		if _, err := repo.Delete(ctx, []uint{id}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete collection")
		}
		entry := admin.Entry(staffID, Admin, id, title, enums.ActionFlagDeletion, "")
		return s.log.WithTx(tx).Record(ctx, Admin, entry)
	})
	if err != nil {
		return types.Message{}, wrapErr(err, "delete collection")
	}
	return admin.DeletedMessage(Admin, title), nil
}

func (s *service) RunAction(ctx context.Context, staffID uint, req admin.ActionRequest) (*admin.ActionResult, error) {
	req.IDs = admin.UniqueIDs(req.IDs)
	if result, err := admin.CheckAction(Admin, req); err != nil || result != nil {
		return result, err
	}

	var deleted int64
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		collections, err := repo.FindByIDs(ctx, req.IDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load selected collections")
		}
		if len(collections) == 0 {
			return nil
		}
		if err := ensureEmpty(collections); err != nil {
			return err
		}

		found := make([]uint, 0, len(collections))
		entries := make([]models.LogEntry, 0, len(collections))
		for _, c := range collections {
			found = append(found, c.ID)
			entries = append(entries, admin.Entry(staffID, Admin, c.ID, c.Title, enums.ActionFlagDeletion, ""))
		}
		deleted, err = repo.Delete(ctx, found)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete collections")
		}
		return s.log.WithTx(tx).Record(ctx, Admin, entries...)
	})
	if err != nil {
		s.log.ActionFailed(Admin, req.Action)
		return nil, wrapErr(err, "delete selected collections")
	}

	s.log.ObserveAction(Admin, req.Action, deleted)
	return &admin.ActionResult{
		Action:   admin.ActionDeleteSelected,
		Affected: deleted,
		Messages: []types.Message{admin.BulkDeletedMessage(Admin, deleted)},
	}, nil
}

func (s *service) History(ctx context.Context, id uint) ([]admin.HistoryEntry, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFoundOr(err, "load collection")
	}
	entries, err := s.log.History(ctx, Admin, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load collection history")
	}
	return entries, nil
}

func (s *service) Autocomplete(ctx context.Context, term string, page int) (*admin.AutocompleteResult, error) {
	return s.repo.Lookup(ctx, term, page)
}

func normalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "title is required").
			WithDetails(map[string]any{"field": "title"})
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "title must be at most 255 characters").
			WithDetails(map[string]any{"field": "title"})
	}
	return title, nil
}

// ensureEmpty rejects deleting collections that products still reference.
func ensureEmpty(collections []models.CollectionWithCount) error {
	blocked := map[string]int64{}
	for _, c := range collections {
		if c.ProductsCount > 0 {
			blocked[c.Title] = c.ProductsCount
		}
	}
	if len(blocked) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "collection still has products").
		WithDetails(map[string]any{"products": blocked})
}

func notFoundOr(err error, message string) error {
	if db.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "collection not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

func wrapErr(err error, message string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
