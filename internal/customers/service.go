package customers

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-admin/internal/admin"
	"github.com/angelmondragon/storefront-admin/pkg/db"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/types"
)

const (
	maxNameLen  = 255
	maxEmailLen = 254
)

// Service exposes the customer admin.
type Service interface {
	List(ctx context.Context, params admin.ListParams) (*CustomerList, error)
	Get(ctx context.Context, id uint) (*CustomerDTO, error)
	Create(ctx context.Context, staffID uint, input CustomerInput) (*CustomerDTO, types.Message, error)
	Update(ctx context.Context, staffID, id uint, input CustomerInput) (*CustomerDTO, types.Message, error)
	Delete(ctx context.Context, staffID, id uint) (types.Message, error)
	UpdateMemberships(ctx context.Context, staffID uint, changes []MembershipChange) (*EditResult, error)
	RunAction(ctx context.Context, staffID uint, req admin.ActionRequest) (*admin.ActionResult, error)
	History(ctx context.Context, id uint) ([]admin.HistoryEntry, error)
	Autocomplete(ctx context.Context, term string, page int) (*admin.AutocompleteResult, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	log      *admin.Log
	validate *validator.Validate
}

// NewService constructs a customer service instance.
func NewService(repo *Repository, dbClient *db.Client, log *admin.Log) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
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
		validate: validator.New(),
	}, nil
}

func (s *service) List(ctx context.Context, params admin.ListParams) (*CustomerList, error) {
	customers, page, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, wrapErr(err, "list customers")
	}
	rows := make([]CustomerRow, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, NewCustomerRow(c))
	}
	return admin.NewChangeList(Admin, params, page, rows, nil), nil
}

func (s *service) Get(ctx context.Context, id uint) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load customer")
	}
	return NewCustomerDTO(customer), nil
}

func (s *service) Create(ctx context.Context, staffID uint, input CustomerInput) (*CustomerDTO, types.Message, error) {
	input, err := s.normalizeInput(input)
	if err != nil {
		return nil, types.Message{}, err
	}

	customer := &models.Customer{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Phone:      input.Phone,
		BirthDate:  input.BirthDate,
		Membership: input.Membership,
	}
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, customer); err != nil {
			return writeErr(err, "db: insert customer")
		}
		entry := admin.Entry(staffID, Admin, customer.ID, customer.FullName(), enums.ActionFlagAddition, admin.AddedChange())
		return s.log.WithTx(tx).Record(ctx, Admin, entry)
	})
	if err != nil {
		return nil, types.Message{}, wrapErr(err, "create customer")
	}
	return NewCustomerDTO(customer), admin.AddedMessage(Admin, customer.FullName()), nil
}

func (s *service) Update(ctx context.Context, staffID, id uint, input CustomerInput) (*CustomerDTO, types.Message, error) {
	input, err := s.normalizeInput(input)
	if err != nil {
		return nil, types.Message{}, err
	}

	var updated *models.Customer
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		customer, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "load customer")
		}

		changed := applyInput(customer, input)
		if err := repo.Update(ctx, customer); err != nil {
			return writeErr(err, "db: update customer")
		}
		updated = customer

		entry := admin.Entry(staffID, Admin, customer.ID, customer.FullName(), enums.ActionFlagChange, admin.ChangedFields(changed...))
		return s.log.WithTx(tx).Record(ctx, Admin, entry)
	})
	if err != nil {
		return nil, types.Message{}, wrapErr(err, "update customer")
	}
	return NewCustomerDTO(updated), admin.ChangedMessage(Admin, updated.FullName()), nil
}

func (s *service) Delete(ctx context.Context, staffID, id uint) (types.Message, error) {
	var name string
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		customer, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "load customer")
		}
		name = customer.FullName()

		if err := ensureNoOrders(ctx, repo, []uint{id}); err != nil {
			return err
		}
		if _, err := repo.Delete(ctx, []uint{id}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete customer")
		}
		entry := admin.Entry(staffID, Admin, id, name, enums.ActionFlagDeletion, "")
		return s.log.WithTx(tx).Record(ctx, Admin, entry)
	})
	if err != nil {
		return types.Message{}, wrapErr(err, "delete customer")
	}
	return admin.DeletedMessage(Admin, name), nil
}

// UpdateMemberships saves membership edits made on the changelist. Every
// change is validated before any row is written and the batch commits as one.
func (s *service) UpdateMemberships(ctx context.Context, staffID uint, changes []MembershipChange) (*EditResult, error) {
	if len(changes) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no changes submitted").
			WithDetails(map[string]any{"field": "changes"})
	}

	wanted := make(map[uint]enums.Membership, len(changes))
	ids := make([]uint, 0, len(changes))
	for i, change := range changes {
		if change.ID == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required").
				WithDetails(map[string]any{"field": fmt.Sprintf("changes[%d].id", i)})
		}
		if _, dup := wanted[change.ID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer listed more than once").
				WithDetails(map[string]any{"field": fmt.Sprintf("changes[%d].id", i), "id": change.ID})
		}
		tier, err := enums.ParseMembership(strings.TrimSpace(change.Membership))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid membership").
				WithDetails(map[string]any{"field": fmt.Sprintf("changes[%d].membership", i), "value": change.Membership})
		}
		wanted[change.ID] = tier
		ids = append(ids, change.ID)
	}

	var changed int64
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		customers, err := repo.FindByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customers")
		}
		if len(customers) != len(ids) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found").
				WithDetails(map[string]any{"missing_ids": missingIDs(ids, customers)})
		}

		entries := make([]models.LogEntry, 0, len(customers))
		for _, c := range customers {
			tier := wanted[c.ID]
			if c.Membership == tier {
				continue
			}
			if err := repo.SetMembership(ctx, c.ID, tier); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update membership")
			}
			entries = append(entries, admin.Entry(staffID, Admin, c.ID, c.FullName(), enums.ActionFlagChange, admin.ChangedFields("Membership")))
		}
		changed = int64(len(entries))
		return s.log.WithTx(tx).Record(ctx, Admin, entries...)
	})
	if err != nil {
		return nil, wrapErr(err, "update memberships")
	}

	result := &EditResult{Changed: changed}
	if changed > 0 {
		result.Messages = []types.Message{admin.ChangedCountMessage(Admin, changed)}
	}
	return result, nil
}

func (s *service) RunAction(ctx context.Context, staffID uint, req admin.ActionRequest) (*admin.ActionResult, error) {
	req.IDs = admin.UniqueIDs(req.IDs)
	if result, err := admin.CheckAction(Admin, req); err != nil || result != nil {
		return result, err
	}

	result, err := s.deleteSelected(ctx, staffID, req.IDs)
	if err != nil {
		s.log.ActionFailed(Admin, req.Action)
		return nil, err
	}
	s.log.ObserveAction(Admin, req.Action, result.Affected)
	return result, nil
}

func (s *service) deleteSelected(ctx context.Context, staffID uint, ids []uint) (*admin.ActionResult, error) {
	var deleted int64
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		customers, err := repo.FindByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load selected customers")
		}
		if len(customers) == 0 {
			return nil
		}

		found := make([]uint, 0, len(customers))
		entries := make([]models.LogEntry, 0, len(customers))
		for _, c := range customers {
			found = append(found, c.ID)
			entries = append(entries, admin.Entry(staffID, Admin, c.ID, c.FullName(), enums.ActionFlagDeletion, ""))
		}
		if err := ensureNoOrders(ctx, repo, found); err != nil {
			return err
		}
		deleted, err = repo.Delete(ctx, found)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete customers")
		}
		return s.log.WithTx(tx).Record(ctx, Admin, entries...)
	})
	if err != nil {
		return nil, wrapErr(err, "delete selected customers")
	}
	return &admin.ActionResult{
		Action:   admin.ActionDeleteSelected,
		Affected: deleted,
		Messages: []types.Message{admin.BulkDeletedMessage(Admin, deleted)},
	}, nil
}

func (s *service) History(ctx context.Context, id uint) ([]admin.HistoryEntry, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFoundOr(err, "load customer")
	}
	entries, err := s.log.History(ctx, Admin, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer history")
	}
	return entries, nil
}

func (s *service) Autocomplete(ctx context.Context, term string, page int) (*admin.AutocompleteResult, error) {
	return s.repo.Lookup(ctx, term, page)
}

func (s *service) normalizeInput(input CustomerInput) (CustomerInput, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)

	for _, name := range []struct{ field, value string }{
		{field: "first_name", value: input.FirstName},
		{field: "last_name", value: input.LastName},
	} {
		if name.value == "" {
			return input, fieldErr(name.field, name.field+" is required")
		}
		if utf8.RuneCountInString(name.value) > maxNameLen {
			return input, fieldErr(name.field, name.field+" must be at most 255 characters")
		}
	}
	if utf8.RuneCountInString(input.Phone) > maxNameLen {
		return input, fieldErr("phone", "phone must be at most 255 characters")
	}
	if len(input.Email) > maxEmailLen || s.validate.Var(input.Email, "required,email") != nil {
		return input, fieldErr("email", "enter a valid email address")
	}

	if input.Membership == "" {
		input.Membership = enums.MembershipBronze
	}
	if !input.Membership.IsValid() {
		return input, fieldErr("membership", "invalid membership")
	}

	if input.BirthDate != nil {
		day := time.Date(input.BirthDate.Year(), input.BirthDate.Month(), input.BirthDate.Day(), 0, 0, 0, 0, time.UTC)
		input.BirthDate = &day
	}
	return input, nil
}

func applyInput(customer *models.Customer, input CustomerInput) []string {
	var changed []string
	if customer.FirstName != input.FirstName {
		customer.FirstName = input.FirstName
		changed = append(changed, "First name")
	}
	if customer.LastName != input.LastName {
		customer.LastName = input.LastName
		changed = append(changed, "Last name")
	}
	if customer.Email != input.Email {
		customer.Email = input.Email
		changed = append(changed, "Email")
	}
	if customer.Phone != input.Phone {
		customer.Phone = input.Phone
		changed = append(changed, "Phone")
	}
	if !sameDate(customer.BirthDate, input.BirthDate) {
		customer.BirthDate = input.BirthDate
		changed = append(changed, "Birth date")
	}
	if customer.Membership != input.Membership {
		customer.Membership = input.Membership
		changed = append(changed, "Membership")
	}
	return changed
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Format(birthDateLayout) == b.Format(birthDateLayout)
}

func missingIDs(ids []uint, found []models.Customer) []uint {
	present := make(map[uint]struct{}, len(found))
	for _, c := range found {
		present[c.ID] = struct{}{}
	}
	var missing []uint
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func ensureNoOrders(ctx context.Context, repo *Repository, ids []uint) error {
	count, err := repo.CountOrders(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count orders")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "customer has orders").
			WithDetails(map[string]any{"customer_ids": ids, "orders": count})
	}
	return nil
}

func fieldErr(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}

func writeErr(err error, message string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "customer with this email already exists").
			WithDetails(map[string]any{"field": "email"})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

func notFoundOr(err error, message string) error {
	if db.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "customer not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

func wrapErr(err error, message string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
