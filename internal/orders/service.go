package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-admin/internal/admin"
	"github.com/angelmondragon/storefront-admin/pkg/db"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"github.com/angelmondragon/storefront-admin/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/types"
)

var maxUnitPrice = decimal.RequireFromString("9999.99")

// Service exposes the order admin and its inline item editor.
type Service interface {
	List(ctx context.Context, params admin.ListParams) (*OrderList, error)
	Get(ctx context.Context, id uint) (*OrderDTO, error)
	Create(ctx context.Context, staffID uint, input OrderInput) (*OrderDTO, types.Message, error)
	Update(ctx context.Context, staffID, id uint, input OrderInput) (*OrderDTO, types.Message, error)
	Delete(ctx context.Context, staffID, id uint) (types.Message, error)
	RunAction(ctx context.Context, staffID uint, req admin.ActionRequest) (*admin.ActionResult, error)
	History(ctx context.Context, id uint) ([]admin.HistoryEntry, error)
}

type service struct {
	repo     Repository
	dbClient *db.Client
	log      *admin.Log
}

// NewService constructs an order service instance.
func NewService(repo Repository, dbClient *db.Client, log *admin.Log) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if log == nil {
		return nil, fmt.Errorf("admin log required")
	}
	return &service{repo: repo, dbClient: dbClient, log: log}, nil
}

func (s *service) List(ctx context.Context, params admin.ListParams) (*OrderList, error) {
	orders, page, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, wrapErr(err, "list orders")
	}
	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, NewOrderRow(o))
	}
	return admin.NewChangeList(Admin, params, page, rows, nil), nil
}

func (s *service) Get(ctx context.Context, id uint) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) Create(ctx context.Context, staffID uint, input OrderInput) (*OrderDTO, types.Message, error) {
	status, err := validateOrder(input)
	if err != nil {
		return nil, types.Message{}, err
	}
	for i, item := range input.Items {
		if item.ID != 0 {
			return nil, types.Message{}, itemErr(i, "id", "a new order cannot reference existing items")
		}
	}

	var orderID uint
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := ensureReferences(ctx, repo, input); err != nil {
			return err
		}

		order := &models.Order{CustomerID: input.CustomerID, PaymentStatus: status}
		if err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		orderID = order.ID

		items := newItems(order.ID, input.Items)
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order items")
		}

		var changes admin.ChangeSet
		changes.Added()
		for _, item := range items {
			changes.AddedRelated(itemVerboseName, itemRepr(item.ID))
		}
		entry := admin.Entry(staffID, Admin, order.ID, orderRepr(order.ID), enums.ActionFlagAddition, changes.String())
		return s.log.WithTx(tx).Record(ctx, Admin, entry)
	})
	if err != nil {
		return nil, types.Message{}, wrapErr(err, "create order")
	}

	dto, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, types.Message{}, err
	}
	return dto, admin.AddedMessage(Admin, orderRepr(orderID)), nil
}

func (s *service) Update(ctx context.Context, staffID, id uint, input OrderInput) (*OrderDTO, types.Message, error) {
	status, err := validateOrder(input)
	if err != nil {
		return nil, types.Message{}, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "load order")
		}
		if err := ensureReferences(ctx, repo, input); err != nil {
			return err
		}

		var changes admin.ChangeSet
		updates := map[string]any{}
		var fields []string
		if order.CustomerID != input.CustomerID {
			updates["customer_id"] = input.CustomerID
			fields = append(fields, "Customer")
		}
		if order.PaymentStatus != status {
			updates["payment_status"] = status
			fields = append(fields, "Payment status")
		}
		changes.Changed(fields...)
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order")
		}

		if err := s.syncItems(ctx, repo, order, input.Items, &changes); err != nil {
			return err
		}

		entry := admin.Entry(staffID, Admin, order.ID, orderRepr(order.ID), enums.ActionFlagChange, changes.String())
		return s.log.WithTx(tx).Record(ctx, Admin, entry)
	})
	if err != nil {
		return nil, types.Message{}, wrapErr(err, "update order")
	}

	dto, err := s.Get(ctx, id)
	if err != nil {
		return nil, types.Message{}, err
	}
	return dto, admin.ChangedMessage(Admin, orderRepr(id)), nil
}

// syncItems applies the inline rows to the order's persisted items. Rows
// must reference items of this order.
func (s *service) syncItems(ctx context.Context, repo Repository, order *models.Order, rows []ItemInput, changes *admin.ChangeSet) error {
	existing := make(map[uint]models.OrderItem, len(order.Items))
	for _, item := range order.Items {
		existing[item.ID] = item
	}

	var (
		deleted []uint
		created []ItemInput
	)
	seen := make(map[uint]struct{}, len(rows))
	for i, row := range rows {
		if row.ID == 0 {
			if !row.Delete {
				created = append(created, row)
			}
			continue
		}
		current, ok := existing[row.ID]
		if !ok {
			return itemErr(i, "id", "item does not belong to this order")
		}
		if _, dup := seen[row.ID]; dup {
			return itemErr(i, "id", "item listed more than once")
		}
		seen[row.ID] = struct{}{}

		if row.Delete {
			deleted = append(deleted, row.ID)
			continue
		}

		updates := map[string]any{}
		var fields []string
		if current.ProductID != row.ProductID {
			updates["product_id"] = row.ProductID
			fields = append(fields, "Product")
		}
		if current.Quantity != row.Quantity {
			updates["quantity"] = row.Quantity
			fields = append(fields, "Quantity")
		}
		if !current.UnitPrice.Equal(row.UnitPrice) {
			updates["unit_price"] = row.UnitPrice
			fields = append(fields, "Unit price")
		}
		if err := repo.UpdateItem(ctx, row.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order item")
		}
		changes.ChangedRelated(itemVerboseName, itemRepr(row.ID), fields...)
	}

	items := newItems(order.ID, created)
	if err := repo.CreateItems(ctx, items); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order items")
	}
	for _, item := range items {
		changes.AddedRelated(itemVerboseName, itemRepr(item.ID))
	}

	if err := repo.DeleteItems(ctx, order.ID, deleted); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete order items")
	}
	for _, id := range deleted {
		changes.DeletedRelated(itemVerboseName, itemRepr(id))
	}
	return nil
}

func (s *service) Delete(ctx context.Context, staffID, id uint) (types.Message, error) {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			return notFoundOr(err, "load order")
		}
		if _, err := repo.DeleteOrders(ctx, []uint{id}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete order")
		}
		entry := admin.Entry(staffID, Admin, id, orderRepr(id), enums.ActionFlagDeletion, "")
		return s.log.WithTx(tx).Record(ctx, Admin, entry)
	})
	if err != nil {
		return types.Message{}, wrapErr(err, "delete order")
	}
	return admin.DeletedMessage(Admin, orderRepr(id)), nil
}

func (s *service) RunAction(ctx context.Context, staffID uint, req admin.ActionRequest) (*admin.ActionResult, error) {
	req.IDs = admin.UniqueIDs(req.IDs)
	if result, err := admin.CheckAction(Admin, req); err != nil || result != nil {
		return result, err
	}

	var deleted int64
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		orders, err := repo.FindByIDs(ctx, req.IDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load selected orders")
		}
		if len(orders) == 0 {
			return nil
		}

		found := make([]uint, 0, len(orders))
		entries := make([]models.LogEntry, 0, len(orders))
		for _, o := range orders {
			found = append(found, o.ID)
			entries = append(entries, admin.Entry(staffID, Admin, o.ID, orderRepr(o.ID), enums.ActionFlagDeletion, ""))
		}
		deleted, err = repo.DeleteOrders(ctx, found)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete orders")
		}
		return s.log.WithTx(tx).Record(ctx, Admin, entries...)
	})
	if err != nil {
		s.log.ActionFailed(Admin, req.Action)
		return nil, wrapErr(err, "delete selected orders")
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
		return nil, notFoundOr(err, "load order")
	}
	entries, err := s.log.History(ctx, Admin, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order history")
	}
	return entries, nil
}

func validateOrder(input OrderInput) (enums.PaymentStatus, error) {
	if input.CustomerID == 0 {
		return "", fieldErr("customer_id", "customer is required")
	}
	status := input.PaymentStatus
	if status == "" {
		status = enums.PaymentStatusPending
	}
	if !status.IsValid() {
		return "", fieldErr("payment_status", "invalid payment status")
	}

	for i, item := range input.Items {
		if item.Delete {
			continue
		}
		if item.ProductID == 0 {
			return "", itemErr(i, "product_id", "product is required")
		}
		if item.Quantity < 1 {
			return "", itemErr(i, "quantity", "quantity must be at least 1")
		}
		if item.UnitPrice.IsNegative() || item.UnitPrice.GreaterThan(maxUnitPrice) {
			return "", itemErr(i, "unit_price", "unit_price must be between 0 and 9999.99")
		}
		if !item.UnitPrice.Equal(item.UnitPrice.Round(2)) {
			return "", itemErr(i, "unit_price", "unit_price must have at most 2 decimal places")
		}
	}
	return status, nil
}

func ensureReferences(ctx context.Context, repo Repository, input OrderInput) error {
	ok, err := repo.CustomerExists(ctx, input.CustomerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check customer")
	}
	if !ok {
		return fieldErr("customer_id", "customer does not exist")
	}

	wanted := make([]uint, 0, len(input.Items))
	for _, item := range input.Items {
		if !item.Delete {
			wanted = append(wanted, item.ProductID)
		}
	}
	found, err := repo.ExistingProductIDs(ctx, wanted)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check products")
	}
	present := make(map[uint]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	for i, item := range input.Items {
		if item.Delete {
			continue
		}
		if _, ok := present[item.ProductID]; !ok {
			return itemErr(i, "product_id", "product does not exist")
		}
	}
	return nil
}

func newItems(orderID uint, rows []ItemInput) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(rows))
	for _, row := range rows {
		if row.Delete {
			continue
		}
		items = append(items, models.OrderItem{
			OrderID:   orderID,
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
		})
	}
	return items
}

func fieldErr(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}

func itemErr(index int, field, message string) error {
	return fieldErr(fmt.Sprintf("items[%d].%s", index, field), message)
}

func notFoundOr(err error, message string) error {
	if db.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

func wrapErr(err error, message string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
