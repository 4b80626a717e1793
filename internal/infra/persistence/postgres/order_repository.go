package postgres

import (
	"context"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order together with its items.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)
	if err := repo.db.WithContext(ctx).Omit("Transaction", "Shipment", "History").Create(orderM).Error; err != nil {
		return writeError(err, domainerrors.ErrConflict.WithDetails("order number already exists"), domainerrors.ErrUserNotFound, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt
	for i, itemM := range orderM.Items {
		order.Items[i].ID = itemM.ID
		order.Items[i].OrderID = orderM.ID
	}

	return nil
}

func (repo *orderRepository) preloaded(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Transaction").
		Preload("Shipment").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") })
}

func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	if err := repo.preloaded(ctx).Where("id = ?", id).First(&orderM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrOrderNotFound, "failed to find order")
	}

	return toOrderDomain(&orderM), nil
}

func (repo *orderRepository) FindByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	var orderM model.OrderModel
	if err := repo.preloaded(ctx).Where("order_number = ?", orderNumber).First(&orderM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrOrderNotFound, "failed to find order")
	}

	return toOrderDomain(&orderM), nil
}

func (repo *orderRepository) filtered(ctx context.Context, filter repository.OrderFilter) *gorm.DB {
	q := repo.db.WithContext(ctx).Model(&model.OrderModel{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
	}

	return q
}

func (repo *orderRepository) List(ctx context.Context, filter repository.OrderFilter) (*repository.Page[*entity.Order], error) {
	rows, total, err := findPage[model.OrderModel](repo.filtered(ctx, filter), filter.Pagination, "created_at DESC, id", preload("Items", "Transaction"))
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list orders")
	}

	return repository.NewPage(mapSlice(rows, toOrderDomain), total, filter.Pagination), nil
}

func (repo *orderRepository) ListAll(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	var orderMs []model.OrderModel
	if err := repo.filtered(ctx, filter).Preload("Items").Order("created_at").Find(&orderMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load orders")
	}

	return mapSlice(orderMs, toOrderDomain), nil
}

// TransitionStatus moves the order only while it is still in from.
func (repo *orderRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus, cancelReason string) error {
	updates := map[string]any{"status": string(to)}
	if cancelReason != "" {
		updates["cancel_reason"] = cancelReason
	}

	result := repo.db.WithContext(ctx).Model(&model.OrderModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidStatusTransition.WithDetails("order is no longer " + string(from))
	}

	return nil
}

func (repo *orderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	result := repo.db.WithContext(ctx).Model(&model.OrderModel{}).Where("id = ?", id).Update("payment_status", string(status))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update payment status")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOrderNotFound
	}

	return nil
}

func (repo *orderRepository) AddHistory(ctx context.Context, entry *entity.OrderStatusHistory) error {
	entryM := &model.OrderStatusHistoryModel{
		Base:       model.Base{ID: entry.ID},
		OrderID:    entry.OrderID,
		FromStatus: string(entry.FromStatus),
		ToStatus:   string(entry.ToStatus),
		Note:       entry.Note,
		ChangedBy:  entry.ChangedBy,
	}
	if err := repo.db.WithContext(ctx).Create(entryM).Error; err != nil {
		return writeError(err, nil, domainerrors.ErrOrderNotFound, "failed to add order history")
	}

	entry.ID = entryM.ID
	entry.CreatedAt = entryM.CreatedAt

	return nil
}

func (repo *orderRepository) ListHistory(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderStatusHistory, error) {
	var entryMs []model.OrderStatusHistoryModel
	if err := repo.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at").Find(&entryMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list order history")
	}

	return mapSlice(entryMs, toHistoryDomain), nil
}

// AddRefundedQuantity grows refunded_quantity only while it stays within the ordered quantity.
func (repo *orderRepository) AddRefundedQuantity(ctx context.Context, itemID uuid.UUID, qty int) error {
	result := repo.db.WithContext(ctx).Model(&model.OrderItemModel{}).
		Where("id = ? AND refunded_quantity + ? <= quantity", itemID, qty).
		UpdateColumn("refunded_quantity", gorm.Expr("refunded_quantity + ?", qty))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update refunded quantity")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRefundItemExceeds
	}

	return nil
}

func (repo *orderRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countBy(ctx, repo.db, &model.OrderModel{}, "status")
}

func (repo *orderRepository) Recent(ctx context.Context, limit int) ([]*entity.Order, error) {
	var orderMs []model.OrderModel
	if err := repo.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&orderMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load recent orders")
	}

	return mapSlice(orderMs, toOrderDomain), nil
}

func toOrderDomain(orderM *model.OrderModel) *entity.Order {
	order := &entity.Order{
		ID:              orderM.ID,
		UserID:          orderM.UserID,
		OrderNumber:     orderM.OrderNumber,
		Status:          entity.OrderStatus(orderM.Status),
		PaymentStatus:   entity.PaymentStatus(orderM.PaymentStatus),
		PaymentMethod:   orderM.PaymentMethod,
		Currency:        orderM.Currency,
		CustomerName:    orderM.CustomerName,
		CustomerEmail:   orderM.CustomerEmail,
		Subtotal:        orderM.Subtotal,
		ShippingFee:     orderM.ShippingFee,
		Tax:             orderM.Tax,
		Total:           orderM.Total,
		ShippingAddress: toSnapshotDomain(orderM.ShippingAddress),
		BillingAddress:  toSnapshotDomain(orderM.BillingAddress),
		Notes:           orderM.Notes,
		CancelReason:    orderM.CancelReason,
		Items:           mapSlice(orderM.Items, toOrderItemDomain),
		History:         mapSlice(orderM.History, toHistoryDomain),
		CreatedAt:       orderM.CreatedAt,
		UpdatedAt:       orderM.UpdatedAt,
	}
	if orderM.Transaction != nil {
		order.Transaction = toTransactionDomain(orderM.Transaction)
	}
	if orderM.Shipment != nil {
		order.Shipment = toShipmentDomain(orderM.Shipment)
	}

	return order
}

func fromOrderDomain(order *entity.Order) *model.OrderModel {
	orderM := &model.OrderModel{
		Base:            model.Base{ID: order.ID, CreatedAt: order.CreatedAt, UpdatedAt: order.UpdatedAt},
		UserID:          order.UserID,
		OrderNumber:     order.OrderNumber,
		Status:          string(order.Status),
		PaymentStatus:   string(order.PaymentStatus),
		PaymentMethod:   order.PaymentMethod,
		Currency:        order.Currency,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		Subtotal:        order.Subtotal,
		ShippingFee:     order.ShippingFee,
		Tax:             order.Tax,
		Total:           order.Total,
		ShippingAddress: fromSnapshotDomain(order.ShippingAddress),
		BillingAddress:  fromSnapshotDomain(order.BillingAddress),
		Notes:           order.Notes,
		CancelReason:    order.CancelReason,
	}
	for _, item := range order.Items {
		orderM.Items = append(orderM.Items, model.OrderItemModel{
			Base:             model.Base{ID: item.ID},
			ProductID:        item.ProductID,
			VariantID:        item.VariantID,
			ProductName:      item.ProductName,
			VariantName:      item.VariantName,
			SKU:              item.SKU,
			UnitPrice:        item.UnitPrice,
			Quantity:         item.Quantity,
			LineTotal:        item.LineTotal,
			RefundedQuantity: item.RefundedQuantity,
		})
	}

	return orderM
}

func toOrderItemDomain(itemM *model.OrderItemModel) *entity.OrderItem {
	return &entity.OrderItem{
		ID:               itemM.ID,
		OrderID:          itemM.OrderID,
		ProductID:        itemM.ProductID,
		VariantID:        itemM.VariantID,
		ProductName:      itemM.ProductName,
		VariantName:      itemM.VariantName,
		SKU:              itemM.SKU,
		UnitPrice:        itemM.UnitPrice,
		Quantity:         itemM.Quantity,
		LineTotal:        itemM.LineTotal,
		RefundedQuantity: itemM.RefundedQuantity,
	}
}

func toHistoryDomain(entryM *model.OrderStatusHistoryModel) *entity.OrderStatusHistory {
	return &entity.OrderStatusHistory{
		ID:         entryM.ID,
		OrderID:    entryM.OrderID,
		FromStatus: entity.OrderStatus(entryM.FromStatus),
		ToStatus:   entity.OrderStatus(entryM.ToStatus),
		Note:       entryM.Note,
		ChangedBy:  entryM.ChangedBy,
		CreatedAt:  entryM.CreatedAt,
	}
}

func toSnapshotDomain(snap *model.AddressSnapshot) *entity.AddressSnapshot {
	if snap == nil {
		return nil
	}

	return &entity.AddressSnapshot{
		RecipientName: snap.RecipientName,
		Phone:         snap.Phone,
		Line1:         snap.Line1,
		Line2:         snap.Line2,
		City:          snap.City,
		State:         snap.State,
		PostalCode:    snap.PostalCode,
		CountryID:     snap.CountryID,
	}
}

func fromSnapshotDomain(snap *entity.AddressSnapshot) *model.AddressSnapshot {
	if snap == nil {
		return nil
	}

	return &model.AddressSnapshot{
		RecipientName: snap.RecipientName,
		Phone:         snap.Phone,
		Line1:         snap.Line1,
		Line2:         snap.Line2,
		City:          snap.City,
		State:         snap.State,
		PostalCode:    snap.PostalCode,
		CountryID:     snap.CountryID,
	}
}

