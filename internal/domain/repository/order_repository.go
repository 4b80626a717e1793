package repository

import (
	"context"
	"time"

	"ministry/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderFilter narrows order lists. A nil UserID lists every user's orders.
type OrderFilter struct {
	UserID *uuid.UUID
	Status entity.OrderStatus
	From   *time.Time
	To     *time.Time
	Pagination
}

// OrderRepository manages orders, their items and status history.
type OrderRepository interface {
	// Create inserts the order together with its items.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID loads items, transaction, shipment and history.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*entity.Order, error)
	List(ctx context.Context, filter OrderFilter) (*Page[*entity.Order], error)

	// ListAll returns unpaginated orders for reporting.
	ListAll(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)

	// TransitionStatus moves the order from one status to another and
	// returns domainerrors.ErrInvalidStatusTransition when the row is no longer in from.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus, cancelReason string) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error

	AddHistory(ctx context.Context, entry *entity.OrderStatusHistory) error
	ListHistory(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderStatusHistory, error)

	// AddRefundedQuantity grows refunded_quantity only while it stays within the ordered quantity and
	// returns domainerrors.ErrRefundItemExceeds otherwise.
	AddRefundedQuantity(ctx context.Context, itemID uuid.UUID, qty int) error

	CountByStatus(ctx context.Context) (map[string]int64, error)
	Recent(ctx context.Context, limit int) ([]*entity.Order, error)
}

// TransactionRepository manages order payment records.
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Transaction, error)
	FindByReference(ctx context.Context, reference string) (*entity.Transaction, error)
	Update(ctx context.Context, txn *entity.Transaction) error

	// AddRefunded grows refunded_amount only while it stays within amount and
	// returns domainerrors.ErrRefundExceedsAmount otherwise.
	AddRefunded(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	// Revenue sums settled amounts minus refunds.
	Revenue(ctx context.Context) (decimal.Decimal, error)
}

// ShipmentRepository manages order shipments.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *entity.Shipment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Shipment, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Shipment, error)
	Update(ctx context.Context, shipment *entity.Shipment) error
}

// RefundFilter narrows refund lists. A nil UserID lists every user's refunds.
type RefundFilter struct {
	UserID *uuid.UUID
	Status entity.RefundStatus
	Pagination
}

// RefundRepository manages refund requests.
type RefundRepository interface {
	// Create inserts the refund together with its items.
	Create(ctx context.Context, refund *entity.Refund) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Refund, error)
	List(ctx context.Context, filter RefundFilter) (*Page[*entity.Refund], error)
	Update(ctx context.Context, refund *entity.Refund) error

	// SumByTransaction totals the refunds of a transaction in any of the statuses.
	SumByTransaction(ctx context.Context, transactionID uuid.UUID, statuses ...entity.RefundStatus) (decimal.Decimal, error)
}
