package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/domain/service"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const refundPrefix = "RFD"

type refundService struct {
	txManager  repository.TransactionManager
	refundRepo repository.RefundRepository
	orderRepo  repository.OrderRepository
	gateway    service.PaymentGateway
	logger     *slog.Logger
	now        func() time.Time
}

// RefundServiceParams holds dependencies for RefundService, injected by Fx.
type RefundServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	RefundRepo repository.RefundRepository
	OrderRepo  repository.OrderRepository
	Gateway    service.PaymentGateway
	Logger     *slog.Logger
}

// NewRefundService is the constructor for refundService.
func NewRefundService(params RefundServiceParams) usecase.RefundUsecase {
	return &refundService{
		txManager:  params.TxManager,
		refundRepo: params.RefundRepo,
		orderRepo:  params.OrderRepo,
		gateway:    params.Gateway,
		logger:     params.Logger,
		now:        time.Now,
	}
}

func (srv *refundService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Request opens a pending refund after checking the amount and item limits.
func (srv *refundService) Request(ctx context.Context, userID uuid.UUID, input *usecase.RequestRefundInput) (*entity.Refund, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerrors.NewFieldError("amount", "The amount must be greater than zero.")
	}

	order, err := findOwnedOrder(ctx, srv.orderRepo, userID, input.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.IsPaid() || order.Transaction == nil {
		return nil, domainerrors.ErrRefundNotAllowed
	}

	items, err := refundItems(order, input.Items)
	if err != nil {
		return nil, err
	}

	refund := &entity.Refund{
		OrderID:       order.ID,
		UserID:        userID,
		TransactionID: order.Transaction.ID,
		Reference:     newReference(refundPrefix, srv.now()),
		Amount:        input.Amount.Round(2),
		Reason:        strings.TrimSpace(input.Reason),
		Status:        entity.RefundStatusPending,
		Restock:       input.Restock,
		Items:         items,
	}
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refundRepo := repoFactory.RefundRepo()

		committed, err := refundRepo.SumByTransaction(ctx, order.Transaction.ID, entity.RefundStatusPending, entity.RefundStatusRefunded)
		if err != nil {
			return err
		}
		if committed.Add(refund.Amount).GreaterThan(order.Transaction.Amount) {
			return domainerrors.ErrRefundExceedsAmount
		}

		return refundRepo.Create(ctx, refund)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Refund requested",
		slog.String("reference", refund.Reference),
		slog.String("orderNumber", order.OrderNumber),
		slog.String("amount", refund.Amount.StringFixed(2)),
	)

	return refund, nil
}

// refundItems checks each requested quantity against what is still refundable.
func refundItems(order *entity.Order, inputs []usecase.RefundItemInput) ([]*entity.RefundItem, error) {
	byID := make(map[uuid.UUID]*entity.OrderItem, len(order.Items))
	for _, item := range order.Items {
		byID[item.ID] = item
	}

	requested := make(map[uuid.UUID]int, len(inputs))
	items := make([]*entity.RefundItem, 0, len(inputs))
	for _, in := range inputs {
		item, ok := byID[in.OrderItemID]
		if !ok {
			return nil, domainerrors.NewFieldError("items", "The item does not belong to this order.")
		}
		if in.Quantity < 1 {
			return nil, domainerrors.NewFieldError("items", "Each item quantity must be at least 1.")
		}

		requested[item.ID] += in.Quantity
		if requested[item.ID] > item.Quantity-item.RefundedQuantity {
			return nil, domainerrors.ErrRefundItemExceeds.WithDetails(item.ProductName)
		}
		items = append(items, &entity.RefundItem{OrderItemID: item.ID, Quantity: in.Quantity})
	}

	return items, nil
}

func (srv *refundService) List(ctx context.Context, userID uuid.UUID, p repository.Pagination) (*repository.Page[*entity.Refund], error) {
	return srv.refundRepo.List(ctx, repository.RefundFilter{UserID: &userID, Pagination: p})
}

func (srv *refundService) Get(ctx context.Context, userID, refundID uuid.UUID) (*entity.Refund, error) {
	refund, err := srv.refundRepo.FindByID(ctx, refundID)
	if err != nil {
		return nil, err
	}
	if refund.UserID != userID {
		return nil, domainerrors.ErrRefundNotFound
	}

	return refund, nil
}

func (srv *refundService) ListAll(ctx context.Context, filter repository.RefundFilter) (*repository.Page[*entity.Refund], error) {
	return srv.refundRepo.List(ctx, filter)
}

func (srv *refundService) AdminGet(ctx context.Context, refundID uuid.UUID) (*entity.Refund, error) {
	return srv.refundRepo.FindByID(ctx, refundID)
}

// Process settles a pending refund. Everything rolls back when the gateway refuses.
func (srv *refundService) Process(ctx context.Context, refundID uuid.UUID, input *usecase.ProcessRefundInput) (*entity.Refund, error) {
	var refund *entity.Refund
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refundRepo := repoFactory.RefundRepo()

		var err error
		refund, err = refundRepo.FindByID(ctx, refundID)
		if err != nil {
			return err
		}
		if refund.Status != entity.RefundStatusPending {
			return domainerrors.ErrRefundAlreadyProcessed
		}

		now := srv.now()
		refund.AdminNote = strings.TrimSpace(input.Note)
		refund.ProcessedAt = &now
		if !input.Approve {
			refund.Status = entity.RefundStatusRejected

			return refundRepo.Update(ctx, refund)
		}

		return srv.approve(ctx, repoFactory, refund)
	})
	if err != nil {
		srv.log(ctx).Warn("Refund processing failed", slog.Any("refundID", refundID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Refund processed", slog.String("reference", refund.Reference), slog.String("status", string(refund.Status)))

	return refund, nil
}

func (srv *refundService) approve(ctx context.Context, repoFactory repository.RepositoryFactory, refund *entity.Refund) error {
	orderRepo := repoFactory.OrderRepo()
	order, err := orderRepo.FindByID(ctx, refund.OrderID)
	if err != nil {
		return err
	}
	txn := order.Transaction
	if txn == nil {
		return domainerrors.ErrTransactionNotFound
	}

	txnRepo := repoFactory.TransactionRepo()
	if err := txnRepo.AddRefunded(ctx, txn.ID, refund.Amount); err != nil {
		return err
	}

	itemsByID := make(map[uuid.UUID]*entity.OrderItem, len(order.Items))
	for _, item := range order.Items {
		itemsByID[item.ID] = item
	}
	for _, ri := range refund.Items {
		if err := orderRepo.AddRefundedQuantity(ctx, ri.OrderItemID, ri.Quantity); err != nil {
			return err
		}
		if item, ok := itemsByID[ri.OrderItemID]; ok && refund.Restock {
			if err := restock(ctx, repoFactory, item, ri.Quantity); err != nil {
				return err
			}
		}
	}

	result, err := srv.gateway.Refund(ctx, txn.Reference, refund.Amount)
	if err != nil {
		return err
	}
	refund.Status = entity.RefundStatusRefunded
	refund.GatewayRefundID = result.GatewayRefundID
	if err := repoFactory.RefundRepo().Update(ctx, refund); err != nil {
		return err
	}

	full := txn.RefundedAmount.Add(refund.Amount).GreaterThanOrEqual(txn.Amount)
	txn.RefundedAmount = txn.RefundedAmount.Add(refund.Amount)
	txn.Status = entity.TransactionStatusPartiallyRefunded
	paymentStatus := entity.PaymentStatusPartiallyRefunded
	if full {
		txn.Status = entity.TransactionStatusRefunded
		paymentStatus = entity.PaymentStatusRefunded
	}
	if err := txnRepo.Update(ctx, txn); err != nil {
		return err
	}
	if err := orderRepo.UpdatePaymentStatus(ctx, order.ID, paymentStatus); err != nil {
		return err
	}

	if full && order.Status.CanTransitionTo(entity.OrderStatusRefunded) {
		return applyTransition(ctx, repoFactory, nil, order, entity.OrderStatusRefunded, "Refund "+refund.Reference)
	}

	return nil
}
