package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"ministry/config"
	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/domain/service"
	"ministry/internal/errors"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const (
	orderNumberPrefix = "ORD"
	transactionPrefix = "TXN"
)

type orderService struct {
	txManager    repository.TransactionManager
	orderRepo    repository.OrderRepository
	shipmentRepo repository.ShipmentRepository
	userRepo     repository.UserRepository
	notifier     usecase.NotificationUsecase
	shop         config.ShopConfig
	logger       *slog.Logger
	now          func() time.Time
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	OrderRepo    repository.OrderRepository
	ShipmentRepo repository.ShipmentRepository
	UserRepo     repository.UserRepository
	Notifier     usecase.NotificationUsecase
	Config       *config.Config
	Logger       *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	shop := config.ShopConfig{Currency: "NGN"}
	if params.Config != nil && params.Config.Shop != nil {
		shop = *params.Config.Shop
	}

	return &orderService{
		txManager:    params.TxManager,
		orderRepo:    params.OrderRepo,
		shipmentRepo: params.ShipmentRepo,
		userRepo:     params.UserRepo,
		notifier:     params.Notifier,
		shop:         shop,
		logger:       params.Logger,
		now:          time.Now,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Place reserves stock for every line and writes the order, its transaction and
// the first history entry atomically.
func (srv *orderService) Place(ctx context.Context, userID uuid.UUID, input *usecase.PlaceOrderInput) (*entity.Order, error) {
	logger := srv.log(ctx)
	logger.Info("Placing order", slog.Any("userID", userID), slog.String("paymentMethod", input.PaymentMethodCode))

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var order *entity.Order
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		method, err := repoFactory.ReferenceRepo().FindPaymentMethodByCode(ctx, input.PaymentMethodCode)
		if err != nil {
			return err
		}

		shipping, err := repoFactory.AddressRepo().FindByID(ctx, userID, input.ShippingAddressID)
		if err != nil {
			return err
		}
		var billing *entity.Address
		if input.BillingAddressID != nil {
			if billing, err = repoFactory.AddressRepo().FindByID(ctx, userID, *input.BillingAddressID); err != nil {
				return err
			}
		}

		lines, fromCart, err := orderLines(ctx, repoFactory, userID, input.Items)
		if err != nil {
			return err
		}

		items := make([]*entity.OrderItem, 0, len(lines))
		subtotal := decimal.Zero
		for _, line := range lines {
			item, err := reserveLine(ctx, repoFactory, line)
			if err != nil {
				return err
			}
			items = append(items, item)
			subtotal = subtotal.Add(item.LineTotal)
		}

		now := srv.now()
		shippingFee, tax, total := srv.totals(subtotal)
		order = &entity.Order{
			UserID:          userID,
			OrderNumber:     newReference(orderNumberPrefix, now),
			Status:          entity.OrderStatusPending,
			PaymentStatus:   entity.PaymentStatusPending,
			PaymentMethod:   method.Code,
			Currency:        srv.shop.Currency,
			CustomerName:    user.Name,
			CustomerEmail:   user.Email,
			Subtotal:        subtotal,
			ShippingFee:     shippingFee,
			Tax:             tax,
			Total:           total,
			ShippingAddress: shipping.Snapshot(),
			BillingAddress:  billing.Snapshot(),
			Notes:           strings.TrimSpace(input.Notes),
			Items:           items,
		}
		orderRepo := repoFactory.OrderRepo()
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}

		txn := &entity.Transaction{
			OrderID:        order.ID,
			Reference:      newReference(transactionPrefix, now),
			PaymentMethod:  method.Code,
			Amount:         total,
			RefundedAmount: decimal.Zero,
			Currency:       order.Currency,
			Status:         entity.TransactionStatusPending,
		}
		if err := repoFactory.TransactionRepo().Create(ctx, txn); err != nil {
			return err
		}
		order.Transaction = txn

		if err := orderRepo.AddHistory(ctx, &entity.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  entity.OrderStatusPending,
			Note:      "Order placed",
			ChangedBy: &userID,
		}); err != nil {
			return err
		}

		if fromCart {
			return repoFactory.CartRepo().Clear(ctx, userID)
		}

		return nil
	})
	if err != nil {
		logger.Warn("Order placement failed", slog.Any("userID", userID), slog.Any("error", err))

		return nil, err
	}

	logger.Info("Order placed",
		slog.String("orderNumber", order.OrderNumber),
		slog.String("total", order.Total.StringFixed(2)),
	)
	srv.notifier.Notify(ctx, &service.NotificationMessage{
		Type:    service.NotificationOrderPlaced,
		Channel: service.ChannelEmail,
		UserID:  userID.String(),
		Email:   user.Email,
		Data: map[string]string{
			"order_number": order.OrderNumber,
			"total":        order.Total.StringFixed(2),
			"currency":     order.Currency,
		},
	})

	return srv.orderRepo.FindByID(ctx, order.ID)
}

// totals applies the shop's shipping and tax rules to subtotal.
func (srv *orderService) totals(subtotal decimal.Decimal) (shipping, tax, total decimal.Decimal) {
	shipping = srv.shop.ShippingFlatFee
	if srv.shop.FreeShippingThreshold.IsPositive() && subtotal.GreaterThanOrEqual(srv.shop.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax = subtotal.Mul(srv.shop.TaxRate).Round(2)
	total = subtotal.Add(shipping).Add(tax)

	return shipping, tax, total
}

// orderLines returns the explicit lines, or the cart when none are given.
func orderLines(ctx context.Context, repoFactory repository.RepositoryFactory, userID uuid.UUID, explicit []usecase.OrderLineInput) ([]usecase.OrderLineInput, bool, error) {
	if len(explicit) > 0 {
		for _, line := range explicit {
			if line.Quantity < 1 {
				return nil, false, domainerrors.NewFieldError("items", "Each item quantity must be at least 1.")
			}
		}

		return explicit, false, nil
	}

	cartItems, err := repoFactory.CartRepo().ListByUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if len(cartItems) == 0 {
		return nil, false, domainerrors.ErrCartEmpty
	}

	lines := make([]usecase.OrderLineInput, 0, len(cartItems))
	for _, item := range cartItems {
		lines = append(lines, usecase.OrderLineInput{ProductID: item.ProductID, VariantID: item.VariantID, Quantity: item.Quantity})
	}

	return lines, true, nil
}

// reserveLine prices a line and decrements the stock it draws from.
func reserveLine(ctx context.Context, repoFactory repository.RepositoryFactory, line usecase.OrderLineInput) (*entity.OrderItem, error) {
	product, err := repoFactory.ProductRepo().FindByID(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, domainerrors.ErrProductUnavailable.WithDetails(product.Name)
	}

	item := &entity.OrderItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		SKU:         product.SKU,
		UnitPrice:   product.Price,
		Quantity:    line.Quantity,
	}

	if line.VariantID != nil {
		variant, err := repoFactory.VariantRepo().FindByID(ctx, *line.VariantID)
		if err != nil {
			return nil, err
		}
		if variant.ProductID != product.ID {
			return nil, domainerrors.ErrVariantNotFound
		}
		if err := repoFactory.VariantRepo().DecrementStock(ctx, variant.ID, line.Quantity); err != nil {
			return nil, err
		}
		item.VariantID = &variant.ID
		item.VariantName = variant.Name
		item.SKU = variant.SKU
		item.UnitPrice = variant.Price
	} else if err := repoFactory.ProductRepo().DecrementStock(ctx, product.ID, line.Quantity); err != nil {
		return nil, err
	}

	item.LineTotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

	return item, nil
}

// restock returns qty units of an order item to the stock it came from.
func restock(ctx context.Context, repoFactory repository.RepositoryFactory, item *entity.OrderItem, qty int) error {
	if qty <= 0 {
		return nil
	}
	if item.VariantID != nil {
		err := repoFactory.VariantRepo().IncrementStock(ctx, *item.VariantID, qty)
		// a deleted variant has nowhere to return stock to
		if errors.Is(err, domainerrors.ErrVariantNotFound) {
			return nil
		}

		return err
	}

	err := repoFactory.ProductRepo().IncrementStock(ctx, item.ProductID, qty)
	if errors.Is(err, domainerrors.ErrProductNotFound) {
		return nil
	}

	return err
}

func (srv *orderService) List(ctx context.Context, userID uuid.UUID, p repository.Pagination) (*repository.Page[*entity.Order], error) {
	return srv.orderRepo.List(ctx, repository.OrderFilter{UserID: &userID, Pagination: p})
}

func (srv *orderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*entity.Order, error) {
	return findOwnedOrder(ctx, srv.orderRepo, userID, orderID)
}

// findOwnedOrder reports another user's order as not found.
func findOwnedOrder(ctx context.Context, orderRepo repository.OrderRepository, userID, orderID uuid.UUID) (*entity.Order, error) {
	order, err := orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainerrors.ErrOrderNotFound
	}

	return order, nil
}

func (srv *orderService) Cancel(ctx context.Context, userID, orderID uuid.UUID, reason string) (*entity.Order, error) {
	order, err := findOwnedOrder(ctx, srv.orderRepo, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderStatusPending {
		return nil, domainerrors.ErrInvalidStatusTransition.WithDetails("only pending orders can be cancelled")
	}

	if err := srv.transition(ctx, &userID, order, entity.OrderStatusCancelled, strings.TrimSpace(reason)); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Order cancelled by customer", slog.String("orderNumber", order.OrderNumber))

	return srv.orderRepo.FindByID(ctx, orderID)
}

// transition moves order to status with history, restoring stock on cancellation.
func (srv *orderService) transition(ctx context.Context, actorID *uuid.UUID, order *entity.Order, status entity.OrderStatus, note string) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return applyTransition(ctx, repoFactory, actorID, order, status, note)
	})
}

func applyTransition(ctx context.Context, repoFactory repository.RepositoryFactory, actorID *uuid.UUID, order *entity.Order, status entity.OrderStatus, note string) error {
	if !order.Status.CanTransitionTo(status) {
		return domainerrors.ErrInvalidStatusTransition.WithDetails(string(order.Status) + " -> " + string(status))
	}

	cancelReason := ""
	if status == entity.OrderStatusCancelled {
		cancelReason = note
	}

	orderRepo := repoFactory.OrderRepo()
	if err := orderRepo.TransitionStatus(ctx, order.ID, order.Status, status, cancelReason); err != nil {
		return err
	}
	if status == entity.OrderStatusCancelled {
		for _, item := range order.Items {
			if err := restock(ctx, repoFactory, item, item.Quantity-item.RefundedQuantity); err != nil {
				return err
			}
		}
	}

	from := order.Status
	order.Status = status

	return orderRepo.AddHistory(ctx, &entity.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: from,
		ToStatus:   status,
		Note:       note,
		ChangedBy:  actorID,
	})
}

func (srv *orderService) Track(ctx context.Context, userID, orderID uuid.UUID) (*entity.OrderTracking, error) {
	order, err := findOwnedOrder(ctx, srv.orderRepo, userID, orderID)
	if err != nil {
		return nil, err
	}

	return trackingOf(order), nil
}

// PublicTrack requires the order's customer email; a mismatch looks like an unknown order.
func (srv *orderService) PublicTrack(ctx context.Context, orderNumber, email string) (*entity.OrderTracking, error) {
	order, err := srv.orderRepo.FindByNumber(ctx, strings.TrimSpace(orderNumber))
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(order.CustomerEmail, normalizeEmail(email)) {
		return nil, domainerrors.ErrOrderNotFound
	}

	return trackingOf(order), nil
}

func trackingOf(order *entity.Order) *entity.OrderTracking {
	history := order.History
	if history == nil {
		history = []*entity.OrderStatusHistory{}
	}

	return &entity.OrderTracking{
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		History:       history,
		Shipment:      order.Shipment,
	}
}

func (srv *orderService) ListAll(ctx context.Context, filter repository.OrderFilter) (*repository.Page[*entity.Order], error) {
	return srv.orderRepo.List(ctx, filter)
}

func (srv *orderService) AdminGet(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	return srv.orderRepo.FindByID(ctx, orderID)
}

func (srv *orderService) UpdateStatus(ctx context.Context, actorID, orderID uuid.UUID, status entity.OrderStatus, note string) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, domainerrors.NewFieldError("status", "The selected status is invalid.")
	}

	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := srv.transition(ctx, &actorID, order, status, strings.TrimSpace(note)); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Order status updated",
		slog.String("orderNumber", order.OrderNumber),
		slog.String("status", string(status)),
		slog.Any("actorID", actorID),
	)
	srv.notifyStatus(ctx, order, note)

	return srv.orderRepo.FindByID(ctx, orderID)
}

// notifyStatus emails and pushes the new status of order to its customer.
func (srv *orderService) notifyStatus(ctx context.Context, order *entity.Order, note string) {
	data := map[string]string{
		"order_number": order.OrderNumber,
		"status":       string(order.Status),
		"note":         note,
	}
	srv.notifier.Notify(ctx, &service.NotificationMessage{
		Type:    service.NotificationOrderStatus,
		Channel: service.ChannelEmail,
		UserID:  order.UserID.String(),
		Email:   order.CustomerEmail,
		Data:    data,
	})
	srv.notifier.Notify(ctx, &service.NotificationMessage{
		Type:    service.NotificationOrderStatus,
		Channel: service.ChannelPush,
		UserID:  order.UserID.String(),
		Subject: "Order " + order.OrderNumber,
		Body:    "Your order is now " + string(order.Status) + ".",
		Data:    data,
	})
}

// CreateShipment ships a processing order.
func (srv *orderService) CreateShipment(ctx context.Context, actorID, orderID uuid.UUID, input *usecase.ShipmentInput) (*entity.Shipment, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderStatusProcessing {
		return nil, domainerrors.ErrInvalidStatusTransition.WithDetails("only processing orders can be shipped")
	}

	now := srv.now()
	shipment := &entity.Shipment{
		OrderID:           orderID,
		Carrier:           strings.TrimSpace(input.Carrier),
		TrackingNumber:    strings.TrimSpace(input.TrackingNumber),
		Status:            entity.ShipmentStatusShipped,
		EstimatedDelivery: input.EstimatedDelivery,
		ShippedAt:         &now,
	}
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.ShipmentRepo().Create(ctx, shipment); err != nil {
			return err
		}

		return applyTransition(ctx, repoFactory, &actorID, order, entity.OrderStatusShipped, "Shipped via "+shipment.Carrier)
	})
	if err != nil {
		return nil, err
	}

	srv.notifyStatus(ctx, order, "Tracking number "+shipment.TrackingNumber)

	return shipment, nil
}

// UpdateShipment records carrier progress; delivery also delivers the order.
func (srv *orderService) UpdateShipment(ctx context.Context, actorID, shipmentID uuid.UUID, status entity.ShipmentStatus) (*entity.Shipment, error) {
	switch status {
	case entity.ShipmentStatusInTransit, entity.ShipmentStatusDelivered, entity.ShipmentStatusReturned:
	default:
		return nil, domainerrors.NewFieldError("status", "The status must be in_transit, delivered or returned.")
	}

	shipment, err := srv.shipmentRepo.FindByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	var order *entity.Order
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		shipment.Status = status
		if status == entity.ShipmentStatusDelivered {
			now := srv.now()
			shipment.DeliveredAt = &now
		}
		if err := repoFactory.ShipmentRepo().Update(ctx, shipment); err != nil {
			return err
		}
		if status != entity.ShipmentStatusDelivered {
			return nil
		}

		var err error
		order, err = repoFactory.OrderRepo().FindByID(ctx, shipment.OrderID)
		if err != nil {
			return err
		}
		if order.Status == entity.OrderStatusDelivered {
			order = nil

			return nil
		}

		return applyTransition(ctx, repoFactory, &actorID, order, entity.OrderStatusDelivered, "Delivered by "+shipment.Carrier)
	})
	if err != nil {
		return nil, err
	}

	if order != nil {
		srv.notifyStatus(ctx, order, "")
	}

	return shipment, nil
}
