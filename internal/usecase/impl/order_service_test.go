package impl

import (
	"context"
	"testing"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"
	"ministry/internal/infra/persistence/postgres"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrderService(f *fixture) *orderService {
	return NewOrderService(OrderServiceParams{
		TxManager:    f.tx,
		OrderRepo:    f.orders,
		ShipmentRepo: postgres.NewShipmentRepository(f.db),
		UserRepo:     f.users,
		Notifier:     f.notifier,
		Config:       f.cfg,
		Logger:       f.logger,
	}).(*orderService)
}

// placeOrder buys qty units of product with cash and returns the order.
func (f *fixture) placeOrder(t *testing.T, srv usecase.OrderUsecase, user *entity.User, product *entity.Product, qty int) *entity.Order {
	t.Helper()

	address := f.createAddress(t, user.ID)
	order, err := srv.Place(context.Background(), user.ID, &usecase.PlaceOrderInput{
		ShippingAddressID: address.ID,
		PaymentMethodCode: "cash",
		Items:             []usecase.OrderLineInput{{ProductID: product.ID, Quantity: qty}},
	})
	require.NoError(t, err)

	return order
}

func TestOrderService_PlaceFromCart(t *testing.T) {
	f := newFixture(t)
	srv := newTestOrderService(f)
	carts := newTestCartService(f)
	ctx := context.Background()

	user := f.createUser(t, "buyer@example.com")
	address := f.createAddress(t, user.ID)
	hymnal := f.createProduct(t, "hymnal", 30, 5)
	_, err := carts.AddItem(ctx, user.ID, &usecase.AddCartItemInput{ProductID: hymnal.ID, Quantity: 2})
	require.NoError(t, err)

	order, err := srv.Place(ctx, user.ID, &usecase.PlaceOrderInput{
		ShippingAddressID: address.ID,
		PaymentMethodCode: "cash",
		Notes:             "  leave at the gate ",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, entity.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, "leave at the gate", order.Notes)
	assert.Equal(t, "buyer@example.com", order.CustomerEmail)
	assert.Regexp(t, `^ORD-\d{8}-[A-Z0-9]{6}$`, order.OrderNumber)

	// 60 subtotal is under the free shipping threshold
	assert.True(t, decimal.NewFromInt(60).Equal(order.Subtotal))
	assert.True(t, decimal.NewFromInt(10).Equal(order.ShippingFee))
	assert.True(t, decimal.NewFromInt(3).Equal(order.Tax))
	assert.True(t, decimal.NewFromInt(73).Equal(order.Total), order.Total.String())

	require.Len(t, order.Items, 1)
	assert.Equal(t, "SKU-hymnal", order.Items[0].SKU)
	require.NotNil(t, order.Transaction)
	assert.Equal(t, entity.TransactionStatusPending, order.Transaction.Status)
	assert.True(t, order.Total.Equal(order.Transaction.Amount))
	assert.Len(t, order.History, 1)

	assert.Equal(t, 3, f.productStock(t, hymnal.ID))

	cart, err := carts.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	placed := f.notifier.ofType(service.NotificationOrderPlaced)
	require.Len(t, placed, 1)
	assert.Equal(t, order.OrderNumber, placed[0].Data["order_number"])

	_, err = srv.Place(ctx, user.ID, &usecase.PlaceOrderInput{ShippingAddressID: address.ID, PaymentMethodCode: "cash"})
	assert.ErrorIs(t, err, domainerrors.ErrCartEmpty)
}

func TestOrderService_PlaceFreeShipping(t *testing.T) {
	f := newFixture(t)
	srv := newTestOrderService(f)

	user := f.createUser(t, "big@example.com")
	order := f.placeOrder(t, srv, user, f.createProduct(t, "pulpit", 120, 1), 1)

	assert.True(t, order.ShippingFee.IsZero())
	assert.True(t, decimal.NewFromInt(6).Equal(order.Tax))
	assert.True(t, decimal.NewFromInt(126).Equal(order.Total))
}

func TestOrderService_PlaceRollsBackOnInsufficientStock(t *testing.T) {
	f := newFixture(t)
	srv := newTestOrderService(f)
	ctx := context.Background()

	user := f.createUser(t, "short@example.com")
	address := f.createAddress(t, user.ID)
	plenty := f.createProduct(t, "plenty", 5, 10)
	scarce := f.createProduct(t, "scarce", 5, 1)

	_, err := srv.Place(ctx, user.ID, &usecase.PlaceOrderInput{
		ShippingAddressID: address.ID,
		PaymentMethodCode: "cash",
		Items: []usecase.OrderLineInput{
			{ProductID: plenty.ID, Quantity: 4},
			{ProductID: scarce.ID, Quantity: 2},
		},
	})
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)
	assert.Equal(t, 10, f.productStock(t, plenty.ID))
	assert.Empty(t, f.notifier.ofType(service.NotificationOrderPlaced))

	_, err = srv.Place(ctx, user.ID, &usecase.PlaceOrderInput{
		ShippingAddressID: address.ID,
		PaymentMethodCode: "bitcoin",
		Items:             []usecase.OrderLineInput{{ProductID: plenty.ID, Quantity: 1}},
	})
	assert.Error(t, err)

	_, err = srv.Place(ctx, user.ID, &usecase.PlaceOrderInput{
		ShippingAddressID: uuid.New(),
		PaymentMethodCode: "cash",
		Items:             []usecase.OrderLineInput{{ProductID: plenty.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domainerrors.ErrAddressNotFound)
}

func TestOrderService_CancelRestocks(t *testing.T) {
	f := newFixture(t)
	srv := newTestOrderService(f)
	ctx := context.Background()

	user := f.createUser(t, "cancel@example.com")
	product := f.createProduct(t, "banner", 40, 6)
	order := f.placeOrder(t, srv, user, product, 4)
	assert.Equal(t, 2, f.productStock(t, product.ID))

	_, err := srv.Cancel(ctx, uuid.New(), order.ID, "")
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)

	cancelled, err := srv.Cancel(ctx, user.ID, order.ID, " changed my mind ")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, "changed my mind", cancelled.CancelReason)
	assert.Equal(t, 6, f.productStock(t, product.ID))

	_, err = srv.Cancel(ctx, user.ID, order.ID, "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)
}

func TestOrderService_StatusAndShipment(t *testing.T) {
	f := newFixture(t)
	srv := newTestOrderService(f)
	ctx := context.Background()
	admin := uuid.New()

	user := f.createUser(t, "ship@example.com")
	order := f.placeOrder(t, srv, user, f.createProduct(t, "chair", 50, 3), 1)

	_, err := srv.CreateShipment(ctx, admin, order.ID, &usecase.ShipmentInput{Carrier: "GIG", TrackingNumber: "T1"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

	_, err = srv.UpdateStatus(ctx, admin, order.ID, entity.OrderStatusDelivered, "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

	_, err = srv.UpdateStatus(ctx, admin, order.ID, entity.OrderStatus("lost"), "")
	var verr *domainerrors.ValidationError
	assert.ErrorAs(t, err, &verr)

	processing, err := srv.UpdateStatus(ctx, admin, order.ID, entity.OrderStatusProcessing, "packing")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusProcessing, processing.Status)

	shipment, err := srv.CreateShipment(ctx, admin, order.ID, &usecase.ShipmentInput{Carrier: " GIG ", TrackingNumber: "T1"})
	require.NoError(t, err)
	assert.Equal(t, "GIG", shipment.Carrier)
	assert.NotNil(t, shipment.ShippedAt)

	_, err = srv.UpdateShipment(ctx, admin, shipment.ID, entity.ShipmentStatusDelivered)
	require.NoError(t, err)

	tracking, err := srv.PublicTrack(ctx, order.OrderNumber, "SHIP@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivered, tracking.Status)
	require.NotNil(t, tracking.Shipment)
	assert.Equal(t, "T1", tracking.Shipment.TrackingNumber)
	assert.Len(t, tracking.History, 4)

	_, err = srv.PublicTrack(ctx, order.OrderNumber, "someone@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)

	_, err = srv.Track(ctx, uuid.New(), order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)

	// processing, shipped and delivered each send an email and a push
	assert.Len(t, f.notifier.ofType(service.NotificationOrderStatus), 6)
}
