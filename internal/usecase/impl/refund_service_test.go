package impl

import (
	"context"
	"errors"
	"testing"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"
	"ministry/internal/infra/persistence/postgres"
	mockService "ministry/internal/mocks/service"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRefundService(f *fixture) usecase.RefundUsecase {
	return newTestRefundServiceWith(f, f.gateway)
}

func newTestRefundServiceWith(f *fixture, gateway service.PaymentGateway) usecase.RefundUsecase {
	return NewRefundService(RefundServiceParams{
		TxManager:  f.tx,
		RefundRepo: postgres.NewRefundRepository(f.db),
		OrderRepo:  f.orders,
		Gateway:    gateway,
		Logger:     f.logger,
	})
}

// paidOrder places and pays for two units of a 30.00 product; the total is 73.00.
func (f *fixture) paidOrder(t *testing.T, user *entity.User, product *entity.Product) *entity.Order {
	t.Helper()

	h := newPaymentHarness(f)
	order := f.placeOrder(t, h.orders, user, product, 2)
	paid, err := h.srv.Confirm(context.Background(), user.ID, order.ID, order.Transaction.Reference)
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(73).Equal(paid.Total), paid.Total.String())

	return paid
}

func TestRefundService_RequestLimits(t *testing.T) {
	f := newFixture(t)
	srv := newTestRefundService(f)
	ctx := context.Background()

	user := f.createUser(t, "refund@example.com")
	product := f.createProduct(t, "robe", 30, 5)

	unpaid := f.placeOrder(t, newTestOrderService(f), user, product, 1)
	_, err := srv.Request(ctx, user.ID, &usecase.RequestRefundInput{OrderID: unpaid.ID, Amount: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domainerrors.ErrRefundNotAllowed)

	order := f.paidOrder(t, user, product)
	item := order.Items[0]

	_, err = srv.Request(ctx, user.ID, &usecase.RequestRefundInput{OrderID: order.ID, Amount: decimal.Zero})
	var verr *domainerrors.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = srv.Request(ctx, uuid.New(), &usecase.RequestRefundInput{OrderID: order.ID, Amount: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)

	_, err = srv.Request(ctx, user.ID, &usecase.RequestRefundInput{OrderID: order.ID, Amount: decimal.NewFromInt(74)})
	assert.ErrorIs(t, err, domainerrors.ErrRefundExceedsAmount)

	_, err = srv.Request(ctx, user.ID, &usecase.RequestRefundInput{
		OrderID: order.ID,
		Amount:  decimal.NewFromInt(10),
		Items:   []usecase.RefundItemInput{{OrderItemID: item.ID, Quantity: 2}, {OrderItemID: item.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domainerrors.ErrRefundItemExceeds)

	first, err := srv.Request(ctx, user.ID, &usecase.RequestRefundInput{OrderID: order.ID, Amount: decimal.NewFromInt(50), Reason: " torn "})
	require.NoError(t, err)
	assert.Equal(t, entity.RefundStatusPending, first.Status)
	assert.Equal(t, "torn", first.Reason)
	assert.Regexp(t, `^RFD-`, first.Reference)

	// pending refunds count against the remaining amount
	_, err = srv.Request(ctx, user.ID, &usecase.RequestRefundInput{OrderID: order.ID, Amount: decimal.NewFromInt(30)})
	assert.ErrorIs(t, err, domainerrors.ErrRefundExceedsAmount)

	_, err = srv.Process(ctx, first.ID, &usecase.ProcessRefundInput{Approve: false, Note: "not eligible"})
	require.NoError(t, err)

	_, err = srv.Request(ctx, user.ID, &usecase.RequestRefundInput{OrderID: order.ID, Amount: decimal.NewFromInt(30)})
	assert.NoError(t, err)

	_, err = srv.Get(ctx, uuid.New(), first.ID)
	assert.ErrorIs(t, err, domainerrors.ErrRefundNotFound)
}

func TestRefundService_ApprovePartialThenFull(t *testing.T) {
	f := newFixture(t)
	srv := newTestRefundService(f)
	orders := newTestOrderService(f)
	ctx := context.Background()
	admin := uuid.New()

	user := f.createUser(t, "partial@example.com")
	product := f.createProduct(t, "stole", 30, 5)
	order := f.paidOrder(t, user, product)
	assert.Equal(t, 3, f.productStock(t, product.ID))

	for _, status := range []entity.OrderStatus{entity.OrderStatusShipped, entity.OrderStatusDelivered} {
		_, err := orders.UpdateStatus(ctx, admin, order.ID, status, "")
		require.NoError(t, err)
	}

	partial, err := srv.Request(ctx, user.ID, &usecase.RequestRefundInput{
		OrderID: order.ID,
		Amount:  decimal.NewFromInt(30),
		Items:   []usecase.RefundItemInput{{OrderItemID: order.Items[0].ID, Quantity: 1}},
		Restock: true,
	})
	require.NoError(t, err)

	processed, err := srv.Process(ctx, partial.ID, &usecase.ProcessRefundInput{Approve: true, Note: "ok"})
	require.NoError(t, err)
	assert.Equal(t, entity.RefundStatusRefunded, processed.Status)
	assert.NotEmpty(t, processed.GatewayRefundID)
	assert.NotNil(t, processed.ProcessedAt)
	assert.Equal(t, 4, f.productStock(t, product.ID))

	after, err := f.orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPartiallyRefunded, after.PaymentStatus)
	assert.Equal(t, entity.OrderStatusDelivered, after.Status)
	assert.Equal(t, entity.TransactionStatusPartiallyRefunded, after.Transaction.Status)
	assert.True(t, decimal.NewFromInt(30).Equal(after.Transaction.RefundedAmount))
	assert.Equal(t, 1, after.Items[0].RefundedQuantity)

	_, err = srv.Process(ctx, partial.ID, &usecase.ProcessRefundInput{Approve: true})
	assert.ErrorIs(t, err, domainerrors.ErrRefundAlreadyProcessed)

	rest, err := srv.Request(ctx, user.ID, &usecase.RequestRefundInput{OrderID: order.ID, Amount: decimal.NewFromInt(43)})
	require.NoError(t, err)
	_, err = srv.Process(ctx, rest.ID, &usecase.ProcessRefundInput{Approve: true})
	require.NoError(t, err)

	refunded, err := f.orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusRefunded, refunded.PaymentStatus)
	assert.Equal(t, entity.OrderStatusRefunded, refunded.Status)
	assert.Equal(t, entity.TransactionStatusRefunded, refunded.Transaction.Status)
	assert.Len(t, f.gateway.refunds, 2)
}

func TestRefundService_GatewayFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	gateway := mockService.NewMockPaymentGateway(t)
	srv := newTestRefundServiceWith(f, gateway)
	ctx := context.Background()

	user := f.createUser(t, "rollback@example.com")
	product := f.createProduct(t, "candle", 30, 5)
	order := f.paidOrder(t, user, product)

	refund, err := srv.Request(ctx, user.ID, &usecase.RequestRefundInput{
		OrderID: order.ID,
		Amount:  decimal.NewFromInt(30),
		Items:   []usecase.RefundItemInput{{OrderItemID: order.Items[0].ID, Quantity: 1}},
		Restock: true,
	})
	require.NoError(t, err)

	gateway.EXPECT().
		Refund(mock.Anything, order.Transaction.Reference, mock.MatchedBy(func(amount decimal.Decimal) bool {
			return amount.Equal(decimal.NewFromInt(30))
		})).
		Return(nil, errors.New("gateway unavailable")).
		Once()
	_, err = srv.Process(ctx, refund.ID, &usecase.ProcessRefundInput{Approve: true})
	require.Error(t, err)

	stored, err := srv.AdminGet(ctx, refund.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RefundStatusPending, stored.Status)
	assert.Equal(t, 3, f.productStock(t, product.ID))

	after, err := f.orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, after.Transaction.RefundedAmount.IsZero())
	assert.Zero(t, after.Items[0].RefundedQuantity)
	assert.Equal(t, entity.PaymentStatusPaid, after.PaymentStatus)
}
