package postgres

import (
	"context"
	"testing"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(userID uuid.UUID, number string) *entity.Order {
	return &entity.Order{
		UserID:        userID,
		OrderNumber:   number,
		Status:        entity.OrderStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
		PaymentMethod: "stripe",
		Currency:      "USD",
		Subtotal:      decimal.NewFromInt(40),
		ShippingFee:   decimal.NewFromInt(5),
		Tax:           decimal.Zero,
		Total:         decimal.NewFromInt(45),
		ShippingAddress: &entity.AddressSnapshot{
			RecipientName: "Ada",
			Phone:         "+2348000000000",
			Line1:         "1 Chapel Road",
			City:          "Lagos",
		},
		Items: []*entity.OrderItem{{
			ProductID:   uuid.New(),
			ProductName: "Hymn Book",
			SKU:         "HB-1",
			UnitPrice:   decimal.NewFromInt(20),
			Quantity:    2,
			LineTotal:   decimal.NewFromInt(40),
		}},
	}
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	repo := NewOrderRepository(testutil.NewDB(t))
	ctx := context.Background()

	order := newTestOrder(uuid.New(), "ORD-0001")
	require.NoError(t, repo.Create(ctx, order))
	require.NotEqual(t, uuid.Nil, order.ID)
	require.NotEqual(t, uuid.Nil, order.Items[0].ID)

	found, err := repo.FindByNumber(ctx, "ORD-0001")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 2, found.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(45).Equal(found.Total))
	require.NotNil(t, found.ShippingAddress)
	assert.Equal(t, "Lagos", found.ShippingAddress.City)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestOrderRepository_TransitionStatusIsGuarded(t *testing.T) {
	repo := NewOrderRepository(testutil.NewDB(t))
	ctx := context.Background()

	order := newTestOrder(uuid.New(), "ORD-0002")
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, repo.TransitionStatus(ctx, order.ID, entity.OrderStatusPending, entity.OrderStatusCancelled, "changed my mind"))

	err := repo.TransitionStatus(ctx, order.ID, entity.OrderStatusPending, entity.OrderStatusProcessing, "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, found.Status)
	assert.Equal(t, "changed my mind", found.CancelReason)
}

func TestOrderRepository_AddRefundedQuantityStopsAtOrdered(t *testing.T) {
	repo := NewOrderRepository(testutil.NewDB(t))
	ctx := context.Background()

	order := newTestOrder(uuid.New(), "ORD-0003")
	require.NoError(t, repo.Create(ctx, order))
	itemID := order.Items[0].ID

	require.NoError(t, repo.AddRefundedQuantity(ctx, itemID, 1))
	require.NoError(t, repo.AddRefundedQuantity(ctx, itemID, 1))
	assert.ErrorIs(t, repo.AddRefundedQuantity(ctx, itemID, 1), domainerrors.ErrRefundItemExceeds)
}

func TestOrderRepository_ListFiltersAndCounts(t *testing.T) {
	repo := NewOrderRepository(testutil.NewDB(t))
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.Create(ctx, newTestOrder(userID, "ORD-0010")))
	require.NoError(t, repo.Create(ctx, newTestOrder(userID, "ORD-0011")))
	require.NoError(t, repo.Create(ctx, newTestOrder(uuid.New(), "ORD-0012")))

	page, err := repo.List(ctx, repository.OrderFilter{UserID: &userID, Pagination: repository.Pagination{Page: 1, PerPage: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.LastPage)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[string(entity.OrderStatusPending)])
}

func TestTransactionRepository_RefundsAndRevenue(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	txn := &entity.Transaction{
		OrderID:       uuid.New(),
		Reference:     "TXN-1",
		PaymentMethod: "stripe",
		Amount:        decimal.NewFromInt(100),
		Currency:      "USD",
		Status:        entity.TransactionStatusPaid,
	}
	require.NoError(t, repo.Create(ctx, txn))

	require.NoError(t, repo.AddRefunded(ctx, txn.ID, decimal.NewFromInt(60)))
	assert.ErrorIs(t, repo.AddRefunded(ctx, txn.ID, decimal.NewFromInt(41)), domainerrors.ErrRefundExceedsAmount)

	revenue, err := repo.Revenue(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(revenue), "revenue = %s", revenue)

	found, err := repo.FindByReference(ctx, "TXN-1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(60).Equal(found.RefundedAmount))
}

func TestRefundRepository_SumByTransaction(t *testing.T) {
	repo := NewRefundRepository(testutil.NewDB(t))
	ctx := context.Background()

	txnID := uuid.New()
	for i, status := range []entity.RefundStatus{entity.RefundStatusPending, entity.RefundStatusRefunded, entity.RefundStatusRejected} {
		require.NoError(t, repo.Create(ctx, &entity.Refund{
			OrderID:       uuid.New(),
			UserID:        uuid.New(),
			TransactionID: txnID,
			Reference:     "RF-" + string(rune('A'+i)),
			Amount:        decimal.NewFromInt(10),
			Status:        status,
		}))
	}

	total, err := repo.SumByTransaction(ctx, txnID, entity.RefundStatusPending, entity.RefundStatusRefunded)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20).Equal(total), "total = %s", total)

	none, err := repo.SumByTransaction(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, none.IsZero())
}
