package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrders struct {
	usecase.OrderUsecase
	buyer  uuid.UUID
	placed *usecase.PlaceOrderInput
	listed repository.Pagination
	orders map[uuid.UUID]*entity.Order
}

func (f *fakeOrders) Place(_ context.Context, userID uuid.UUID, input *usecase.PlaceOrderInput) (*entity.Order, error) {
	f.buyer = userID
	f.placed = input

	return &entity.Order{
		ID:          uuid.New(),
		UserID:      userID,
		OrderNumber: "ORD-1",
		Status:      entity.OrderStatusPending,
		Total:       decimal.NewFromInt(45),
	}, nil
}

func (f *fakeOrders) List(_ context.Context, userID uuid.UUID, p repository.Pagination) (*repository.Page[*entity.Order], error) {
	f.listed = p
	var items []*entity.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			items = append(items, o)
		}
	}

	return repository.NewPage(items, int64(len(items)), p), nil
}

func (f *fakeOrders) Cancel(_ context.Context, userID, orderID uuid.UUID, _ string) (*entity.Order, error) {
	o, ok := f.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, domainerrors.ErrOrderNotFound
	}
	if o.Status != entity.OrderStatusPending {
		return nil, domainerrors.ErrInvalidStatusTransition.WithDetails("only pending orders can be cancelled")
	}
	o.Status = entity.OrderStatusCancelled

	return o, nil
}

func TestOrderHandler_Place(t *testing.T) {
	orders := &fakeOrders{}
	h := NewOrderHandler(OrderHandlerParams{OrderUC: orders})
	userID := uuid.New()
	addressID := uuid.New()
	productID := uuid.New()

	e := newTestEcho()
	e.POST("/orders", h.Place)
	e.POST("/me/orders", h.Place, asUser(userID))

	rec, body := serve(t, e, jsonRequest(http.MethodPost, "/orders", `{}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", body.Code)

	rec, body = serve(t, e, jsonRequest(http.MethodPost, "/me/orders", `{"items":[{"quantity":0}]}`))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body.Errors, "shipping_address_id")
	assert.Contains(t, body.Errors, "payment_method")
	assert.Nil(t, orders.placed)

	rec, body = serve(t, e, jsonRequest(http.MethodPost, "/me/orders", `{
		"shipping_address_id":"`+addressID.String()+`",
		"payment_method":"card",
		"notes":"leave at the door",
		"items":[{"product_id":"`+productID.String()+`","quantity":3}]
	}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Order placed", body.Message)
	assert.Equal(t, userID, orders.buyer)
	assert.Equal(t, addressID, orders.placed.ShippingAddressID)
	assert.Equal(t, "card", orders.placed.PaymentMethodCode)
	require.Len(t, orders.placed.Items, 1)
	assert.Equal(t, productID, orders.placed.Items[0].ProductID)
	assert.Equal(t, 3, orders.placed.Items[0].Quantity)

	var order entity.Order
	require.NoError(t, json.Unmarshal(body.Data, &order))
	assert.Equal(t, "ORD-1", order.OrderNumber)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
}

func TestOrderHandler_ListAndCancel(t *testing.T) {
	userID := uuid.New()
	pending := &entity.Order{ID: uuid.New(), UserID: userID, Status: entity.OrderStatusPending}
	shipped := &entity.Order{ID: uuid.New(), UserID: userID, Status: entity.OrderStatusShipped}
	foreign := &entity.Order{ID: uuid.New(), UserID: uuid.New(), Status: entity.OrderStatusPending}
	orders := &fakeOrders{orders: map[uuid.UUID]*entity.Order{
		pending.ID: pending,
		shipped.ID: shipped,
		foreign.ID: foreign,
	}}
	h := NewOrderHandler(OrderHandlerParams{OrderUC: orders})

	e := newTestEcho()
	e.GET("/orders", h.List, asUser(userID))
	e.POST("/orders/:id/cancel", h.Cancel, asUser(userID))

	rec, body := serve(t, e, httptest.NewRequest(http.MethodGet, "/orders?page=1&per_page=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, repository.Pagination{Page: 1, PerPage: 10}, orders.listed)
	require.NotNil(t, body.Meta.Total)
	assert.EqualValues(t, 2, *body.Meta.Total)

	rec, body = serve(t, e, httptest.NewRequest(http.MethodGet, "/orders?page=two", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body.Errors, "page")

	tests := []struct {
		name     string
		orderID  string
		wantCode int
		wantErr  string
	}{
		{name: "pending", orderID: pending.ID.String(), wantCode: http.StatusOK},
		{name: "already shipped", orderID: shipped.ID.String(), wantCode: http.StatusConflict, wantErr: "INVALID_STATUS_TRANSITION"},
		{name: "another buyer", orderID: foreign.ID.String(), wantCode: http.StatusNotFound, wantErr: "ORDER_NOT_FOUND"},
		{name: "malformed id", orderID: "42", wantCode: http.StatusNotFound, wantErr: "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serve(t, e, jsonRequest(http.MethodPost, "/orders/"+tt.orderID+"/cancel", `{"reason":"changed my mind"}`))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, body.Code)
		})
	}

	assert.Equal(t, entity.OrderStatusCancelled, pending.Status)
	assert.Equal(t, entity.OrderStatusShipped, shipped.Status)
	assert.Equal(t, entity.OrderStatusPending, foreign.Status)
}
