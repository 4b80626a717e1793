package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvents struct {
	usecase.EventUsecase
	buyer    uuid.UUID
	purchase *usecase.PurchaseTicketInput
	checkIn  error
}

func (f *fakeEvents) Purchase(_ context.Context, userID uuid.UUID, input *usecase.PurchaseTicketInput) (*usecase.TicketPurchaseOutput, error) {
	f.buyer = userID
	f.purchase = input

	return &usecase.TicketPurchaseOutput{
		Order:       &entity.TicketOrder{ID: uuid.New(), Quantity: input.Quantity, Reference: "TKT-1"},
		CheckoutURL: "https://pay.test/TXN-1",
	}, nil
}

func (f *fakeEvents) CheckIn(_ context.Context, payload string) (*entity.TicketOrder, error) {
	if f.checkIn != nil {
		return nil, f.checkIn
	}

	return &entity.TicketOrder{Status: entity.TicketOrderStatusUsed, Code: payload}, nil
}

func (f *fakeEvents) QRCode(_ context.Context, userID, orderID uuid.UUID) ([]byte, error) {
	if userID != f.buyer {
		return nil, domainerrors.ErrTicketOrderNotFound
	}

	return []byte("\x89PNG"), nil
}

func TestEventHandler_Purchase(t *testing.T) {
	events := &fakeEvents{}
	h := NewEventHandler(EventHandlerParams{EventUC: events})
	userID := uuid.New()
	ticketTypeID := uuid.New()

	e := newTestEcho()
	e.POST("/tickets", h.Purchase)
	e.POST("/me/tickets", h.Purchase, asUser(userID))

	rec, body := serve(t, e, jsonRequest(http.MethodPost, "/tickets", `{}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", body.Code)

	rec, body = serve(t, e, jsonRequest(http.MethodPost, "/me/tickets", `{"quantity":0}`))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body.Errors, "ticket_type_id")
	assert.Contains(t, body.Errors, "quantity")

	rec, _ = serve(t, e, jsonRequest(http.MethodPost, "/me/tickets", `{"quantity":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = serve(t, e, jsonRequest(http.MethodPost, "/me/tickets", `{"ticket_type_id":"`+ticketTypeID.String()+`","quantity":2}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, userID, events.buyer)
	assert.Equal(t, ticketTypeID, events.purchase.TicketTypeID)
	assert.Equal(t, 2, events.purchase.Quantity)

	var out usecase.TicketPurchaseOutput
	require.NoError(t, json.Unmarshal(body.Data, &out))
	assert.Equal(t, "https://pay.test/TXN-1", out.CheckoutURL)
	assert.Equal(t, "TKT-1", out.Order.Reference)
}

func TestEventHandler_CheckIn(t *testing.T) {
	events := &fakeEvents{}
	e := newTestEcho()
	e.POST("/admin/tickets/check-in", NewEventHandler(EventHandlerParams{EventUC: events}).CheckIn)

	rec, body := serve(t, e, jsonRequest(http.MethodPost, "/admin/tickets/check-in", `{}`))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body.Errors, "qr_payload")

	rec, body = serve(t, e, jsonRequest(http.MethodPost, "/admin/tickets/check-in", `{"qr_payload":"ABC"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ticket checked in", body.Message)

	events.checkIn = domainerrors.ErrTicketAlreadyUsed
	rec, body = serve(t, e, jsonRequest(http.MethodPost, "/admin/tickets/check-in", `{"qr_payload":"ABC"}`))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "TICKET_ALREADY_USED", body.Code)
}

func TestEventHandler_QRCode(t *testing.T) {
	buyer := uuid.New()
	events := &fakeEvents{buyer: buyer}
	h := NewEventHandler(EventHandlerParams{EventUC: events})

	e := newTestEcho()
	e.GET("/me/tickets/:id/qr", h.QRCode, asUser(buyer))
	e.GET("/other/tickets/:id/qr", h.QRCode, asUser(uuid.New()))

	rec, _ := serve(t, e, httptest.NewRequest(http.MethodGet, "/me/tickets/"+uuid.NewString()+"/qr", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec, _ = serve(t, e, httptest.NewRequest(http.MethodGet, "/me/tickets/not-a-uuid/qr", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = serve(t, e, httptest.NewRequest(http.MethodGet, "/other/tickets/"+uuid.NewString()+"/qr", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
