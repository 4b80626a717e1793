package impl

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"
	"ministry/internal/infra/persistence/postgres"
	"ministry/internal/infra/qrcode"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEventService(f *fixture) *eventService {
	return NewEventService(EventServiceParams{
		TxManager:       f.tx,
		EventRepo:       postgres.NewEventRepository(f.db),
		TicketTypeRepo:  postgres.NewTicketTypeRepository(f.db),
		TicketOrderRepo: postgres.NewTicketOrderRepository(f.db),
		UserRepo:        f.users,
		Gateway:         f.gateway,
		QRCode:          qrcode.NewQRCodeService(f.cfg),
		Notifier:        f.notifier,
		Storage:         f.storage,
		ImageProcessor:  passthroughImages{},
		Config:          f.cfg,
		Logger:          f.logger,
	}).(*eventService)
}

// openEvent creates a published event with one active ticket type of quantity tickets.
func openEvent(t *testing.T, srv *eventService, slug string, quantity int) (*entity.Event, *entity.TicketType) {
	t.Helper()
	ctx := context.Background()

	event, err := srv.CreateEvent(ctx, &usecase.EventInput{
		Title:    "Event " + slug,
		Slug:     slug,
		Venue:    "Main Hall",
		StartsAt: time.Now().Add(24 * time.Hour),
		EndsAt:   time.Now().Add(27 * time.Hour),
		Status:   entity.EventStatusPublished,
	})
	require.NoError(t, err)

	ticketType, err := srv.CreateTicketType(ctx, event.ID, &usecase.TicketTypeInput{
		Name:     "Regular",
		Price:    decimal.NewFromInt(15),
		Quantity: quantity,
		IsActive: true,
	})
	require.NoError(t, err)

	return event, ticketType
}

func ticketQR(t *testing.T, orderID uuid.UUID, code string) string {
	t.Helper()

	data, err := json.Marshal(service.TicketQRPayload{TicketOrderID: orderID, Code: code, Type: qrcode.TicketQRType})
	require.NoError(t, err)

	return string(data)
}

func TestEventService_PurchaseConfirmCheckIn(t *testing.T) {
	f := newFixture(t)
	srv := newTestEventService(f)
	ctx := context.Background()

	user := f.createUser(t, "attendee@example.com")
	_, ticketType := openEvent(t, srv, "harvest", 5)

	out, err := srv.Purchase(ctx, user.ID, &usecase.PurchaseTicketInput{TicketTypeID: ticketType.ID, Quantity: 3})
	require.NoError(t, err)
	order := out.Order
	assert.Equal(t, entity.TicketOrderStatusPending, order.Status)
	assert.Regexp(t, `^TKT-`, order.Reference)
	assert.Regexp(t, `^TXN-`, order.PaymentReference)
	assert.True(t, decimal.NewFromInt(45).Equal(order.Total))
	assert.Equal(t, "https://pay.test/"+order.PaymentReference, out.CheckoutURL)

	_, err = srv.QRCode(ctx, user.ID, order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrTicketNotPaid)

	_, err = srv.ConfirmPayment(ctx, &uuid.Nil, &usecase.ConfirmTicketInput{TicketOrderID: &order.ID})
	assert.ErrorIs(t, err, domainerrors.ErrTicketOrderNotFound)

	paid, err := srv.ConfirmPayment(ctx, &user.ID, &usecase.ConfirmTicketInput{TicketOrderID: &order.ID, Reference: order.PaymentReference})
	require.NoError(t, err)
	assert.Equal(t, entity.TicketOrderStatusPaid, paid.Status)
	assert.Len(t, paid.Code, 10)
	assert.NotNil(t, paid.PaidAt)
	require.Len(t, f.notifier.ofType(service.NotificationTicketConfirmed), 1)
	assert.Equal(t, paid.Code, f.notifier.ofType(service.NotificationTicketConfirmed)[0].Data["code"])

	// confirming again changes nothing
	again, err := srv.ConfirmPayment(ctx, nil, &usecase.ConfirmTicketInput{Reference: order.Reference})
	require.NoError(t, err)
	assert.Equal(t, paid.Code, again.Code)
	assert.Equal(t, 3, again.TicketType.Sold)

	png, err := srv.QRCode(ctx, user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])

	_, err = srv.CheckIn(ctx, "not json")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTicketQR)
	_, err = srv.CheckIn(ctx, ticketQR(t, order.ID, "WRONGCODE1"))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTicketQR)
	_, err = srv.CheckIn(ctx, ticketQR(t, uuid.New(), paid.Code))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTicketQR)

	used, err := srv.CheckIn(ctx, ticketQR(t, order.ID, paid.Code))
	require.NoError(t, err)
	assert.Equal(t, entity.TicketOrderStatusUsed, used.Status)
	assert.NotNil(t, used.CheckedInAt)

	_, err = srv.CheckIn(ctx, ticketQR(t, order.ID, paid.Code))
	assert.ErrorIs(t, err, domainerrors.ErrTicketAlreadyUsed)

	_, err = srv.Cancel(ctx, user.ID, order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)
}

func TestEventService_PurchaseLimits(t *testing.T) {
	f := newFixture(t)
	srv := newTestEventService(f)
	ctx := context.Background()

	user := f.createUser(t, "limits@example.com")
	event, ticketType := openEvent(t, srv, "conference", 2)

	_, err := srv.Purchase(ctx, user.ID, &usecase.PurchaseTicketInput{TicketTypeID: ticketType.ID, Quantity: 0})
	var verr *domainerrors.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = srv.Purchase(ctx, user.ID, &usecase.PurchaseTicketInput{TicketTypeID: ticketType.ID, Quantity: 5})
	assert.ErrorIs(t, err, domainerrors.ErrTicketLimitExceeded)

	_, err = srv.Purchase(ctx, user.ID, &usecase.PurchaseTicketInput{TicketTypeID: ticketType.ID, Quantity: 3})
	assert.ErrorIs(t, err, domainerrors.ErrTicketsUnavailable)

	_, err = srv.UpdateEvent(ctx, event.ID, &usecase.EventInput{
		Title:    event.Title,
		Slug:     event.Slug,
		StartsAt: event.StartsAt,
		EndsAt:   event.EndsAt,
		Status:   entity.EventStatusDraft,
	})
	require.NoError(t, err)
	_, err = srv.Purchase(ctx, user.ID, &usecase.PurchaseTicketInput{TicketTypeID: ticketType.ID, Quantity: 1})
	assert.ErrorIs(t, err, domainerrors.ErrTicketsUnavailable)

	_, err = srv.GetEventBySlug(ctx, "conference")
	assert.ErrorIs(t, err, domainerrors.ErrEventNotFound)

	_, err = srv.CreateEvent(ctx, &usecase.EventInput{Title: "No date"})
	assert.ErrorAs(t, err, &verr)
}

func TestEventService_CancelReleasesTickets(t *testing.T) {
	f := newFixture(t)
	srv := newTestEventService(f)
	ctx := context.Background()

	user := f.createUser(t, "cancel-ticket@example.com")
	event, ticketType := openEvent(t, srv, "retreat", 4)

	out, err := srv.Purchase(ctx, user.ID, &usecase.PurchaseTicketInput{TicketTypeID: ticketType.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = srv.ConfirmPayment(ctx, &user.ID, &usecase.ConfirmTicketInput{TicketOrderID: &out.Order.ID})
	require.NoError(t, err)

	_, err = srv.UpdateTicketType(ctx, ticketType.ID, &usecase.TicketTypeInput{Name: "Regular", Price: decimal.NewFromInt(15), Quantity: 1, IsActive: true})
	assert.ErrorIs(t, err, domainerrors.ErrTicketQuantityBelowSold)
	assert.ErrorIs(t, srv.DeleteTicketType(ctx, ticketType.ID), domainerrors.ErrTicketTypeHasSales)
	assert.ErrorIs(t, srv.DeleteEvent(ctx, event.ID), domainerrors.ErrEventHasSales)

	_, err = srv.Cancel(ctx, uuid.New(), out.Order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrTicketOrderNotFound)

	cancelled, err := srv.Cancel(ctx, user.ID, out.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TicketOrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 0, cancelled.TicketType.Sold)

	_, err = srv.ConfirmPayment(ctx, &user.ID, &usecase.ConfirmTicketInput{TicketOrderID: &out.Order.ID})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

	// an unpaid order gives nothing back
	pending, err := srv.Purchase(ctx, user.ID, &usecase.PurchaseTicketInput{TicketTypeID: ticketType.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = srv.Cancel(ctx, user.ID, pending.Order.ID)
	require.NoError(t, err)

	require.NoError(t, srv.DeleteEvent(ctx, event.ID))
	_, err = srv.GetEvent(ctx, event.ID)
	assert.ErrorIs(t, err, domainerrors.ErrEventNotFound)
}

func TestEventService_ConfirmRequiresVerifiedPayment(t *testing.T) {
	f := newFixture(t)
	srv := newTestEventService(f)
	ctx := context.Background()

	user := f.createUser(t, "unpaid@example.com")
	_, ticketType := openEvent(t, srv, "concert", 3)
	out, err := srv.Purchase(ctx, user.ID, &usecase.PurchaseTicketInput{TicketTypeID: ticketType.ID, Quantity: 1})
	require.NoError(t, err)

	f.gateway.paid = false
	_, err = srv.ConfirmPayment(ctx, &user.ID, &usecase.ConfirmTicketInput{TicketOrderID: &out.Order.ID})
	assert.ErrorIs(t, err, domainerrors.ErrPaymentNotVerified)

	_, err = srv.ConfirmPayment(ctx, &user.ID, &usecase.ConfirmTicketInput{TicketOrderID: &out.Order.ID, Reference: "TXN-OTHER"})
	assert.ErrorIs(t, err, domainerrors.ErrTicketOrderNotFound)
}
