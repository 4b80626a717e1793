package postgres

import (
	"context"
	"testing"
	"time"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestEvent(t *testing.T, repo repository.EventRepository, slug string, startsAt time.Time) *entity.Event {
	t.Helper()

	event := &entity.Event{
		Title:    "Revival " + slug,
		Slug:     slug,
		Venue:    "Main Auditorium",
		StartsAt: startsAt,
		EndsAt:   startsAt.Add(3 * time.Hour),
		Status:   entity.EventStatusPublished,
	}
	require.NoError(t, repo.Create(context.Background(), event))

	return event
}

func TestTicketTypeRepository_SoldCounterIsGuarded(t *testing.T) {
	db := testutil.NewDB(t)
	events := NewEventRepository(db)
	repo := NewTicketTypeRepository(db)
	ctx := context.Background()

	event := createTestEvent(t, events, "night-of-worship", time.Now().UTC().Add(48*time.Hour))
	ticketType := &entity.TicketType{EventID: event.ID, Name: "Regular", Price: decimal.NewFromInt(10), Quantity: 5, IsActive: true}
	require.NoError(t, repo.Create(ctx, ticketType))

	require.NoError(t, repo.IncrementSold(ctx, ticketType.ID, 3))
	assert.ErrorIs(t, repo.IncrementSold(ctx, ticketType.ID, 3), domainerrors.ErrTicketsUnavailable)
	require.NoError(t, repo.IncrementSold(ctx, ticketType.ID, 2))

	require.NoError(t, repo.DecrementSold(ctx, ticketType.ID, 1))

	found, err := repo.FindByID(ctx, ticketType.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, found.Sold)
	assert.Equal(t, 1, found.Available())

	sold, err := repo.SumSoldByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), sold)
}

func TestTicketTypeRepository_UpdateKeepsSold(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTicketTypeRepository(db)
	ctx := context.Background()

	event := createTestEvent(t, NewEventRepository(db), "youth-camp", time.Now().UTC().Add(24*time.Hour))
	ticketType := &entity.TicketType{EventID: event.ID, Name: "VIP", Price: decimal.NewFromInt(50), Quantity: 10, IsActive: true}
	require.NoError(t, repo.Create(ctx, ticketType))
	require.NoError(t, repo.IncrementSold(ctx, ticketType.ID, 2))

	ticketType.Name = "VIP Front Row"
	ticketType.Sold = 0
	require.NoError(t, repo.Update(ctx, ticketType))

	found, err := repo.FindByID(ctx, ticketType.ID)
	require.NoError(t, err)
	assert.Equal(t, "VIP Front Row", found.Name)
	assert.Equal(t, 2, found.Sold)
}

func TestEventRepository_ListUpcoming(t *testing.T) {
	repo := NewEventRepository(testutil.NewDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	createTestEvent(t, repo, "past", now.Add(-72*time.Hour))
	later := createTestEvent(t, repo, "later", now.Add(72*time.Hour))
	sooner := createTestEvent(t, repo, "sooner", now.Add(24*time.Hour))

	page, err := repo.List(ctx, repository.EventFilter{UpcomingAfter: &now})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, sooner.ID, page.Items[0].ID)
	assert.Equal(t, later.ID, page.Items[1].ID)

	_, err = repo.FindBySlug(ctx, "missing")
	assert.ErrorIs(t, err, domainerrors.ErrEventNotFound)
}

func TestTicketOrderRepository_TransitionStatus(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTicketOrderRepository(db)
	ctx := context.Background()

	event := createTestEvent(t, NewEventRepository(db), "conference", time.Now().UTC().Add(24*time.Hour))
	ticketType := &entity.TicketType{EventID: event.ID, Name: "Regular", Price: decimal.NewFromInt(10), Quantity: 5, IsActive: true}
	require.NoError(t, NewTicketTypeRepository(db).Create(ctx, ticketType))

	order := &entity.TicketOrder{
		UserID:           uuid.New(),
		EventID:          event.ID,
		TicketTypeID:     ticketType.ID,
		Reference:        "TKT-1",
		PaymentReference: "PAY-TKT-1",
		Quantity:         2,
		UnitPrice:        decimal.NewFromInt(10),
		Total:            decimal.NewFromInt(20),
		Status:           entity.TicketOrderStatusPending,
	}
	require.NoError(t, repo.Create(ctx, order))

	paidAt := time.Now().UTC()
	order.Status = entity.TicketOrderStatusPaid
	order.Code = "CODE-1"
	order.PaidAt = &paidAt
	require.NoError(t, repo.TransitionStatus(ctx, order, entity.TicketOrderStatusPending))

	order.Status = entity.TicketOrderStatusCancelled
	err := repo.TransitionStatus(ctx, order, entity.TicketOrderStatusPending)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

	found, err := repo.FindByReference(ctx, "PAY-TKT-1")
	require.NoError(t, err)
	assert.Equal(t, entity.TicketOrderStatusPaid, found.Status)
	assert.Equal(t, "CODE-1", found.Code)
	require.NotNil(t, found.TicketType)
	assert.Equal(t, "Regular", found.TicketType.Name)
	require.NotNil(t, found.Event)
	assert.Equal(t, "conference", found.Event.Slug)
}

func TestTicketTypeRepository_UpdateRejectsQuantityBelowSold(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTicketTypeRepository(db)
	ctx := context.Background()

	event := createTestEvent(t, NewEventRepository(db), "harvest-service", time.Now().UTC().Add(24*time.Hour))
	ticketType := &entity.TicketType{EventID: event.ID, Name: "Regular", Price: decimal.NewFromInt(10), Quantity: 10, IsActive: true}
	require.NoError(t, repo.Create(ctx, ticketType))

	// a stale copy read before the sales landed
	stale, err := repo.FindByID(ctx, ticketType.ID)
	require.NoError(t, err)
	require.NoError(t, repo.IncrementSold(ctx, ticketType.ID, 6))

	stale.Quantity = 5
	stale.Name = "Regular (reduced)"
	assert.ErrorIs(t, repo.Update(ctx, stale), domainerrors.ErrTicketQuantityBelowSold)

	found, err := repo.FindByID(ctx, ticketType.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, found.Quantity)
	assert.Equal(t, "Regular", found.Name)
	assert.Equal(t, 6, found.Sold)

	stale.Quantity = 6
	require.NoError(t, repo.Update(ctx, stale))
	found, err = repo.FindByID(ctx, ticketType.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.Available())

	missing := &entity.TicketType{ID: uuid.New(), EventID: event.ID, Name: "Ghost", Quantity: 1}
	assert.ErrorIs(t, repo.Update(ctx, missing), domainerrors.ErrTicketTypeNotFound)
}
