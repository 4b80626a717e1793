package repository

import (
	"context"
	"time"

	"ministry/internal/domain/entity"

	"github.com/google/uuid"
)

// EventFilter narrows the event list. UpcomingAfter keeps events that have not ended by that time.
type EventFilter struct {
	Status        entity.EventStatus
	Search        string
	UpcomingAfter *time.Time
	Pagination
}

// EventRepository manages events.
type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error

	// FindByID loads the event with its ticket types.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Event, error)
	List(ctx context.Context, filter EventFilter) (*Page[*entity.Event], error)
	Update(ctx context.Context, event *entity.Event) error

	// Delete removes the event and its ticket types.
	Delete(ctx context.Context, id uuid.UUID) error
}

// TicketTypeRepository manages ticket tiers. sold changes only through the guarded counters.
type TicketTypeRepository interface {
	Create(ctx context.Context, ticketType *entity.TicketType) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TicketType, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*entity.TicketType, error)

	// Update saves every field except sold.
	Update(ctx context.Context, ticketType *entity.TicketType) error
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementSold adds qty only while sold + qty <= quantity and
	// returns domainerrors.ErrTicketsUnavailable otherwise.
	IncrementSold(ctx context.Context, id uuid.UUID, qty int) error

	// DecrementSold subtracts qty only while sold >= qty.
	DecrementSold(ctx context.Context, id uuid.UUID, qty int) error

	SumSoldByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
	TotalSold(ctx context.Context) (int64, error)
}

// TicketOrderFilter narrows ticket order lists.
type TicketOrderFilter struct {
	UserID  *uuid.UUID
	EventID *uuid.UUID
	Status  entity.TicketOrderStatus
	Pagination
}

// TicketOrderRepository manages ticket purchases.
type TicketOrderRepository interface {
	Create(ctx context.Context, order *entity.TicketOrder) error

	// FindByID loads the ticket type and event.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TicketOrder, error)

	// FindByReference matches either the order reference or its payment reference.
	FindByReference(ctx context.Context, reference string) (*entity.TicketOrder, error)
	List(ctx context.Context, filter TicketOrderFilter) (*Page[*entity.TicketOrder], error)

	// TransitionStatus applies the changes on order while the row is still in from and
	// returns domainerrors.ErrInvalidStatusTransition otherwise.
	TransitionStatus(ctx context.Context, order *entity.TicketOrder, from entity.TicketOrderStatus) error
}
