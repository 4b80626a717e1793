package usecase

import (
	"context"
	"time"

	"ministry/internal/domain/entity"
	"ministry/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventInput struct {
	Title       string
	Slug        string
	Description string
	Venue       string
	StartsAt    time.Time
	EndsAt      time.Time
	Status      entity.EventStatus
}

type TicketTypeInput struct {
	Name         string
	Price        decimal.Decimal
	Quantity     int
	SaleStartsAt *time.Time
	SaleEndsAt   *time.Time
	IsActive     bool
}

type PurchaseTicketInput struct {
	TicketTypeID uuid.UUID
	Quantity     int
}

// ConfirmTicketInput identifies the ticket order by ID or by its reference.
type ConfirmTicketInput struct {
	TicketOrderID *uuid.UUID
	Reference     string
}

// TicketPurchaseOutput is a pending ticket order with its checkout handle.
type TicketPurchaseOutput struct {
	Order       *entity.TicketOrder `json:"order"`
	CheckoutURL string              `json:"checkout_url,omitempty"`
}

// EventUsecase manages events, ticket tiers and ticket orders.
type EventUsecase interface {
	ListEvents(ctx context.Context, filter repository.EventFilter) (*repository.Page[*entity.Event], error)
	GetEvent(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*entity.Event, error)
	CreateEvent(ctx context.Context, input *EventInput) (*entity.Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, input *EventInput) (*entity.Event, error)
	UploadEventImage(ctx context.Context, id uuid.UUID, file Upload) (*entity.Event, error)

	// DeleteEvent refuses events with sold tickets.
	DeleteEvent(ctx context.Context, id uuid.UUID) error

	CreateTicketType(ctx context.Context, eventID uuid.UUID, input *TicketTypeInput) (*entity.TicketType, error)
	UpdateTicketType(ctx context.Context, id uuid.UUID, input *TicketTypeInput) (*entity.TicketType, error)
	DeleteTicketType(ctx context.Context, id uuid.UUID) error

	// Purchase creates a pending order without touching sold.
	Purchase(ctx context.Context, userID uuid.UUID, input *PurchaseTicketInput) (*TicketPurchaseOutput, error)

	// ConfirmPayment verifies with the gateway and claims the tickets. A nil userID skips the ownership check.
	ConfirmPayment(ctx context.Context, userID *uuid.UUID, input *ConfirmTicketInput) (*entity.TicketOrder, error)
	Cancel(ctx context.Context, userID, ticketOrderID uuid.UUID) (*entity.TicketOrder, error)
	ListMyOrders(ctx context.Context, userID uuid.UUID, p repository.Pagination) (*repository.Page[*entity.TicketOrder], error)
	GetMyOrder(ctx context.Context, userID, ticketOrderID uuid.UUID) (*entity.TicketOrder, error)

	// QRCode renders the ticket PNG of a paid order.
	QRCode(ctx context.Context, userID, ticketOrderID uuid.UUID) ([]byte, error)

	// CheckIn consumes the ticket encoded in a scanned QR payload.
	CheckIn(ctx context.Context, qrPayload string) (*entity.TicketOrder, error)
	ListOrders(ctx context.Context, filter repository.TicketOrderFilter) (*repository.Page[*entity.TicketOrder], error)
}
