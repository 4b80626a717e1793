package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
)

type Event struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Venue       string        `json:"venue"`
	StartsAt    time.Time     `json:"starts_at"`
	EndsAt      time.Time     `json:"ends_at"`
	Image       string        `json:"image"`
	Status      EventStatus   `json:"status"`
	TicketTypes []*TicketType `json:"ticket_types,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// HasEnded reports whether the event finished before now.
func (e *Event) HasEnded(now time.Time) bool {
	return !e.EndsAt.IsZero() && now.After(e.EndsAt)
}

// TicketType is a priced tier of an event. Sold grows only at payment confirmation.
type TicketType struct {
	ID           uuid.UUID       `json:"id"`
	EventID      uuid.UUID       `json:"event_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Sold         int             `json:"sold"`
	SaleStartsAt *time.Time      `json:"sale_starts_at,omitempty"`
	SaleEndsAt   *time.Time      `json:"sale_ends_at,omitempty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Available is the number of tickets not yet sold.
func (t *TicketType) Available() int {
	return max(t.Quantity-t.Sold, 0)
}

// OnSale reports whether the type is active and inside its sale window at now.
func (t *TicketType) OnSale(now time.Time) bool {
	if !t.IsActive {
		return false
	}
	if t.SaleStartsAt != nil && now.Before(*t.SaleStartsAt) {
		return false
	}
	if t.SaleEndsAt != nil && now.After(*t.SaleEndsAt) {
		return false
	}

	return true
}

type TicketOrderStatus string

const (
	TicketOrderStatusPending   TicketOrderStatus = "pending"
	TicketOrderStatusPaid      TicketOrderStatus = "paid"
	TicketOrderStatusCancelled TicketOrderStatus = "cancelled"
	TicketOrderStatusUsed      TicketOrderStatus = "used"
)

type TicketOrder struct {
	ID               uuid.UUID         `json:"id"`
	UserID           uuid.UUID         `json:"user_id"`
	EventID          uuid.UUID         `json:"event_id"`
	TicketTypeID     uuid.UUID         `json:"ticket_type_id"`
	Reference        string            `json:"reference"`
	PaymentReference string            `json:"payment_reference"`
	Quantity         int               `json:"quantity"`
	UnitPrice        decimal.Decimal   `json:"unit_price"`
	Total            decimal.Decimal   `json:"total"`
	Status           TicketOrderStatus `json:"status"`
	Code             string            `json:"code,omitempty"`
	PaidAt           *time.Time        `json:"paid_at,omitempty"`
	CheckedInAt      *time.Time        `json:"checked_in_at,omitempty"`
	CancelledAt      *time.Time        `json:"cancelled_at,omitempty"`
	TicketType       *TicketType       `json:"ticket_type,omitempty"`
	Event            *Event            `json:"event,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}
