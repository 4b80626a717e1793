package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventModel struct {
	Base
	Title       string    `gorm:"type:varchar(200);not null"`
	Slug        string    `gorm:"type:varchar(220);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	Venue       string    `gorm:"type:varchar(255)"`
	StartsAt    time.Time `gorm:"not null;index"`
	EndsAt      time.Time `gorm:"not null"`
	Image       string    `gorm:"type:varchar(255)"`
	Status      string    `gorm:"type:varchar(16);not null;index"`

	TicketTypes []TicketTypeModel `gorm:"foreignKey:EventID"`
}

// TableName explicitly sets the table name for GORM.
func (EventModel) TableName() string {
	return "events"
}

type TicketTypeModel struct {
	Base
	EventID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name         string          `gorm:"type:varchar(100);not null"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity     int             `gorm:"not null"`
	Sold         int             `gorm:"not null;default:0"`
	SaleStartsAt *time.Time
	SaleEndsAt   *time.Time
	IsActive     bool `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (TicketTypeModel) TableName() string {
	return "ticket_types"
}

type TicketOrderModel struct {
	Base
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	EventID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	TicketTypeID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Reference        string          `gorm:"type:varchar(40);uniqueIndex;not null"`
	PaymentReference string          `gorm:"type:varchar(40);uniqueIndex;not null"`
	Quantity         int             `gorm:"not null"`
	UnitPrice        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Total            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status           string          `gorm:"type:varchar(16);not null;index"`
	Code             string          `gorm:"type:varchar(64)"`
	PaidAt           *time.Time
	CheckedInAt      *time.Time
	CancelledAt      *time.Time

	TicketType *TicketTypeModel `gorm:"foreignKey:TicketTypeID"`
	Event      *EventModel      `gorm:"foreignKey:EventID"`
}

// TableName explicitly sets the table name for GORM.
func (TicketOrderModel) TableName() string {
	return "ticket_orders"
}
