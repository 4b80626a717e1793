package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderModel struct {
	Base
	UserID          uuid.UUID        `gorm:"type:uuid;not null;index"`
	OrderNumber     string           `gorm:"type:varchar(32);uniqueIndex;not null"`
	Status          string           `gorm:"type:varchar(16);not null;index"`
	PaymentStatus   string           `gorm:"type:varchar(24);not null"`
	PaymentMethod   string           `gorm:"type:varchar(32);not null"`
	Currency        string           `gorm:"type:char(3);not null"`
	CustomerName    string           `gorm:"type:varchar(100)"`
	CustomerEmail   string           `gorm:"type:varchar(255);index"`
	Subtotal        decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	ShippingFee     decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	Tax             decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	Total           decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	ShippingAddress *AddressSnapshot `gorm:"serializer:json;type:jsonb"`
	BillingAddress  *AddressSnapshot `gorm:"serializer:json;type:jsonb"`
	Notes           string           `gorm:"type:text"`
	CancelReason    string           `gorm:"type:text"`

	Items       []OrderItemModel          `gorm:"foreignKey:OrderID"`
	Transaction *TransactionModel         `gorm:"foreignKey:OrderID"`
	Shipment    *ShipmentModel            `gorm:"foreignKey:OrderID"`
	History     []OrderStatusHistoryModel `gorm:"foreignKey:OrderID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

type OrderItemModel struct {
	Base
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID        *uuid.UUID      `gorm:"type:uuid"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	VariantName      string          `gorm:"type:varchar(200)"`
	SKU              string          `gorm:"column:sku;type:varchar(64)"`
	UnitPrice        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity         int             `gorm:"not null"`
	LineTotal        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	RefundedQuantity int             `gorm:"not null;default:0"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}

type TransactionModel struct {
	Base
	OrderID          uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	Reference        string          `gorm:"type:varchar(40);uniqueIndex;not null"`
	GatewayReference string          `gorm:"type:varchar(128)"`
	PaymentMethod    string          `gorm:"type:varchar(32);not null"`
	Amount           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	RefundedAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Currency         string          `gorm:"type:char(3);not null"`
	Status           string          `gorm:"type:varchar(24);not null;index"`
	CheckoutURL      string          `gorm:"type:varchar(512)"`
	PaidAt           *time.Time
}

// TableName explicitly sets the table name for GORM.
func (TransactionModel) TableName() string {
	return "transactions"
}

type ShipmentModel struct {
	Base
	OrderID           uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Carrier           string    `gorm:"type:varchar(100);not null"`
	TrackingNumber    string    `gorm:"type:varchar(100);not null"`
	Status            string    `gorm:"type:varchar(16);not null"`
	EstimatedDelivery *time.Time
	ShippedAt         *time.Time
	DeliveredAt       *time.Time
}

// TableName explicitly sets the table name for GORM.
func (ShipmentModel) TableName() string {
	return "shipments"
}

type OrderStatusHistoryModel struct {
	Base
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	FromStatus string     `gorm:"type:varchar(16)"`
	ToStatus   string     `gorm:"type:varchar(16);not null"`
	Note       string     `gorm:"type:text"`
	ChangedBy  *uuid.UUID `gorm:"type:uuid"`
}

// TableName explicitly sets the table name for GORM.
func (OrderStatusHistoryModel) TableName() string {
	return "order_status_histories"
}

type RefundModel struct {
	Base
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	TransactionID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Reference       string          `gorm:"type:varchar(40);uniqueIndex;not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Reason          string          `gorm:"type:text"`
	Status          string          `gorm:"type:varchar(16);not null;index"`
	Restock         bool            `gorm:"not null;default:false"`
	GatewayRefundID string          `gorm:"type:varchar(128)"`
	AdminNote       string          `gorm:"type:text"`
	ProcessedAt     *time.Time

	Items []RefundItemModel `gorm:"foreignKey:RefundID"`
}

// TableName explicitly sets the table name for GORM.
func (RefundModel) TableName() string {
	return "refunds"
}

type RefundItemModel struct {
	Base
	RefundID    uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderItemID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity    int       `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (RefundItemModel) TableName() string {
	return "refund_items"
}
