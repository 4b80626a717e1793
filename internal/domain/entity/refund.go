package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RefundStatus string

const (
	RefundStatusPending  RefundStatus = "pending"
	RefundStatusRefunded RefundStatus = "refunded"
	RefundStatusRejected RefundStatus = "rejected"
)

// Refund is a request to return money for part or all of an order.
type Refund struct {
	ID              uuid.UUID       `json:"id"`
	OrderID         uuid.UUID       `json:"order_id"`
	UserID          uuid.UUID       `json:"user_id"`
	TransactionID   uuid.UUID       `json:"transaction_id"`
	Reference       string          `json:"reference"`
	Amount          decimal.Decimal `json:"amount"`
	Reason          string          `json:"reason"`
	Status          RefundStatus    `json:"status"`
	Restock         bool            `json:"restock"`
	GatewayRefundID string          `json:"gateway_refund_id,omitempty"`
	AdminNote       string          `json:"admin_note,omitempty"`
	ProcessedAt     *time.Time      `json:"processed_at,omitempty"`
	Items           []*RefundItem   `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type RefundItem struct {
	ID          uuid.UUID `json:"id"`
	RefundID    uuid.UUID `json:"refund_id"`
	OrderItemID uuid.UUID `json:"order_item_id"`
	Quantity    int       `json:"quantity"`
}
