package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

//nolint:gochecknoglobals
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusCompleted, OrderStatusRefunded},
	OrderStatusCompleted:  {OrderStatusRefunded},
}

// CanTransitionTo reports whether next is reachable from s in a single step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return slices.Contains(orderTransitions[s], next)
}

// IsValid reports whether s is a known order status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}

	return false
}

// PaymentStatus tracks settlement of an order.
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentStatusRefunded          PaymentStatus = "refunded"
)

// Order is a placed purchase with snapshotted prices and addresses.
type Order struct {
	ID              uuid.UUID             `json:"id"`
	UserID          uuid.UUID             `json:"user_id"`
	OrderNumber     string                `json:"order_number"`
	Status          OrderStatus           `json:"status"`
	PaymentStatus   PaymentStatus         `json:"payment_status"`
	PaymentMethod   string                `json:"payment_method"`
	Currency        string                `json:"currency"`
	CustomerName    string                `json:"customer_name"`
	CustomerEmail   string                `json:"customer_email"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	ShippingFee     decimal.Decimal       `json:"shipping_fee"`
	Tax             decimal.Decimal       `json:"tax"`
	Total           decimal.Decimal       `json:"total"`
	ShippingAddress *AddressSnapshot      `json:"shipping_address"`
	BillingAddress  *AddressSnapshot      `json:"billing_address,omitempty"`
	Notes           string                `json:"notes"`
	CancelReason    string                `json:"cancel_reason,omitempty"`
	Items           []*OrderItem          `json:"items,omitempty"`
	Transaction     *Transaction          `json:"transaction,omitempty"`
	Shipment        *Shipment             `json:"shipment,omitempty"`
	History         []*OrderStatusHistory `json:"history,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// IsPaid reports whether the order has a settled payment that can still be refunded.
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid || o.PaymentStatus == PaymentStatusPartiallyRefunded
}

// OrderItem snapshots the product name, SKU and price at placement time.
type OrderItem struct {
	ID               uuid.UUID       `json:"id"`
	OrderID          uuid.UUID       `json:"order_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	VariantID        *uuid.UUID      `json:"variant_id,omitempty"`
	ProductName      string          `json:"product_name"`
	VariantName      string          `json:"variant_name,omitempty"`
	SKU              string          `json:"sku"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Quantity         int             `json:"quantity"`
	LineTotal        decimal.Decimal `json:"line_total"`
	RefundedQuantity int             `json:"refunded_quantity"`
}

// TransactionStatus tracks a payment attempt for an order.
type TransactionStatus string

const (
	TransactionStatusPending           TransactionStatus = "pending"
	TransactionStatusPaid              TransactionStatus = "paid"
	TransactionStatusFailed            TransactionStatus = "failed"
	TransactionStatusPartiallyRefunded TransactionStatus = "partially_refunded"
	TransactionStatusRefunded          TransactionStatus = "refunded"
)

// Transaction is the payment record of an order.
type Transaction struct {
	ID               uuid.UUID         `json:"id"`
	OrderID          uuid.UUID         `json:"order_id"`
	Reference        string            `json:"reference"`
	GatewayReference string            `json:"gateway_reference,omitempty"`
	PaymentMethod    string            `json:"payment_method"`
	Amount           decimal.Decimal   `json:"amount"`
	RefundedAmount   decimal.Decimal   `json:"refunded_amount"`
	Currency         string            `json:"currency"`
	Status           TransactionStatus `json:"status"`
	CheckoutURL      string            `json:"checkout_url,omitempty"`
	PaidAt           *time.Time        `json:"paid_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// IsSettled reports whether money was received for the transaction.
func (t *Transaction) IsSettled() bool {
	return t.Status == TransactionStatusPaid ||
		t.Status == TransactionStatusPartiallyRefunded ||
		t.Status == TransactionStatusRefunded
}

// ShipmentStatus tracks carrier progress.
type ShipmentStatus string

const (
	ShipmentStatusShipped   ShipmentStatus = "shipped"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
	ShipmentStatusReturned  ShipmentStatus = "returned"
)

type Shipment struct {
	ID                uuid.UUID      `json:"id"`
	OrderID           uuid.UUID      `json:"order_id"`
	Carrier           string         `json:"carrier"`
	TrackingNumber    string         `json:"tracking_number"`
	Status            ShipmentStatus `json:"status"`
	EstimatedDelivery *time.Time     `json:"estimated_delivery,omitempty"`
	ShippedAt         *time.Time     `json:"shipped_at,omitempty"`
	DeliveredAt       *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// OrderStatusHistory is one entry of an order's audit trail.
type OrderStatusHistory struct {
	ID         uuid.UUID   `json:"id"`
	OrderID    uuid.UUID   `json:"order_id"`
	FromStatus OrderStatus `json:"from_status,omitempty"`
	ToStatus   OrderStatus `json:"to_status"`
	Note       string      `json:"note,omitempty"`
	ChangedBy  *uuid.UUID  `json:"changed_by,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OrderTracking is the public tracking view of an order.
type OrderTracking struct {
	OrderNumber   string                `json:"order_number"`
	Status        OrderStatus           `json:"status"`
	PaymentStatus PaymentStatus         `json:"payment_status"`
	History       []*OrderStatusHistory `json:"history"`
	Shipment      *Shipment             `json:"shipment,omitempty"`
}
