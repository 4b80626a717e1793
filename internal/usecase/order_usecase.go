package usecase

import (
	"context"
	"time"

	"ministry/internal/domain/entity"
	"ministry/internal/domain/repository"
	"ministry/internal/domain/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineInput is an explicit order line; an empty list orders the cart.
type OrderLineInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

type PlaceOrderInput struct {
	ShippingAddressID uuid.UUID
	BillingAddressID  *uuid.UUID
	PaymentMethodCode string
	Notes             string
	Items             []OrderLineInput
}

type ShipmentInput struct {
	Carrier           string
	TrackingNumber    string
	EstimatedDelivery *time.Time
}

// OrderUsecase places and tracks orders and drives their status.
type OrderUsecase interface {
	// Place reserves stock and creates the order and its transaction in one transaction.
	Place(ctx context.Context, userID uuid.UUID, input *PlaceOrderInput) (*entity.Order, error)
	List(ctx context.Context, userID uuid.UUID, p repository.Pagination) (*repository.Page[*entity.Order], error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*entity.Order, error)

	// Cancel accepts pending orders only and restores their stock.
	Cancel(ctx context.Context, userID, orderID uuid.UUID, reason string) (*entity.Order, error)
	Track(ctx context.Context, userID, orderID uuid.UUID) (*entity.OrderTracking, error)
	PublicTrack(ctx context.Context, orderNumber, email string) (*entity.OrderTracking, error)

	ListAll(ctx context.Context, filter repository.OrderFilter) (*repository.Page[*entity.Order], error)
	AdminGet(ctx context.Context, orderID uuid.UUID) (*entity.Order, error)

	// UpdateStatus applies one step of the transition table on behalf of actorID.
	UpdateStatus(ctx context.Context, actorID, orderID uuid.UUID, status entity.OrderStatus, note string) (*entity.Order, error)
	CreateShipment(ctx context.Context, actorID, orderID uuid.UUID, input *ShipmentInput) (*entity.Shipment, error)
	UpdateShipment(ctx context.Context, actorID, shipmentID uuid.UUID, status entity.ShipmentStatus) (*entity.Shipment, error)
}

// PaymentOutput is the checkout handle for an order.
type PaymentOutput struct {
	Reference        string                   `json:"reference"`
	GatewayReference string                   `json:"gateway_reference"`
	CheckoutURL      string                   `json:"checkout_url"`
	Amount           decimal.Decimal          `json:"amount"`
	Currency         string                   `json:"currency"`
	Status           entity.TransactionStatus `json:"status"`
}

// PaymentStatusOutput compares the stored state with the gateway's.
type PaymentStatusOutput struct {
	Reference     string                   `json:"reference"`
	Status        entity.TransactionStatus `json:"status"`
	GatewayStatus string                   `json:"gateway_status"`
	Paid          bool                     `json:"paid"`
}

// WebhookInput is a raw provider callback.
type WebhookInput struct {
	Provider  string
	Signature string
	Body      []byte
}

// PaymentUsecase settles orders and routes provider webhooks.
type PaymentUsecase interface {
	Initiate(ctx context.Context, userID, orderID uuid.UUID) (*PaymentOutput, error)

	// Confirm is idempotent once the transaction is paid.
	Confirm(ctx context.Context, userID, orderID uuid.UUID, reference string) (*entity.Order, error)
	Status(ctx context.Context, reference string) (*PaymentStatusOutput, error)

	// ConfirmByReference settles the order owning reference without an ownership check.
	ConfirmByReference(ctx context.Context, reference string) error

	// HandleWebhook verifies and applies a provider callback.
	HandleWebhook(ctx context.Context, input *WebhookInput) error
}

type RefundItemInput struct {
	OrderItemID uuid.UUID
	Quantity    int
}

type RequestRefundInput struct {
	OrderID uuid.UUID
	Amount  decimal.Decimal
	Reason  string
	Items   []RefundItemInput
	Restock bool
}

type ProcessRefundInput struct {
	Approve bool
	Note    string
}

// RefundUsecase handles refund requests and their approval.
type RefundUsecase interface {
	Request(ctx context.Context, userID uuid.UUID, input *RequestRefundInput) (*entity.Refund, error)
	List(ctx context.Context, userID uuid.UUID, p repository.Pagination) (*repository.Page[*entity.Refund], error)
	Get(ctx context.Context, userID, refundID uuid.UUID) (*entity.Refund, error)

	ListAll(ctx context.Context, filter repository.RefundFilter) (*repository.Page[*entity.Refund], error)
	AdminGet(ctx context.Context, refundID uuid.UUID) (*entity.Refund, error)

	// Process approves through the gateway or rejects a pending refund.
	Process(ctx context.Context, refundID uuid.UUID, input *ProcessRefundInput) (*entity.Refund, error)
}

// NotificationUsecase publishes notifications after the owning transaction commits.
// Failures are logged and never returned.
type NotificationUsecase interface {
	Notify(ctx context.Context, msg *service.NotificationMessage)
}
