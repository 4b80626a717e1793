package service

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentInitRequest starts a hosted checkout.
type PaymentInitRequest struct {
	Reference string
	Amount    decimal.Decimal
	Currency  string
	Email     string
	Provider  string
}

type PaymentInitResult struct {
	GatewayReference string `json:"gateway_reference"`
	CheckoutURL      string `json:"checkout_url"`
}

// PaymentVerification is the gateway's view of a payment.
type PaymentVerification struct {
	Reference string          `json:"reference"`
	Status    string          `json:"status"`
	Paid      bool            `json:"paid"`
	Amount    decimal.Decimal `json:"amount"`
}

type RefundResult struct {
	GatewayRefundID string `json:"gateway_refund_id"`
	Status          string `json:"status"`
}

// PaymentGateway is the outbound client of the payment provider.
type PaymentGateway interface {
	Initiate(ctx context.Context, req PaymentInitRequest) (*PaymentInitResult, error)
	Verify(ctx context.Context, reference string) (*PaymentVerification, error)
	Refund(ctx context.Context, reference string, amount decimal.Decimal) (*RefundResult, error)
}

// WebhookEvent is what the platform needs from a provider callback.
type WebhookEvent struct {
	Provider  string
	Type      string
	Reference string
	Success   bool
}

// WebhookVerifier authenticates and decodes provider callbacks.
type WebhookVerifier interface {
	// Verify returns domainerrors.ErrInvalidWebhookSignature when the signature does not match.
	Verify(provider, signature string, body []byte) (*WebhookEvent, error)
}
