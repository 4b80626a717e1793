package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"ministry/config"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"
	"ministry/internal/errors"
)

// Webhook providers.
const (
	ProviderStripe      = "stripe"
	ProviderPaystack    = "paystack"
	ProviderFlutterwave = "flutterwave"
)

// Signature headers.
const (
	HeaderStripeSignature   = "Stripe-Signature"
	HeaderPaystackSignature = "X-Paystack-Signature"
	HeaderFlutterwaveHash   = "Verif-Hash"
)

// stripeTolerance bounds the age of a Stripe signature timestamp.
const stripeTolerance = 5 * time.Minute

var (
	ErrSignatureMissing  = errors.New("webhook signature missing")
	ErrSignatureMismatch = errors.New("webhook signature mismatch")
	ErrUnknownProvider   = errors.New("unknown webhook provider")
)

type WebhookEvent = service.WebhookEvent

type webhookVerifier struct {
	secrets map[string]string
	now     func() time.Time
}

// NewWebhookVerifier builds a verifier from the configured per-provider secrets.
func NewWebhookVerifier(cfg *config.Config) service.WebhookVerifier {
	secrets := map[string]string{}
	if cfg != nil && cfg.Payment != nil {
		secrets[ProviderStripe] = cfg.Payment.Webhooks.Stripe
		secrets[ProviderPaystack] = cfg.Payment.Webhooks.Paystack
		secrets[ProviderFlutterwave] = cfg.Payment.Webhooks.Flutterwave
	}

	return &webhookVerifier{secrets: secrets, now: time.Now}
}

func (v *webhookVerifier) Verify(provider, signature string, body []byte) (*WebhookEvent, error) {
	if err := VerifySignature(provider, v.secrets[provider], signature, body, v.now()); err != nil {
		if errors.Is(err, ErrUnknownProvider) {
			return nil, domainerrors.ErrNotFound.WithDetails("unknown webhook provider " + provider)
		}

		return nil, errors.Wrap(domainerrors.ErrInvalidWebhookSignature, err.Error())
	}

	event, err := ParseWebhook(provider, body)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("malformed webhook payload"), err.Error())
	}

	return event, nil
}

// VerifySignature checks the provider signature header against body.
// An empty secret skips verification.
func VerifySignature(provider, secret, header string, body []byte, now time.Time) error {
	if secret == "" {
		return nil
	}
	if header == "" {
		return ErrSignatureMissing
	}

	switch provider {
	case ProviderStripe:
		return verifyStripe(secret, header, body, now)
	case ProviderPaystack:
		mac := hmac.New(sha512.New, []byte(secret))
		mac.Write(body)
		if !hmac.Equal([]byte(hex.EncodeToString(mac.Sum(nil))), []byte(strings.ToLower(header))) {
			return ErrSignatureMismatch
		}

		return nil
	case ProviderFlutterwave:
		if subtle.ConstantTimeCompare([]byte(secret), []byte(header)) != 1 {
			return ErrSignatureMismatch
		}

		return nil
	default:
		return ErrUnknownProvider
	}
}

// verifyStripe checks "t=<unix>,v1=<hex hmac-sha256 of t.body>"; any matching v1 passes.
func verifyStripe(secret, header string, body []byte, now time.Time) error {
	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return ErrSignatureMissing
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrSignatureMismatch
	}
	if age := now.Sub(time.Unix(unix, 0)); age > stripeTolerance || age < -stripeTolerance {
		return errors.Wrap(ErrSignatureMismatch, "timestamp outside tolerance")
	}

	expected := StripeSignature(secret, timestamp, body)
	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}

	return ErrSignatureMismatch
}

// StripeSignature computes the v1 value for a timestamp and payload.
func StripeSignature(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)

	return hex.EncodeToString(mac.Sum(nil))
}

// ParseWebhook extracts the payment reference and outcome from a provider payload.
func ParseWebhook(provider string, body []byte) (*WebhookEvent, error) {
	switch provider {
	case ProviderStripe:
		var payload struct {
			Type string `json:"type"`
			Data struct {
				Object struct {
					ClientReferenceID string            `json:"client_reference_id"`
					Metadata          map[string]string `json:"metadata"`
					Status            string            `json:"status"`
					PaymentStatus     string            `json:"payment_status"`
				} `json:"object"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, errors.Wrap(err, "decode stripe webhook")
		}
		obj := payload.Data.Object
		ref := obj.Metadata["reference"]
		if ref == "" {
			ref = obj.ClientReferenceID
		}
		success := payload.Type == "payment_intent.succeeded" ||
			(payload.Type == "checkout.session.completed" && obj.PaymentStatus == "paid")

		return &WebhookEvent{Provider: provider, Type: payload.Type, Reference: ref, Success: success}, nil

	case ProviderPaystack:
		var payload struct {
			Event string `json:"event"`
			Data  struct {
				Reference string `json:"reference"`
				Status    string `json:"status"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, errors.Wrap(err, "decode paystack webhook")
		}

		return &WebhookEvent{
			Provider:  provider,
			Type:      payload.Event,
			Reference: payload.Data.Reference,
			Success:   payload.Event == "charge.success" && isSuccessStatus(payload.Data.Status),
		}, nil

	case ProviderFlutterwave:
		var payload struct {
			Event string `json:"event"`
			Data  struct {
				TxRef  string `json:"tx_ref"`
				Status string `json:"status"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, errors.Wrap(err, "decode flutterwave webhook")
		}

		return &WebhookEvent{
			Provider:  provider,
			Type:      payload.Event,
			Reference: payload.Data.TxRef,
			Success:   payload.Event == "charge.completed" && isSuccessStatus(payload.Data.Status),
		}, nil

	default:
		return nil, ErrUnknownProvider
	}
}
