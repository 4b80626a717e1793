package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignatureStripe(t *testing.T) {
	body := []byte(`{"type":"payment_intent.succeeded"}`)
	now := time.Unix(1_700_000_000, 0)
	ts := strconv.FormatInt(now.Unix(), 10)
	header := "t=" + ts + ",v1=" + StripeSignature("whsec", ts, body)

	assert.NoError(t, VerifySignature(ProviderStripe, "whsec", header, body, now))
	assert.ErrorIs(t, VerifySignature(ProviderStripe, "other", header, body, now), ErrSignatureMismatch)
	assert.Error(t, VerifySignature(ProviderStripe, "whsec", header, body, now.Add(time.Hour)))
	assert.ErrorIs(t, VerifySignature(ProviderStripe, "whsec", "garbage", body, now), ErrSignatureMissing)
}

func TestVerifySignaturePaystack(t *testing.T) {
	body := []byte(`{"event":"charge.success"}`)
	mac := hmac.New(sha512.New, []byte("sk"))
	mac.Write(body)
	sig := hex.EncodeToString(mac.Sum(nil))

	assert.NoError(t, VerifySignature(ProviderPaystack, "sk", sig, body, time.Now()))
	assert.ErrorIs(t, VerifySignature(ProviderPaystack, "sk", sig, []byte(`{}`), time.Now()), ErrSignatureMismatch)
	assert.ErrorIs(t, VerifySignature(ProviderPaystack, "sk", "", body, time.Now()), ErrSignatureMissing)
}

func TestVerifySignatureFlutterwave(t *testing.T) {
	assert.NoError(t, VerifySignature(ProviderFlutterwave, "hash", "hash", nil, time.Now()))
	assert.ErrorIs(t, VerifySignature(ProviderFlutterwave, "hash", "nope", nil, time.Now()), ErrSignatureMismatch)
}

func TestVerifySignatureSkippedWithoutSecret(t *testing.T) {
	assert.NoError(t, VerifySignature(ProviderStripe, "", "", []byte("x"), time.Now()))
}

func TestParseWebhook(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		body     string
		ref      string
		success  bool
	}{
		{
			name:     "stripe intent",
			provider: ProviderStripe,
			body:     `{"type":"payment_intent.succeeded","data":{"object":{"metadata":{"reference":"TXN-1"}}}}`,
			ref:      "TXN-1",
			success:  true,
		},
		{
			name:     "stripe session unpaid",
			provider: ProviderStripe,
			body:     `{"type":"checkout.session.completed","data":{"object":{"client_reference_id":"TKT-1","payment_status":"unpaid"}}}`,
			ref:      "TKT-1",
		},
		{
			name:     "paystack",
			provider: ProviderPaystack,
			body:     `{"event":"charge.success","data":{"reference":"DON-1","status":"success"}}`,
			ref:      "DON-1",
			success:  true,
		},
		{
			name:     "flutterwave failed",
			provider: ProviderFlutterwave,
			body:     `{"event":"charge.completed","data":{"tx_ref":"TXN-2","status":"failed"}}`,
			ref:      "TXN-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ParseWebhook(tt.provider, []byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.ref, event.Reference)
			assert.Equal(t, tt.success, event.Success)
		})
	}

	_, err := ParseWebhook("venmo", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
