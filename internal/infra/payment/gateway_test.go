package payment

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ministry/config"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"
	"ministry/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGateway(t *testing.T, handler http.HandlerFunc, maxRetries int) *httpGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g := newHTTPGateway(&config.PaymentConfig{
		BaseURL:    srv.URL,
		SecretKey:  "sk_test",
		Timeout:    2 * time.Second,
		MaxRetries: maxRetries,
	}, newDiscardLogger())
	g.sleep = func(context.Context, time.Duration) error { return nil }

	return g
}

func TestInitiateSendsRequest(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "TXN-1", body["reference"])
		assert.Equal(t, "2500.50", body["amount"])

		_, _ = w.Write([]byte(`{"status":true,"data":{"authorization_url":"https://pay/abc","reference":"gw-1"}}`))
	}, 0)

	res, err := g.Initiate(context.Background(), service.PaymentInitRequest{
		Reference: "TXN-1",
		Amount:    decimal.RequireFromString("2500.5"),
		Currency:  "NGN",
		Email:     "a@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "gw-1", res.GatewayReference)
	assert.Equal(t, "https://pay/abc", res.CheckoutURL)
}

func TestVerifyRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	g := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)

			return
		}
		_, _ = w.Write([]byte(`{"status":true,"data":{"reference":"TXN-1","status":"success","amount":"100.00"}}`))
	}, 3)

	v, err := g.Verify(context.Background(), "TXN-1")
	require.NoError(t, err)
	assert.True(t, v.Paid)
	assert.True(t, v.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int32(3), calls.Load())
}

func TestVerifyGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	g := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, 2)

	_, err := g.Verify(context.Background(), "TXN-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPaymentGateway))
	assert.Equal(t, int32(3), calls.Load())
}

func TestRefundDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	g := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":false,"message":"transaction not refundable"}`))
	}, 3)

	_, err := g.Refund(context.Background(), "TXN-1", decimal.NewFromInt(10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPaymentGateway))
	assert.Equal(t, int32(1), calls.Load())
}

func TestSandboxGatewayIsDeterministic(t *testing.T) {
	g := NewPaymentGateway(Params{Config: &config.Config{Payment: &config.PaymentConfig{Sandbox: true}}, Logger: newDiscardLogger()})

	init, err := g.Initiate(context.Background(), service.PaymentInitRequest{Reference: "TXN-9"})
	require.NoError(t, err)
	assert.Equal(t, "TXN-9", init.GatewayReference)
	assert.Contains(t, init.CheckoutURL, "TXN-9")

	v, err := g.Verify(context.Background(), "TXN-9")
	require.NoError(t, err)
	assert.True(t, v.Paid)

	r1, err := g.Refund(context.Background(), "TXN-9", decimal.NewFromInt(5))
	require.NoError(t, err)
	r2, err := g.Refund(context.Background(), "TXN-9", decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.Equal(t, r1.GatewayRefundID, r2.GatewayRefundID)
}
