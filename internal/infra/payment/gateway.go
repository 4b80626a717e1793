// Package payment is the outbound client of the hosted payment provider and
// the verifier of its webhooks.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ministry/config"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"
	"ministry/internal/errors"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const defaultBackoff = 200 * time.Millisecond

type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewPaymentGateway returns the sandbox stub when sandbox mode is on or no base URL is set.
func NewPaymentGateway(params Params) service.PaymentGateway {
	cfg := params.Config.Payment
	if cfg == nil || cfg.Sandbox || cfg.BaseURL == "" {
		params.Logger.Info("Payment gateway running in sandbox mode")

		return &sandboxGateway{}
	}

	return newHTTPGateway(cfg, params.Logger)
}

type httpGateway struct {
	baseURL    string
	secretKey  string
	maxRetries int
	backoff    time.Duration
	client     *http.Client
	logger     *slog.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

func newHTTPGateway(cfg *config.PaymentConfig, logger *slog.Logger) *httpGateway {
	return &httpGateway{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		secretKey:  cfg.SecretKey,
		maxRetries: cfg.MaxRetries,
		backoff:    defaultBackoff,
		client:     &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		sleep:      sleepContext,
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (g *httpGateway) Initiate(ctx context.Context, req service.PaymentInitRequest) (*service.PaymentInitResult, error) {
	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		Reference        string `json:"reference"`
	}

	body := map[string]any{
		"reference": req.Reference,
		"amount":    req.Amount.StringFixed(2),
		"currency":  req.Currency,
		"email":     req.Email,
		"channel":   req.Provider,
	}
	if err := g.call(ctx, http.MethodPost, "/transaction/initialize", body, &data); err != nil {
		return nil, err
	}

	ref := data.Reference
	if ref == "" {
		ref = req.Reference
	}

	return &service.PaymentInitResult{GatewayReference: ref, CheckoutURL: data.AuthorizationURL}, nil
}

func (g *httpGateway) Verify(ctx context.Context, reference string) (*service.PaymentVerification, error) {
	var data struct {
		Reference string          `json:"reference"`
		Status    string          `json:"status"`
		Amount    decimal.Decimal `json:"amount"`
	}
	if err := g.call(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &data); err != nil {
		return nil, err
	}

	return &service.PaymentVerification{
		Reference: reference,
		Status:    data.Status,
		Paid:      isSuccessStatus(data.Status),
		Amount:    data.Amount,
	}, nil
}

func (g *httpGateway) Refund(ctx context.Context, reference string, amount decimal.Decimal) (*service.RefundResult, error) {
	var data struct {
		ID     json.Number `json:"id"`
		Status string      `json:"status"`
	}
	body := map[string]any{
		"transaction": reference,
		"amount":      amount.StringFixed(2),
	}
	if err := g.call(ctx, http.MethodPost, "/refund", body, &data); err != nil {
		return nil, err
	}

	return &service.RefundResult{GatewayRefundID: data.ID.String(), Status: data.Status}, nil
}

// call retries network errors and 5xx responses with exponential backoff.
func (g *httpGateway) call(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return errors.Wrap(err, "marshal gateway request")
		}
	}

	delay := g.backoff
	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			if err := g.sleep(ctx, delay); err != nil {
				return gatewayError(err, "request cancelled")
			}
			delay *= 2
		}

		retry, err := g.do(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			break
		}

		g.logger.WarnContext(ctx, "[Payment] Gateway call failed, retrying",
			slog.String("path", path),
			slog.Int("attempt", attempt+1),
			slog.Any("error", err),
		)
	}

	return gatewayError(lastErr, method+" "+path)
}

func (g *httpGateway) do(ctx context.Context, method, path string, payload []byte, out any) (retry bool, err error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return false, errors.WithStack(err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return ctx.Err() == nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return true, errors.WithStack(err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return true, errors.Errorf("gateway returned %d", resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false, errors.Wrap(err, "decode gateway response")
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return false, errors.Errorf("gateway returned %d: %s", resp.StatusCode, env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return false, errors.Wrap(err, "decode gateway data")
		}
	}

	return false, nil
}

func gatewayError(err error, details string) error {
	return errors.Wrap(domainerrors.ErrPaymentGateway.WithDetails(details), err.Error())
}

func isSuccessStatus(status string) bool {
	switch strings.ToLower(status) {
	case "success", "successful", "succeeded", "paid", "completed":
		return true
	default:
		return false
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// sandboxGateway answers deterministically and always succeeds.
type sandboxGateway struct{}

func (sandboxGateway) Initiate(_ context.Context, req service.PaymentInitRequest) (*service.PaymentInitResult, error) {
	return &service.PaymentInitResult{
		GatewayReference: req.Reference,
		CheckoutURL:      "https://sandbox.payments.local/checkout/" + req.Reference,
	}, nil
}

func (sandboxGateway) Verify(_ context.Context, reference string) (*service.PaymentVerification, error) {
	return &service.PaymentVerification{Reference: reference, Status: "success", Paid: true}, nil
}

func (sandboxGateway) Refund(_ context.Context, reference string, amount decimal.Decimal) (*service.RefundResult, error) {
	return &service.RefundResult{
		GatewayRefundID: "SBX-RF-" + reference + "-" + amount.StringFixed(2),
		Status:          "processed",
	}, nil
}
