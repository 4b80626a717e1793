// Package sms is the client of the HTTP SMS gateway.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"ministry/config"
	"ministry/internal/domain/service"
	"ministry/internal/errors"

	"go.uber.org/fx"
)

type gatewayRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"sms"`
	Type    string `json:"type"`
	APIKey  string `json:"api_key"`
}

type gatewayResponse struct {
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
}

type httpSender struct {
	cfg    *config.SMSConfig
	client *http.Client
	logger *slog.Logger
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewSMSSender returns the gateway client, or a log-only sender when no base URL is set.
func NewSMSSender(params Params) service.SMSSender {
	cfg := params.Config.SMS
	if cfg == nil {
		cfg = &config.SMSConfig{}
	}
	if cfg.BaseURL == "" {
		params.Logger.Info("SMS gateway not configured, text messages are logged only")
	}

	return &httpSender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: params.Logger,
	}
}

// Send posts one message to {baseURL}/sms/send. Any non-2xx status is an error.
func (s *httpSender) Send(ctx context.Context, phoneNumber, message string) error {
	if phoneNumber == "" {
		return errors.New("sms recipient is empty")
	}

	if s.cfg.BaseURL == "" {
		s.logger.InfoContext(ctx, "[SMS] Delivery disabled, message logged",
			slog.String("to", phoneNumber),
			slog.Int("length", len(message)),
		)

		return nil
	}

	payload, err := json.Marshal(gatewayRequest{
		To:      phoneNumber,
		From:    s.cfg.SenderID,
		Message: message,
		Type:    "plain",
		APIKey:  s.cfg.APIKey,
	})
	if err != nil {
		return errors.Wrap(err, "marshal sms request")
	}

	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + "/sms/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build sms request")
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APISecret != "" {
		req.SetBasicAuth(s.cfg.APIKey, s.cfg.APISecret)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "sms gateway request")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("sms gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed gatewayResponse
	_ = json.Unmarshal(body, &parsed)

	s.logger.InfoContext(ctx, "[SMS] Message sent",
		slog.String("to", phoneNumber),
		slog.String("message_id", parsed.MessageID),
	)

	return nil
}
