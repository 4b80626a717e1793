package sms

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ministry/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSender(baseURL string) *httpSender {
	cfg := &config.Config{SMS: &config.SMSConfig{
		BaseURL:   baseURL,
		APIKey:    "key",
		APISecret: "secret",
		SenderID:  "MINISTRY",
		Timeout:   2 * time.Second,
	}}

	return NewSMSSender(Params{Config: cfg, Logger: newDiscardLogger()}).(*httpSender)
}

func TestSendPostsToGateway(t *testing.T) {
	var got gatewayRequest
	var user, pass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sms/send", r.URL.Path)
		user, pass, _ = r.BasicAuth()
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"message_id":"m-1","message":"queued"}`))
	}))
	defer srv.Close()

	require.NoError(t, newSender(srv.URL+"/").Send(context.Background(), "+2348000000000", "Your code is 123456"))

	assert.Equal(t, "+2348000000000", got.To)
	assert.Equal(t, "MINISTRY", got.From)
	assert.Equal(t, "Your code is 123456", got.Message)
	assert.Equal(t, "key", user)
	assert.Equal(t, "secret", pass)
}

func TestSendGatewayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "insufficient balance", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	err := newSender(srv.URL).Send(context.Background(), "+2348000000000", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
}

func TestSendLogOnlyWithoutBaseURL(t *testing.T) {
	assert.NoError(t, newSender("").Send(context.Background(), "+2348000000000", "hi"))
}

func TestSendRejectsEmptyPhone(t *testing.T) {
	assert.Error(t, newSender("").Send(context.Background(), "", "hi"))
}
