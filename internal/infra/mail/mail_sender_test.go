package mail

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"ministry/config"
	"ministry/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)

	return nil
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendBuildsMessage(t *testing.T) {
	d := &fakeDialer{}
	sender := &smtpSender{dialer: d, from: "church@example.com", logger: newDiscardLogger()}

	require.NoError(t, sender.Send(context.Background(), "member@example.com", "Welcome", "<p>Hi</p>"))
	require.Len(t, d.sent, 1)

	msg := d.sent[0]
	assert.Equal(t, []string{"church@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"member@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Welcome"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<p>Hi</p>")
}

func TestSendWrapsDialerError(t *testing.T) {
	sender := &smtpSender{dialer: &fakeDialer{err: errors.New("connection refused")}, logger: newDiscardLogger()}

	err := sender.Send(context.Background(), "member@example.com", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSendRejectsEmptyRecipient(t *testing.T) {
	sender := &smtpSender{dialer: &fakeDialer{}, logger: newDiscardLogger()}

	assert.Error(t, sender.Send(context.Background(), "", "s", "b"))
}

func TestNewMailSenderWithoutHostLogsOnly(t *testing.T) {
	sender := NewMailSender(Params{Config: &config.Config{}, Logger: newDiscardLogger()})

	assert.NoError(t, sender.Send(context.Background(), "member@example.com", "s", "b"))
}
