package service

import (
	"context"
	"time"
)

// PushService defines the interface for push notification services
type PushService interface {
	// SendBatchNotification sends push notifications to multiple device tokens
	// Returns success count, failure count, list of invalid tokens, and error
	SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (successCount, failureCount int, invalidTokens []string, err error)
}

// MailSender delivers HTML email.
type MailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMSSender delivers a text message through the SMS gateway.
type SMSSender interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

// CooldownStore guards an action with a time-boxed key.
type CooldownStore interface {
	// Acquire sets key for ttl and reports false when it is already held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
