package service

import (
	"context"
	"time"
)

// NotificationType identifies what a notification is about.
type NotificationType string

const (
	NotificationOTP             NotificationType = "otp"
	NotificationOrderPlaced     NotificationType = "order_placed"
	NotificationOrderStatus     NotificationType = "order_status"
	NotificationTicketConfirmed NotificationType = "ticket_confirmed"
	NotificationMessageReply    NotificationType = "message_reply"
)

// NotificationChannel selects the delivery route and therefore the queue.
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSMS   NotificationChannel = "sms"
	ChannelPush  NotificationChannel = "push"
)

// NotificationMessage is the broker payload consumed by the notifier worker.
type NotificationMessage struct {
	ID          string              `json:"id"`
	Type        NotificationType    `json:"type"`
	Channel     NotificationChannel `json:"channel"`
	UserID      string              `json:"user_id"`
	Email       string              `json:"email,omitempty"`
	PhoneNumber string              `json:"phone_number,omitempty"`
	OTP         string              `json:"otp,omitempty"`
	Subject     string              `json:"subject,omitempty"`
	Body        string              `json:"body,omitempty"`
	Data        map[string]string   `json:"data,omitempty"`
	RequestID   string              `json:"request_id,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
}

// NotificationPublisher hands notifications to the broker for asynchronous delivery.
type NotificationPublisher interface {
	Publish(ctx context.Context, msg *NotificationMessage) error

	// Close releases any resources held by the publisher
	Close() error
}
