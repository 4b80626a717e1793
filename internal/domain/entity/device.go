package entity

import (
	"time"

	"github.com/google/uuid"
)

// DevicePlatform is the client platform of a push device.
type DevicePlatform string

const (
	DevicePlatformIOS     DevicePlatform = "ios"
	DevicePlatformAndroid DevicePlatform = "android"
	DevicePlatformWeb     DevicePlatform = "web"
)

// UserDevice represents a user's device registered for push notifications.
type UserDevice struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	FCMToken  string         `json:"fcm_token"`
	DeviceID  string         `json:"device_id"` // Unique device identifier from the client.
	Platform  DevicePlatform `json:"platform"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
