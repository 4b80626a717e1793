package model

import (
	"github.com/google/uuid"
)

// UserDeviceModel is the GORM-specific struct for the 'user_devices' table.
// It represents a user's device registered for push notifications.
type UserDeviceModel struct {
	Base
	UserID   uuid.UUID `gorm:"type:uuid;not null;index"`
	FCMToken string    `gorm:"column:fcm_token;type:varchar(255);not null;index"`
	DeviceID string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Platform string    `gorm:"type:varchar(16);not null"`
	IsActive bool      `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (UserDeviceModel) TableName() string {
	return "user_devices"
}
