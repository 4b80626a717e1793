package repository

import (
	"context"

	"ministry/internal/domain/entity"

	"github.com/google/uuid"
)

// DeviceRepository manages push notification targets.
type DeviceRepository interface {
	// Upsert inserts the device or, when device_id is known, rebinds it to the user and token.
	Upsert(ctx context.Context, device *entity.UserDevice) error

	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error)

	// Delete returns domainerrors.ErrDeviceNotFound unless the device belongs to userID.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// ActiveTokens lists the FCM tokens of the user's active devices.
	ActiveTokens(ctx context.Context, userID uuid.UUID) ([]string, error)

	// DeleteByTokens removes devices whose tokens the push provider rejected.
	DeleteByTokens(ctx context.Context, tokens []string) (int64, error)
}
