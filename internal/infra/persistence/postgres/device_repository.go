package postgres

import (
	"context"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type deviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(db *gorm.DB) repository.DeviceRepository {
	return &deviceRepository{db: db}
}

// Upsert inserts the device or rebinds an existing device_id to the new user and token.
func (repo *deviceRepository) Upsert(ctx context.Context, device *entity.UserDevice) error {
	deviceM := &model.UserDeviceModel{
		Base:     model.Base{ID: device.ID},
		UserID:   device.UserID,
		FCMToken: device.FCMToken,
		DeviceID: device.DeviceID,
		Platform: string(device.Platform),
		IsActive: true,
	}

	err := repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "fcm_token", "platform", "is_active", "updated_at"}),
	}).Create(deviceM).Error
	if err != nil {
		return writeError(err, nil, domainerrors.ErrUserNotFound, "failed to upsert device")
	}

	var stored model.UserDeviceModel
	if err := repo.db.WithContext(ctx).Where("device_id = ?", device.DeviceID).First(&stored).Error; err != nil {
		return readError(err, domainerrors.ErrDeviceNotFound, "failed to reload device")
	}
	*device = *toDeviceDomain(&stored)

	return nil
}

func (repo *deviceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	var deviceMs []model.UserDeviceModel
	if err := repo.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&deviceMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list devices")
	}

	return mapSlice(deviceMs, toDeviceDomain), nil
}

func (repo *deviceRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.UserDeviceModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete device")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDeviceNotFound
	}

	return nil
}

func (repo *deviceRepository) ActiveTokens(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var tokens []string
	err := repo.db.WithContext(ctx).Model(&model.UserDeviceModel{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Pluck("fcm_token", &tokens).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load device tokens")
	}

	return tokens, nil
}

func (repo *deviceRepository) DeleteByTokens(ctx context.Context, tokens []string) (int64, error) {
	if len(tokens) == 0 {
		return 0, nil
	}

	result := repo.db.WithContext(ctx).Where("fcm_token IN ?", tokens).Delete(&model.UserDeviceModel{})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete invalid devices")
	}

	return result.RowsAffected, nil
}

func toDeviceDomain(deviceM *model.UserDeviceModel) *entity.UserDevice {
	return &entity.UserDevice{
		ID:        deviceM.ID,
		UserID:    deviceM.UserID,
		FCMToken:  deviceM.FCMToken,
		DeviceID:  deviceM.DeviceID,
		Platform:  entity.DevicePlatform(deviceM.Platform),
		IsActive:  deviceM.IsActive,
		CreatedAt: deviceM.CreatedAt,
		UpdatedAt: deviceM.UpdatedAt,
	}
}
