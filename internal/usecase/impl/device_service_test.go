package impl

import (
	"context"
	"testing"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/infra/persistence/postgres"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceService_RegisterRebindsDevice(t *testing.T) {
	f := newFixture(t)
	srv := NewDeviceService(DeviceServiceParams{DeviceRepo: postgres.NewDeviceRepository(f.db), Logger: f.logger})
	ctx := context.Background()

	first := f.createUser(t, "phone-owner@example.com")
	second := f.createUser(t, "new-owner@example.com")

	_, err := srv.RegisterDevice(ctx, first.ID, &usecase.DeviceInfo{FCMToken: " "})
	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.FieldErrors(), "fcm_token")
	assert.Contains(t, verr.FieldErrors(), "device_id")

	device, err := srv.RegisterDevice(ctx, first.ID, &usecase.DeviceInfo{
		FCMToken: " token-1 ",
		DeviceID: "pixel-7",
		Platform: entity.DevicePlatformAndroid,
	})
	require.NoError(t, err)
	assert.Equal(t, "token-1", device.FCMToken)

	rebound, err := srv.RegisterDevice(ctx, second.ID, &usecase.DeviceInfo{
		FCMToken: "token-2",
		DeviceID: "pixel-7",
		Platform: entity.DevicePlatformAndroid,
	})
	require.NoError(t, err)
	assert.Equal(t, device.ID, rebound.ID)
	assert.Equal(t, second.ID, rebound.UserID)
	assert.Equal(t, "token-2", rebound.FCMToken)

	devices, err := srv.GetUserDevices(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, devices)

	devices, err = srv.GetUserDevices(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, devices, 1)

	assert.ErrorIs(t, srv.DeleteDevice(ctx, first.ID, rebound.ID), domainerrors.ErrDeviceNotFound)
	require.NoError(t, srv.DeleteDevice(ctx, second.ID, rebound.ID))
	assert.ErrorIs(t, srv.DeleteDevice(ctx, second.ID, uuid.New()), domainerrors.ErrDeviceNotFound)
}
