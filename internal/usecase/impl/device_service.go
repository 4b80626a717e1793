package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type deviceService struct {
	deviceRepo repository.DeviceRepository
	logger     *slog.Logger
}

// DeviceServiceParams holds dependencies for DeviceService, injected by Fx.
type DeviceServiceParams struct {
	fx.In

	DeviceRepo repository.DeviceRepository
	Logger     *slog.Logger
}

// NewDeviceService creates a new device service instance
func NewDeviceService(params DeviceServiceParams) usecase.DeviceUsecase {
	return &deviceService{
		deviceRepo: params.DeviceRepo,
		logger:     params.Logger,
	}
}

func (s *deviceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// RegisterDevice registers a new device or rebinds an existing device_id to the caller.
func (s *deviceService) RegisterDevice(ctx context.Context, userID uuid.UUID, info *usecase.DeviceInfo) (*entity.UserDevice, error) {
	token := strings.TrimSpace(info.FCMToken)
	deviceID := strings.TrimSpace(info.DeviceID)
	if token == "" || deviceID == "" {
		verr := domainerrors.NewValidationError(nil)
		if token == "" {
			verr.Add("fcm_token", "The fcm token field is required.")
		}
		if deviceID == "" {
			verr.Add("device_id", "The device id field is required.")
		}

		return nil, verr
	}

	device := &entity.UserDevice{
		ID:       uuid.New(),
		UserID:   userID,
		FCMToken: token,
		DeviceID: deviceID,
		Platform: info.Platform,
		IsActive: true,
	}
	if err := s.deviceRepo.Upsert(ctx, device); err != nil {
		return nil, err
	}

	s.log(ctx).Info("Device registered",
		slog.Any("userID", userID),
		slog.String("deviceID", device.DeviceID),
		slog.String("platform", string(device.Platform)),
	)

	return device, nil
}

// GetUserDevices retrieves all devices for a user
func (s *deviceService) GetUserDevices(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	return s.deviceRepo.ListByUser(ctx, userID)
}

// DeleteDevice removes a device owned by the user.
func (s *deviceService) DeleteDevice(ctx context.Context, userID, deviceID uuid.UUID) error {
	if err := s.deviceRepo.Delete(ctx, userID, deviceID); err != nil {
		return err
	}

	s.log(ctx).Info("Device removed", slog.Any("userID", userID), slog.Any("deviceID", deviceID))

	return nil
}
