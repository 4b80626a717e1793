package usecase

import (
	"context"
	"io"
	"time"

	"ministry/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateProfileInput leaves nil fields unchanged.
type UpdateProfileInput struct {
	Name        *string
	PhoneNumber *string
	Bio         *string
	DateOfBirth *time.Time
	Gender      *string
	City        *string
	CountryID   *uuid.UUID
}

// ProfileUsecase manages the signed-in user's own profile.
type ProfileUsecase interface {
	Get(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	Update(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.User, error)

	// UploadPicture replaces the current picture and removes the old file.
	UploadPicture(ctx context.Context, userID uuid.UUID, file io.Reader) (*entity.User, error)
	DeletePicture(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}

// AddressInput is the writable part of an address.
type AddressInput struct {
	Type          entity.AddressType
	Label         string
	RecipientName string
	Phone         string
	Line1         string
	Line2         string
	City          string
	State         string
	PostalCode    string
	CountryID     *uuid.UUID
	IsDefault     bool
}

// AddressUsecase manages a user's addresses. Each type keeps exactly one default.
type AddressUsecase interface {
	List(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*entity.Address, error)
	Create(ctx context.Context, userID uuid.UUID, input *AddressInput) (*entity.Address, error)
	Update(ctx context.Context, userID, id uuid.UUID, input *AddressInput) (*entity.Address, error)

	// Delete refuses the default address.
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetDefault(ctx context.Context, userID, id uuid.UUID) (*entity.Address, error)
}

// DeviceInfo represents device information for registration
type DeviceInfo struct {
	FCMToken string
	DeviceID string
	Platform entity.DevicePlatform
}

// DeviceUsecase defines the interface for device management use cases
type DeviceUsecase interface {
	// RegisterDevice registers a new device or rebinds an existing device_id
	RegisterDevice(ctx context.Context, userID uuid.UUID, info *DeviceInfo) (*entity.UserDevice, error)

	GetUserDevices(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error)
	DeleteDevice(ctx context.Context, userID, deviceID uuid.UUID) error
}

// ReferenceUsecase serves seeded lookup data.
type ReferenceUsecase interface {
	Countries(ctx context.Context) ([]*entity.Country, error)
	PaymentMethods(ctx context.Context) ([]*entity.PaymentMethod, error)
}
