package repository

import (
	"context"

	"ministry/internal/domain/entity"

	"github.com/google/uuid"
)

// AddressRepository defines the interface for address-related database operations.
// Every lookup is scoped by owner; an address owned by someone else is reported as not found.
type AddressRepository interface {
	Create(ctx context.Context, address *entity.Address) error

	// FindByID returns domainerrors.ErrAddressNotFound unless the address belongs to userID.
	FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Address, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)
	Update(ctx context.Context, address *entity.Address) error
	Delete(ctx context.Context, userID, id uuid.UUID) error

	CountByType(ctx context.Context, userID uuid.UUID, addressType entity.AddressType) (int64, error)

	// UnsetDefaults clears is_default on every address of the type except keepID.
	UnsetDefaults(ctx context.Context, userID uuid.UUID, addressType entity.AddressType, keepID uuid.UUID) error
}
