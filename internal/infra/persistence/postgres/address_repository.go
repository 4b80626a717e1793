package postgres

import (
	"context"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// addressRepository implements the domain.AddressRepository interface.
type addressRepository struct {
	db *gorm.DB
}

// NewAddressRepository is the constructor for addressRepository.
func NewAddressRepository(db *gorm.DB) repository.AddressRepository {
	return &addressRepository{db: db}
}

// Create persists a new address for a user.
func (repo *addressRepository) Create(ctx context.Context, address *entity.Address) error {
	addressM := fromAddressDomain(address)

	if err := repo.db.WithContext(ctx).Create(addressM).Error; err != nil {
		return writeError(err, nil, domainerrors.ErrUserNotFound, "failed to create address")
	}

	// Update the entity with generated values
	address.ID = addressM.ID
	address.CreatedAt = addressM.CreatedAt
	address.UpdatedAt = addressM.UpdatedAt

	return nil
}

// FindByID retrieves an address owned by userID.
func (repo *addressRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Address, error) {
	var addressM model.AddressModel
	err := repo.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&addressM).Error
	if err != nil {
		return nil, readError(err, domainerrors.ErrAddressNotFound, "failed to find address by ID")
	}

	return toAddressDomain(&addressM), nil
}

// ListByUser returns defaults first, then oldest first.
func (repo *addressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	var addressModels []model.AddressModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("type").Order("is_default DESC").Order("created_at").
		Find(&addressModels).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find addresses by user")
	}

	return mapSlice(addressModels, toAddressDomain), nil
}

// Update updates an existing address record.
func (repo *addressRepository) Update(ctx context.Context, address *entity.Address) error {
	addressM := fromAddressDomain(address)

	result := repo.db.WithContext(ctx).Model(addressM).
		Where("user_id = ?", address.UserID).
		Select("type", "label", "recipient_name", "phone", "line1", "line2", "city", "state",
			"postal_code", "country_id", "is_default").
		Updates(addressM)
	if result.Error != nil {
		return writeError(result.Error, nil, domainerrors.ErrCountryNotFound, "failed to update address")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAddressNotFound
	}

	address.UpdatedAt = addressM.UpdatedAt

	return nil
}

// Delete removes an address owned by userID.
func (repo *addressRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.AddressModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete address")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAddressNotFound
	}

	return nil
}

func (repo *addressRepository) CountByType(ctx context.Context, userID uuid.UUID, addressType entity.AddressType) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&model.AddressModel{}).
		Where("user_id = ? AND type = ?", userID, string(addressType)).
		Count(&count).Error
	if err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count addresses")
	}

	return count, nil
}

// UnsetDefaults clears is_default on every address of the type except keepID.
func (repo *addressRepository) UnsetDefaults(ctx context.Context, userID uuid.UUID, addressType entity.AddressType, keepID uuid.UUID) error {
	err := repo.db.WithContext(ctx).Model(&model.AddressModel{}).
		Where("user_id = ? AND type = ? AND id <> ? AND is_default = ?", userID, string(addressType), keepID, true).
		Update("is_default", false).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to unset default addresses")
	}

	return nil
}

func toAddressDomain(addressM *model.AddressModel) *entity.Address {
	return &entity.Address{
		ID:            addressM.ID,
		UserID:        addressM.UserID,
		Type:          entity.AddressType(addressM.Type),
		Label:         addressM.Label,
		RecipientName: addressM.RecipientName,
		Phone:         addressM.Phone,
		Line1:         addressM.Line1,
		Line2:         addressM.Line2,
		City:          addressM.City,
		State:         addressM.State,
		PostalCode:    addressM.PostalCode,
		CountryID:     addressM.CountryID,
		IsDefault:     addressM.IsDefault,
		CreatedAt:     addressM.CreatedAt,
		UpdatedAt:     addressM.UpdatedAt,
	}
}

func fromAddressDomain(address *entity.Address) *model.AddressModel {
	return &model.AddressModel{
		Base:          model.Base{ID: address.ID, CreatedAt: address.CreatedAt, UpdatedAt: address.UpdatedAt},
		UserID:        address.UserID,
		Type:          string(address.Type),
		Label:         address.Label,
		RecipientName: address.RecipientName,
		Phone:         address.Phone,
		Line1:         address.Line1,
		Line2:         address.Line2,
		City:          address.City,
		State:         address.State,
		PostalCode:    address.PostalCode,
		CountryID:     address.CountryID,
		IsDefault:     address.IsDefault,
	}
}
