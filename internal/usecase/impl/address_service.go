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

type addressService struct {
	txManager   repository.TransactionManager
	addressRepo repository.AddressRepository
	logger      *slog.Logger
}

// AddressServiceParams holds dependencies for AddressService, injected by Fx.
type AddressServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AddressRepo repository.AddressRepository
	Logger      *slog.Logger
}

// NewAddressService creates a new address service instance
func NewAddressService(params AddressServiceParams) usecase.AddressUsecase {
	return &addressService{
		txManager:   params.TxManager,
		addressRepo: params.AddressRepo,
		logger:      params.Logger,
	}
}

func (srv *addressService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *addressService) List(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	return srv.addressRepo.ListByUser(ctx, userID)
}

func (srv *addressService) Get(ctx context.Context, userID, id uuid.UUID) (*entity.Address, error) {
	return srv.addressRepo.FindByID(ctx, userID, id)
}

// Create stores the address. The first address of a type always becomes its default.
func (srv *addressService) Create(ctx context.Context, userID uuid.UUID, input *usecase.AddressInput) (*entity.Address, error) {
	address := &entity.Address{UserID: userID}
	applyAddressInput(address, input)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.AddressRepo()

		count, err := addressRepo.CountByType(ctx, userID, address.Type)
		if err != nil {
			return err
		}
		if count == 0 {
			address.IsDefault = true
		}

		if err := addressRepo.Create(ctx, address); err != nil {
			return err
		}
		if address.IsDefault {
			return addressRepo.UnsetDefaults(ctx, userID, address.Type, address.ID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Address created", slog.Any("userID", userID), slog.String("type", string(address.Type)))

	return address, nil
}

func (srv *addressService) Update(ctx context.Context, userID, id uuid.UUID, input *usecase.AddressInput) (*entity.Address, error) {
	var address *entity.Address
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.AddressRepo()

		var err error
		address, err = addressRepo.FindByID(ctx, userID, id)
		if err != nil {
			return err
		}

		wasDefault := address.IsDefault
		oldType := address.Type
		applyAddressInput(address, input)
		// a default cannot be unset directly; another address has to take over
		if wasDefault && oldType == address.Type {
			address.IsDefault = true
		}
		if !address.IsDefault {
			count, err := addressRepo.CountByType(ctx, userID, address.Type)
			if err != nil {
				return err
			}
			if oldType != address.Type && count == 0 {
				address.IsDefault = true
			}
		}

		if err := addressRepo.Update(ctx, address); err != nil {
			return err
		}
		if wasDefault && oldType != address.Type {
			if err := promoteLatestAddress(ctx, addressRepo, userID, oldType); err != nil {
				return err
			}
		}
		if address.IsDefault {
			return addressRepo.UnsetDefaults(ctx, userID, address.Type, address.ID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return address, nil
}

// promoteLatestAddress makes the most recent address of the type its default.
// Nothing happens when the user has no address of that type left.
func promoteLatestAddress(ctx context.Context, addressRepo repository.AddressRepository, userID uuid.UUID, addressType entity.AddressType) error {
	addresses, err := addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	var latest *entity.Address
	for _, a := range addresses {
		if a.Type != addressType {
			continue
		}
		if latest == nil || !a.CreatedAt.Before(latest.CreatedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil
	}

	latest.IsDefault = true
	if err := addressRepo.Update(ctx, latest); err != nil {
		return err
	}

	return addressRepo.UnsetDefaults(ctx, userID, addressType, latest.ID)
}

func (srv *addressService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	address, err := srv.addressRepo.FindByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if address.IsDefault {
		return domainerrors.ErrDefaultAddressDelete
	}

	return srv.addressRepo.Delete(ctx, userID, id)
}

func (srv *addressService) SetDefault(ctx context.Context, userID, id uuid.UUID) (*entity.Address, error) {
	var address *entity.Address
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.AddressRepo()

		var err error
		address, err = addressRepo.FindByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if address.IsDefault {
			return nil
		}

		address.IsDefault = true
		if err := addressRepo.Update(ctx, address); err != nil {
			return err
		}

		return addressRepo.UnsetDefaults(ctx, userID, address.Type, address.ID)
	})
	if err != nil {
		return nil, err
	}

	return address, nil
}

func applyAddressInput(address *entity.Address, input *usecase.AddressInput) {
	address.Type = input.Type
	if address.Type == "" {
		address.Type = entity.AddressTypeShipping
	}
	address.Label = strings.TrimSpace(input.Label)
	address.RecipientName = strings.TrimSpace(input.RecipientName)
	address.Phone = strings.TrimSpace(input.Phone)
	address.Line1 = strings.TrimSpace(input.Line1)
	address.Line2 = strings.TrimSpace(input.Line2)
	address.City = strings.TrimSpace(input.City)
	address.State = strings.TrimSpace(input.State)
	address.PostalCode = strings.TrimSpace(input.PostalCode)
	address.CountryID = input.CountryID
	address.IsDefault = input.IsDefault
}
