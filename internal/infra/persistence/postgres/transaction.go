// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"ministry/internal/domain/repository"
	"ministry/internal/errors"

	"gorm.io/gorm"
)

// gormTransactionManager implements the domain's TransactionManager interface using GORM.
type gormTransactionManager struct {
	db *gorm.DB
}

// gormRepositoryFactory hands out repositories bound to one transaction.
type gormRepositoryFactory struct {
	tx *gorm.DB
}

func (f *gormRepositoryFactory) UserRepo() repository.UserRepository {
	return NewUserRepository(f.tx)
}

func (f *gormRepositoryFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return NewRefreshTokenRepository(f.tx)
}

func (f *gormRepositoryFactory) RoleRepo() repository.RoleRepository {
	return NewRoleRepository(f.tx)
}

func (f *gormRepositoryFactory) DepartmentRepo() repository.DepartmentRepository {
	return NewDepartmentRepository(f.tx)
}

func (f *gormRepositoryFactory) AddressRepo() repository.AddressRepository {
	return NewAddressRepository(f.tx)
}

func (f *gormRepositoryFactory) ReferenceRepo() repository.ReferenceRepository {
	return NewReferenceRepository(f.tx)
}

func (f *gormRepositoryFactory) CatalogRepo() repository.CatalogRepository {
	return NewCatalogRepository(f.tx)
}

func (f *gormRepositoryFactory) ProductRepo() repository.ProductRepository {
	return NewProductRepository(f.tx)
}

func (f *gormRepositoryFactory) VariantRepo() repository.VariantRepository {
	return NewVariantRepository(f.tx)
}

func (f *gormRepositoryFactory) CartRepo() repository.CartRepository {
	return NewCartRepository(f.tx)
}

func (f *gormRepositoryFactory) OrderRepo() repository.OrderRepository {
	return NewOrderRepository(f.tx)
}

func (f *gormRepositoryFactory) TransactionRepo() repository.TransactionRepository {
	return NewTransactionRepository(f.tx)
}

func (f *gormRepositoryFactory) ShipmentRepo() repository.ShipmentRepository {
	return NewShipmentRepository(f.tx)
}

func (f *gormRepositoryFactory) RefundRepo() repository.RefundRepository {
	return NewRefundRepository(f.tx)
}

func (f *gormRepositoryFactory) CampaignRepo() repository.CampaignRepository {
	return NewCampaignRepository(f.tx)
}

func (f *gormRepositoryFactory) DonationRepo() repository.DonationRepository {
	return NewDonationRepository(f.tx)
}

func (f *gormRepositoryFactory) EventRepo() repository.EventRepository {
	return NewEventRepository(f.tx)
}

func (f *gormRepositoryFactory) TicketTypeRepo() repository.TicketTypeRepository {
	return NewTicketTypeRepository(f.tx)
}

func (f *gormRepositoryFactory) TicketOrderRepo() repository.TicketOrderRepository {
	return NewTicketOrderRepository(f.tx)
}

// NewTransactionManager is the constructor for gormTransactionManager.
func NewTransactionManager(db *gorm.DB) repository.TransactionManager {
	return &gormTransactionManager{db: db}
}

// Execute runs fn within a single database transaction. A returned error or a panic rolls it back.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	tx := tm.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "failed to begin transaction")
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&gormRepositoryFactory{tx: tx}); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return errors.Wrapf(err, "transaction rollback failed: %v", rbErr)
		}

		return err
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}
