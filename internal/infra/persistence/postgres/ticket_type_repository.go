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

type ticketTypeRepository struct {
	db *gorm.DB
}

// NewTicketTypeRepository is the constructor for ticketTypeRepository.
func NewTicketTypeRepository(db *gorm.DB) repository.TicketTypeRepository {
	return &ticketTypeRepository{db: db}
}

func (repo *ticketTypeRepository) Create(ctx context.Context, ticketType *entity.TicketType) error {
	ticketTypeM := fromTicketTypeDomain(ticketType)
	if err := repo.db.WithContext(ctx).Create(ticketTypeM).Error; err != nil {
		return writeError(err, nil, domainerrors.ErrEventNotFound, "failed to create ticket type")
	}

	ticketType.ID = ticketTypeM.ID
	ticketType.CreatedAt = ticketTypeM.CreatedAt
	ticketType.UpdatedAt = ticketTypeM.UpdatedAt

	return nil
}

func (repo *ticketTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TicketType, error) {
	var ticketTypeM model.TicketTypeModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&ticketTypeM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrTicketTypeNotFound, "failed to find ticket type")
	}

	return toTicketTypeDomain(&ticketTypeM), nil
}

func (repo *ticketTypeRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*entity.TicketType, error) {
	var ticketTypeMs []model.TicketTypeModel
	if err := repo.db.WithContext(ctx).Where("event_id = ?", eventID).Order("price, name").Find(&ticketTypeMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list ticket types")
	}

	return mapSlice(ticketTypeMs, toTicketTypeDomain), nil
}

func (repo *ticketTypeRepository) Update(ctx context.Context, ticketType *entity.TicketType) error {
	ticketTypeM := fromTicketTypeDomain(ticketType)
	// sold may have grown since the caller read it
	result := repo.db.WithContext(ctx).Model(ticketTypeM).
		Where("sold <= ?", ticketType.Quantity).
		Select("name", "price", "quantity", "sale_starts_at", "sale_ends_at", "is_active").
		Updates(ticketTypeM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update ticket type")
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := repo.db.WithContext(ctx).Model(&model.TicketTypeModel{}).Where("id = ?", ticketType.ID).Count(&count).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to update ticket type")
		}
		if count > 0 {
			return domainerrors.ErrTicketQuantityBelowSold
		}

		return domainerrors.ErrTicketTypeNotFound
	}

	ticketType.UpdatedAt = ticketTypeM.UpdatedAt

	return nil
}

func (repo *ticketTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.TicketTypeModel{}, "id = ?", id)
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrTicketTypeHasSales
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete ticket type")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTicketTypeNotFound
	}

	return nil
}

func (repo *ticketTypeRepository) IncrementSold(ctx context.Context, id uuid.UUID, qty int) error {
	result := repo.db.WithContext(ctx).Model(&model.TicketTypeModel{}).
		Where("id = ? AND sold + ? <= quantity", id, qty).
		UpdateColumn("sold", gorm.Expr("sold + ?", qty))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to reserve tickets")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTicketsUnavailable
	}

	return nil
}

func (repo *ticketTypeRepository) DecrementSold(ctx context.Context, id uuid.UUID, qty int) error {
	result := repo.db.WithContext(ctx).Model(&model.TicketTypeModel{}).
		Where("id = ? AND sold >= ?", id, qty).
		UpdateColumn("sold", gorm.Expr("sold - ?", qty))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to release tickets")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTicketTypeNotFound
	}

	return nil
}

func (repo *ticketTypeRepository) SumSoldByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var sum struct{ Total int64 }
	err := repo.db.WithContext(ctx).Model(&model.TicketTypeModel{}).
		Where("event_id = ?", eventID).
		Select("COALESCE(SUM(sold), 0) AS total").
		Scan(&sum).Error
	if err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to sum sold tickets")
	}

	return sum.Total, nil
}

func (repo *ticketTypeRepository) TotalSold(ctx context.Context) (int64, error) {
	var sum struct{ Total int64 }
	if err := repo.db.WithContext(ctx).Model(&model.TicketTypeModel{}).Select("COALESCE(SUM(sold), 0) AS total").Scan(&sum).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to sum sold tickets")
	}

	return sum.Total, nil
}

func toTicketTypeDomain(ticketTypeM *model.TicketTypeModel) *entity.TicketType {
	return &entity.TicketType{
		ID:           ticketTypeM.ID,
		EventID:      ticketTypeM.EventID,
		Name:         ticketTypeM.Name,
		Price:        ticketTypeM.Price,
		Quantity:     ticketTypeM.Quantity,
		Sold:         ticketTypeM.Sold,
		SaleStartsAt: ticketTypeM.SaleStartsAt,
		SaleEndsAt:   ticketTypeM.SaleEndsAt,
		IsActive:     ticketTypeM.IsActive,
		CreatedAt:    ticketTypeM.CreatedAt,
		UpdatedAt:    ticketTypeM.UpdatedAt,
	}
}

func fromTicketTypeDomain(ticketType *entity.TicketType) *model.TicketTypeModel {
	return &model.TicketTypeModel{
		Base:         model.Base{ID: ticketType.ID, CreatedAt: ticketType.CreatedAt, UpdatedAt: ticketType.UpdatedAt},
		EventID:      ticketType.EventID,
		Name:         ticketType.Name,
		Price:        ticketType.Price,
		Quantity:     ticketType.Quantity,
		Sold:         ticketType.Sold,
		SaleStartsAt: ticketType.SaleStartsAt,
		SaleEndsAt:   ticketType.SaleEndsAt,
		IsActive:     ticketType.IsActive,
	}
}
