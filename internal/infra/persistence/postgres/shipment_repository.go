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

type shipmentRepository struct {
	db *gorm.DB
}

// NewShipmentRepository is the constructor for shipmentRepository.
func NewShipmentRepository(db *gorm.DB) repository.ShipmentRepository {
	return &shipmentRepository{db: db}
}

func (repo *shipmentRepository) Create(ctx context.Context, shipment *entity.Shipment) error {
	shipmentM := fromShipmentDomain(shipment)
	if err := repo.db.WithContext(ctx).Create(shipmentM).Error; err != nil {
		return writeError(err, domainerrors.ErrConflict.WithDetails("order already has a shipment"), domainerrors.ErrOrderNotFound, "failed to create shipment")
	}

	shipment.ID = shipmentM.ID
	shipment.CreatedAt = shipmentM.CreatedAt
	shipment.UpdatedAt = shipmentM.UpdatedAt

	return nil
}

func (repo *shipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Shipment, error) {
	var shipmentM model.ShipmentModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&shipmentM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrShipmentNotFound, "failed to find shipment")
	}

	return toShipmentDomain(&shipmentM), nil
}

func (repo *shipmentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Shipment, error) {
	var shipmentM model.ShipmentModel
	if err := repo.db.WithContext(ctx).Where("order_id = ?", orderID).First(&shipmentM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrShipmentNotFound, "failed to find shipment")
	}

	return toShipmentDomain(&shipmentM), nil
}

func (repo *shipmentRepository) Update(ctx context.Context, shipment *entity.Shipment) error {
	shipmentM := fromShipmentDomain(shipment)
	result := repo.db.WithContext(ctx).Model(shipmentM).
		Select("carrier", "tracking_number", "status", "estimated_delivery", "shipped_at", "delivered_at").
		Updates(shipmentM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update shipment")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrShipmentNotFound
	}

	shipment.UpdatedAt = shipmentM.UpdatedAt

	return nil
}

func toShipmentDomain(shipmentM *model.ShipmentModel) *entity.Shipment {
	return &entity.Shipment{
		ID:                shipmentM.ID,
		OrderID:           shipmentM.OrderID,
		Carrier:           shipmentM.Carrier,
		TrackingNumber:    shipmentM.TrackingNumber,
		Status:            entity.ShipmentStatus(shipmentM.Status),
		EstimatedDelivery: shipmentM.EstimatedDelivery,
		ShippedAt:         shipmentM.ShippedAt,
		DeliveredAt:       shipmentM.DeliveredAt,
		CreatedAt:         shipmentM.CreatedAt,
		UpdatedAt:         shipmentM.UpdatedAt,
	}
}

func fromShipmentDomain(shipment *entity.Shipment) *model.ShipmentModel {
	return &model.ShipmentModel{
		Base:              model.Base{ID: shipment.ID, CreatedAt: shipment.CreatedAt, UpdatedAt: shipment.UpdatedAt},
		OrderID:           shipment.OrderID,
		Carrier:           shipment.Carrier,
		TrackingNumber:    shipment.TrackingNumber,
		Status:            string(shipment.Status),
		EstimatedDelivery: shipment.EstimatedDelivery,
		ShippedAt:         shipment.ShippedAt,
		DeliveredAt:       shipment.DeliveredAt,
	}
}
