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

type ticketOrderRepository struct {
	db *gorm.DB
}

// NewTicketOrderRepository is the constructor for ticketOrderRepository.
func NewTicketOrderRepository(db *gorm.DB) repository.TicketOrderRepository {
	return &ticketOrderRepository{db: db}
}

func (repo *ticketOrderRepository) Create(ctx context.Context, order *entity.TicketOrder) error {
	orderM := fromTicketOrderDomain(order)
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(orderM).Error; err != nil {
		return writeError(err, domainerrors.ErrConflict.WithDetails("ticket reference already exists"), domainerrors.ErrTicketTypeNotFound, "failed to create ticket order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

func (repo *ticketOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).Preload("TicketType").Preload("Event")
}

func (repo *ticketOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TicketOrder, error) {
	var orderM model.TicketOrderModel
	if err := repo.preloaded(ctx).Where("id = ?", id).First(&orderM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrTicketOrderNotFound, "failed to find ticket order")
	}

	return toTicketOrderDomain(&orderM), nil
}

func (repo *ticketOrderRepository) FindByReference(ctx context.Context, reference string) (*entity.TicketOrder, error) {
	var orderM model.TicketOrderModel
	err := repo.preloaded(ctx).
		Where("reference = ? OR payment_reference = ?", reference, reference).
		First(&orderM).Error
	if err != nil {
		return nil, readError(err, domainerrors.ErrTicketOrderNotFound, "failed to find ticket order")
	}

	return toTicketOrderDomain(&orderM), nil
}

func (repo *ticketOrderRepository) List(ctx context.Context, filter repository.TicketOrderFilter) (*repository.Page[*entity.TicketOrder], error) {
	q := repo.db.WithContext(ctx).Model(&model.TicketOrderModel{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.EventID != nil {
		q = q.Where("event_id = ?", *filter.EventID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}

	rows, total, err := findPage[model.TicketOrderModel](q, filter.Pagination, "created_at DESC, id", preload("TicketType", "Event"))
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list ticket orders")
	}

	return repository.NewPage(mapSlice(rows, toTicketOrderDomain), total, filter.Pagination), nil
}

func (repo *ticketOrderRepository) TransitionStatus(ctx context.Context, order *entity.TicketOrder, from entity.TicketOrderStatus) error {
	orderM := fromTicketOrderDomain(order)
	result := repo.db.WithContext(ctx).Model(orderM).
		Where("status = ?", string(from)).
		Select("status", "code", "paid_at", "checked_in_at", "cancelled_at").
		Updates(orderM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update ticket order")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidStatusTransition.WithDetails("ticket order is no longer " + string(from))
	}

	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

func toTicketOrderDomain(orderM *model.TicketOrderModel) *entity.TicketOrder {
	order := &entity.TicketOrder{
		ID:               orderM.ID,
		UserID:           orderM.UserID,
		EventID:          orderM.EventID,
		TicketTypeID:     orderM.TicketTypeID,
		Reference:        orderM.Reference,
		PaymentReference: orderM.PaymentReference,
		Quantity:         orderM.Quantity,
		UnitPrice:        orderM.UnitPrice,
		Total:            orderM.Total,
		Status:           entity.TicketOrderStatus(orderM.Status),
		Code:             orderM.Code,
		PaidAt:           orderM.PaidAt,
		CheckedInAt:      orderM.CheckedInAt,
		CancelledAt:      orderM.CancelledAt,
		CreatedAt:        orderM.CreatedAt,
		UpdatedAt:        orderM.UpdatedAt,
	}
	if orderM.TicketType != nil {
		order.TicketType = toTicketTypeDomain(orderM.TicketType)
	}
	if orderM.Event != nil {
		order.Event = toEventDomain(orderM.Event)
	}

	return order
}

func fromTicketOrderDomain(order *entity.TicketOrder) *model.TicketOrderModel {
	return &model.TicketOrderModel{
		Base:             model.Base{ID: order.ID, CreatedAt: order.CreatedAt, UpdatedAt: order.UpdatedAt},
		UserID:           order.UserID,
		EventID:          order.EventID,
		TicketTypeID:     order.TicketTypeID,
		Reference:        order.Reference,
		PaymentReference: order.PaymentReference,
		Quantity:         order.Quantity,
		UnitPrice:        order.UnitPrice,
		Total:            order.Total,
		Status:           string(order.Status),
		Code:             order.Code,
		PaidAt:           order.PaidAt,
		CheckedInAt:      order.CheckedInAt,
		CancelledAt:      order.CancelledAt,
	}
}
