package postgres

import (
	"context"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type refundRepository struct {
	db *gorm.DB
}

// NewRefundRepository is the constructor for refundRepository.
func NewRefundRepository(db *gorm.DB) repository.RefundRepository {
	return &refundRepository{db: db}
}

// Create inserts the refund together with its items.
func (repo *refundRepository) Create(ctx context.Context, refund *entity.Refund) error {
	refundM := fromRefundDomain(refund)
	if err := repo.db.WithContext(ctx).Create(refundM).Error; err != nil {
		return writeError(err, domainerrors.ErrConflict.WithDetails("refund reference already exists"), domainerrors.ErrOrderNotFound, "failed to create refund")
	}

	refund.ID = refundM.ID
	refund.CreatedAt = refundM.CreatedAt
	refund.UpdatedAt = refundM.UpdatedAt
	for i, itemM := range refundM.Items {
		refund.Items[i].ID = itemM.ID
		refund.Items[i].RefundID = refundM.ID
	}

	return nil
}

func (repo *refundRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Refund, error) {
	var refundM model.RefundModel
	if err := repo.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&refundM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrRefundNotFound, "failed to find refund")
	}

	return toRefundDomain(&refundM), nil
}

func (repo *refundRepository) List(ctx context.Context, filter repository.RefundFilter) (*repository.Page[*entity.Refund], error) {
	q := repo.db.WithContext(ctx).Model(&model.RefundModel{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}

	rows, total, err := findPage[model.RefundModel](q, filter.Pagination, "created_at DESC, id", preload("Items"))
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list refunds")
	}

	return repository.NewPage(mapSlice(rows, toRefundDomain), total, filter.Pagination), nil
}

func (repo *refundRepository) Update(ctx context.Context, refund *entity.Refund) error {
	refundM := fromRefundDomain(refund)
	result := repo.db.WithContext(ctx).Model(refundM).
		Select("status", "gateway_refund_id", "admin_note", "processed_at").
		Updates(refundM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update refund")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRefundNotFound
	}

	refund.UpdatedAt = refundM.UpdatedAt

	return nil
}

func (repo *refundRepository) SumByTransaction(ctx context.Context, transactionID uuid.UUID, statuses ...entity.RefundStatus) (decimal.Decimal, error) {
	q := repo.db.WithContext(ctx).Model(&model.RefundModel{}).Where("transaction_id = ?", transactionID)
	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, status := range statuses {
			values = append(values, string(status))
		}
		q = q.Where("status IN ?", values)
	}

	var sum decimalSum
	if err := q.Select("SUM(amount) AS total").Scan(&sum).Error; err != nil {
		return decimal.Zero, domainerrors.NewDatabaseExecuteError(err, "failed to sum refunds")
	}

	return sum.value(), nil
}

func toRefundDomain(refundM *model.RefundModel) *entity.Refund {
	refund := &entity.Refund{
		ID:              refundM.ID,
		OrderID:         refundM.OrderID,
		UserID:          refundM.UserID,
		TransactionID:   refundM.TransactionID,
		Reference:       refundM.Reference,
		Amount:          refundM.Amount,
		Reason:          refundM.Reason,
		Status:          entity.RefundStatus(refundM.Status),
		Restock:         refundM.Restock,
		GatewayRefundID: refundM.GatewayRefundID,
		AdminNote:       refundM.AdminNote,
		ProcessedAt:     refundM.ProcessedAt,
		CreatedAt:       refundM.CreatedAt,
		UpdatedAt:       refundM.UpdatedAt,
	}
	for i := range refundM.Items {
		itemM := &refundM.Items[i]
		refund.Items = append(refund.Items, &entity.RefundItem{
			ID:          itemM.ID,
			RefundID:    itemM.RefundID,
			OrderItemID: itemM.OrderItemID,
			Quantity:    itemM.Quantity,
		})
	}

	return refund
}

func fromRefundDomain(refund *entity.Refund) *model.RefundModel {
	refundM := &model.RefundModel{
		Base:            model.Base{ID: refund.ID, CreatedAt: refund.CreatedAt, UpdatedAt: refund.UpdatedAt},
		OrderID:         refund.OrderID,
		UserID:          refund.UserID,
		TransactionID:   refund.TransactionID,
		Reference:       refund.Reference,
		Amount:          refund.Amount,
		Reason:          refund.Reason,
		Status:          string(refund.Status),
		Restock:         refund.Restock,
		GatewayRefundID: refund.GatewayRefundID,
		AdminNote:       refund.AdminNote,
		ProcessedAt:     refund.ProcessedAt,
	}
	for _, item := range refund.Items {
		refundM.Items = append(refundM.Items, model.RefundItemModel{
			Base:        model.Base{ID: item.ID},
			OrderItemID: item.OrderItemID,
			Quantity:    item.Quantity,
		})
	}

	return refundM
}
