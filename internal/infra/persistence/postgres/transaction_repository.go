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

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository is the constructor for transactionRepository.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (repo *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	txnM := fromTransactionDomain(txn)
	if err := repo.db.WithContext(ctx).Create(txnM).Error; err != nil {
		return writeError(err, domainerrors.ErrConflict.WithDetails("transaction already exists"), domainerrors.ErrOrderNotFound, "failed to create transaction")
	}

	txn.ID = txnM.ID
	txn.CreatedAt = txnM.CreatedAt
	txn.UpdatedAt = txnM.UpdatedAt

	return nil
}

func (repo *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return repo.findOne(ctx, "id = ?", id)
}

func (repo *transactionRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Transaction, error) {
	return repo.findOne(ctx, "order_id = ?", orderID)
}

func (repo *transactionRepository) FindByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	return repo.findOne(ctx, "reference = ? OR (gateway_reference <> '' AND gateway_reference = ?)", reference, reference)
}

func (repo *transactionRepository) findOne(ctx context.Context, cond string, args ...any) (*entity.Transaction, error) {
	var txnM model.TransactionModel
	if err := repo.db.WithContext(ctx).Where(cond, args...).First(&txnM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrTransactionNotFound, "failed to find transaction")
	}

	return toTransactionDomain(&txnM), nil
}

// Update saves the gateway fields and status. refunded_amount moves only through AddRefunded.
func (repo *transactionRepository) Update(ctx context.Context, txn *entity.Transaction) error {
	txnM := fromTransactionDomain(txn)
	result := repo.db.WithContext(ctx).Model(txnM).
		Select("gateway_reference", "status", "checkout_url", "paid_at").
		Updates(txnM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update transaction")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTransactionNotFound
	}

	txn.UpdatedAt = txnM.UpdatedAt

	return nil
}

// AddRefunded grows refunded_amount only while it stays within amount.
func (repo *transactionRepository) AddRefunded(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	result := repo.db.WithContext(ctx).Model(&model.TransactionModel{}).
		Where("id = ? AND refunded_amount + ? <= amount", id, amount).
		UpdateColumn("refunded_amount", gorm.Expr("refunded_amount + ?", amount))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to add refunded amount")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRefundExceedsAmount
	}

	return nil
}

// Revenue sums settled amounts minus refunds.
func (repo *transactionRepository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var sum decimalSum
	err := repo.db.WithContext(ctx).Model(&model.TransactionModel{}).
		Where("status IN ?", []string{
			string(entity.TransactionStatusPaid),
			string(entity.TransactionStatusPartiallyRefunded),
			string(entity.TransactionStatusRefunded),
		}).
		Select("SUM(amount - refunded_amount) AS total").
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, domainerrors.NewDatabaseExecuteError(err, "failed to sum revenue")
	}

	return sum.value(), nil
}

type decimalSum struct {
	Total decimal.NullDecimal
}

func (s decimalSum) value() decimal.Decimal {
	if !s.Total.Valid {
		return decimal.Zero
	}

	return s.Total.Decimal
}

func toTransactionDomain(txnM *model.TransactionModel) *entity.Transaction {
	return &entity.Transaction{
		ID:               txnM.ID,
		OrderID:          txnM.OrderID,
		Reference:        txnM.Reference,
		GatewayReference: txnM.GatewayReference,
		PaymentMethod:    txnM.PaymentMethod,
		Amount:           txnM.Amount,
		RefundedAmount:   txnM.RefundedAmount,
		Currency:         txnM.Currency,
		Status:           entity.TransactionStatus(txnM.Status),
		CheckoutURL:      txnM.CheckoutURL,
		PaidAt:           txnM.PaidAt,
		CreatedAt:        txnM.CreatedAt,
		UpdatedAt:        txnM.UpdatedAt,
	}
}

func fromTransactionDomain(txn *entity.Transaction) *model.TransactionModel {
	return &model.TransactionModel{
		Base:             model.Base{ID: txn.ID, CreatedAt: txn.CreatedAt, UpdatedAt: txn.UpdatedAt},
		OrderID:          txn.OrderID,
		Reference:        txn.Reference,
		GatewayReference: txn.GatewayReference,
		PaymentMethod:    txn.PaymentMethod,
		Amount:           txn.Amount,
		RefundedAmount:   txn.RefundedAmount,
		Currency:         txn.Currency,
		Status:           string(txn.Status),
		CheckoutURL:      txn.CheckoutURL,
		PaidAt:           txn.PaidAt,
	}
}
