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

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

func (repo *cartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	var itemMs []model.CartItemModel
	err := repo.db.WithContext(ctx).
		Preload("Product").
		Preload("Variant").
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&itemMs).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list cart items")
	}

	return mapSlice(itemMs, toCartItemDomain), nil
}

func (repo *cartRepository) FindLine(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) (*entity.CartItem, error) {
	q := repo.db.WithContext(ctx).
		Preload("Product").
		Preload("Variant").
		Where("user_id = ? AND product_id = ?", userID, productID)
	if variantID != nil {
		q = q.Where("variant_id = ?", *variantID)
	} else {
		q = q.Where("variant_id IS NULL")
	}

	var itemM model.CartItemModel
	if err := q.First(&itemM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrCartItemNotFound, "failed to find cart line")
	}

	return toCartItemDomain(&itemM), nil
}

func (repo *cartRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.CartItem, error) {
	var itemM model.CartItemModel
	err := repo.db.WithContext(ctx).
		Preload("Product").
		Preload("Variant").
		Where("id = ? AND user_id = ?", id, userID).
		First(&itemM).Error
	if err != nil {
		return nil, readError(err, domainerrors.ErrCartItemNotFound, "failed to find cart item")
	}

	return toCartItemDomain(&itemM), nil
}

func (repo *cartRepository) Create(ctx context.Context, item *entity.CartItem) error {
	itemM := &model.CartItemModel{
		Base:      model.Base{ID: item.ID},
		UserID:    item.UserID,
		ProductID: item.ProductID,
		VariantID: item.VariantID,
		Quantity:  item.Quantity,
	}
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(itemM).Error; err != nil {
		return writeError(err, nil, domainerrors.ErrProductNotFound, "failed to create cart item")
	}

	item.ID = itemM.ID
	item.CreatedAt = itemM.CreatedAt
	item.UpdatedAt = itemM.UpdatedAt

	return nil
}

func (repo *cartRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	result := repo.db.WithContext(ctx).Model(&model.CartItemModel{}).Where("id = ?", id).Update("quantity", quantity)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update cart item")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCartItemNotFound
	}

	return nil
}

func (repo *cartRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.CartItemModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete cart item")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCartItemNotFound
	}

	return nil
}

func (repo *cartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CartItemModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear cart")
	}

	return nil
}

func toCartItemDomain(itemM *model.CartItemModel) *entity.CartItem {
	item := &entity.CartItem{
		ID:        itemM.ID,
		UserID:    itemM.UserID,
		ProductID: itemM.ProductID,
		VariantID: itemM.VariantID,
		Quantity:  itemM.Quantity,
		CreatedAt: itemM.CreatedAt,
		UpdatedAt: itemM.UpdatedAt,
	}
	if itemM.Product != nil {
		item.Product = toProductDomain(itemM.Product)
	}
	if itemM.Variant != nil {
		item.Variant = toVariantDomain(itemM.Variant)
	}

	return item
}
