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

type variantRepository struct {
	db *gorm.DB
}

// NewVariantRepository is the constructor for variantRepository.
func NewVariantRepository(db *gorm.DB) repository.VariantRepository {
	return &variantRepository{db: db}
}

func (repo *variantRepository) Create(ctx context.Context, variant *entity.ProductVariant) error {
	variantM := fromVariantDomain(variant)
	if err := repo.db.WithContext(ctx).Create(variantM).Error; err != nil {
		return writeError(err, domainerrors.ErrVariantAlreadyExists, domainerrors.ErrProductNotFound, "failed to create variant")
	}

	variant.ID = variantM.ID
	variant.CreatedAt = variantM.CreatedAt
	variant.UpdatedAt = variantM.UpdatedAt

	return nil
}

func (repo *variantRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ProductVariant, error) {
	var variantM model.ProductVariantModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&variantM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrVariantNotFound, "failed to find variant")
	}

	return toVariantDomain(&variantM), nil
}

func (repo *variantRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.ProductVariant, error) {
	var variantMs []model.ProductVariantModel
	if err := repo.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at").Find(&variantMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list variants")
	}

	return mapSlice(variantMs, toVariantDomain), nil
}

func (repo *variantRepository) Update(ctx context.Context, variant *entity.ProductVariant) error {
	variantM := fromVariantDomain(variant)
	result := repo.db.WithContext(ctx).Model(variantM).
		Select("sku", "name", "price", "stock", "attribute_value_ids").
		Updates(variantM)
	if result.Error != nil {
		return writeError(result.Error, domainerrors.ErrVariantAlreadyExists, nil, "failed to update variant")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrVariantNotFound
	}

	variant.UpdatedAt = variantM.UpdatedAt

	return nil
}

func (repo *variantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)
	if err := db.Where("variant_id = ?", id).Delete(&model.CartItemModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete variant cart lines")
	}

	result := db.Delete(&model.ProductVariantModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete variant")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrVariantNotFound
	}

	return nil
}

func (repo *variantRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return decrementStock(ctx, repo.db, &model.ProductVariantModel{}, id, qty)
}

func (repo *variantRepository) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return incrementStock(ctx, repo.db, &model.ProductVariantModel{}, id, qty, domainerrors.ErrVariantNotFound)
}

func toVariantDomain(variantM *model.ProductVariantModel) *entity.ProductVariant {
	ids := variantM.AttributeValueIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}

	return &entity.ProductVariant{
		ID:                variantM.ID,
		ProductID:         variantM.ProductID,
		SKU:               variantM.SKU,
		Name:              variantM.Name,
		Price:             variantM.Price,
		Stock:             variantM.Stock,
		AttributeValueIDs: ids,
		CreatedAt:         variantM.CreatedAt,
		UpdatedAt:         variantM.UpdatedAt,
	}
}

func fromVariantDomain(variant *entity.ProductVariant) *model.ProductVariantModel {
	return &model.ProductVariantModel{
		Base:              model.Base{ID: variant.ID, CreatedAt: variant.CreatedAt, UpdatedAt: variant.UpdatedAt},
		ProductID:         variant.ProductID,
		SKU:               variant.SKU,
		Name:              variant.Name,
		Price:             variant.Price,
		Stock:             variant.Stock,
		AttributeValueIDs: variant.AttributeValueIDs,
	}
}
