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

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository is the constructor for catalogRepository.
func NewCatalogRepository(db *gorm.DB) repository.CatalogRepository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) CreateCategory(ctx context.Context, category *entity.ProductCategory) error {
	categoryM := fromCategoryDomain(category)
	if err := repo.db.WithContext(ctx).Create(categoryM).Error; err != nil {
		return writeError(err, domainerrors.ErrCategoryAlreadyExists, domainerrors.ErrCategoryNotFound, "failed to create category")
	}

	category.ID = categoryM.ID
	category.CreatedAt = categoryM.CreatedAt
	category.UpdatedAt = categoryM.UpdatedAt

	return nil
}

func (repo *catalogRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*entity.ProductCategory, error) {
	var categoryM model.ProductCategoryModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&categoryM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrCategoryNotFound, "failed to find category")
	}

	return toCategoryDomain(&categoryM), nil
}

func (repo *catalogRepository) ListCategories(ctx context.Context, activeOnly bool) ([]*entity.ProductCategory, error) {
	q := repo.db.WithContext(ctx).Order("name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var categoryMs []model.ProductCategoryModel
	if err := q.Find(&categoryMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list categories")
	}

	return mapSlice(categoryMs, toCategoryDomain), nil
}

func (repo *catalogRepository) UpdateCategory(ctx context.Context, category *entity.ProductCategory) error {
	categoryM := fromCategoryDomain(category)
	result := repo.db.WithContext(ctx).Model(categoryM).
		Select("parent_id", "name", "slug", "description", "is_active").
		Updates(categoryM)
	if result.Error != nil {
		return writeError(result.Error, domainerrors.ErrCategoryAlreadyExists, domainerrors.ErrCategoryNotFound, "failed to update category")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCategoryNotFound
	}

	category.UpdatedAt = categoryM.UpdatedAt

	return nil
}

func (repo *catalogRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)
	if err := db.Model(&model.ProductCategoryModel{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to detach child categories")
	}

	result := db.Delete(&model.ProductCategoryModel{}, "id = ?", id)
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrCategoryInUse
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete category")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCategoryNotFound
	}

	return nil
}

func (repo *catalogRepository) CountCategoryProducts(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.ProductModel{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count category products")
	}

	return count, nil
}

func (repo *catalogRepository) CreateAttribute(ctx context.Context, attribute *entity.ProductAttribute) error {
	attrM := &model.ProductAttributeModel{Base: model.Base{ID: attribute.ID}, Name: attribute.Name, Slug: attribute.Slug}
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(attrM).Error; err != nil {
		return writeError(err, domainerrors.ErrAttributeAlreadyExists, nil, "failed to create attribute")
	}

	attribute.ID = attrM.ID
	attribute.CreatedAt = attrM.CreatedAt
	attribute.UpdatedAt = attrM.UpdatedAt

	for _, value := range attribute.Values {
		value.AttributeID = attribute.ID
		if err := repo.CreateAttributeValue(ctx, value); err != nil {
			return err
		}
	}

	return nil
}

func (repo *catalogRepository) FindAttributeByID(ctx context.Context, id uuid.UUID) (*entity.ProductAttribute, error) {
	var attrM model.ProductAttributeModel
	err := repo.db.WithContext(ctx).
		Preload("Values", func(db *gorm.DB) *gorm.DB { return db.Order("value") }).
		Where("id = ?", id).
		First(&attrM).Error
	if err != nil {
		return nil, readError(err, domainerrors.ErrAttributeNotFound, "failed to find attribute")
	}

	return toAttributeDomain(&attrM), nil
}

func (repo *catalogRepository) ListAttributes(ctx context.Context) ([]*entity.ProductAttribute, error) {
	var attrMs []model.ProductAttributeModel
	err := repo.db.WithContext(ctx).
		Preload("Values", func(db *gorm.DB) *gorm.DB { return db.Order("value") }).
		Order("name").
		Find(&attrMs).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list attributes")
	}

	return mapSlice(attrMs, toAttributeDomain), nil
}

func (repo *catalogRepository) UpdateAttribute(ctx context.Context, attribute *entity.ProductAttribute) error {
	attrM := &model.ProductAttributeModel{Base: model.Base{ID: attribute.ID}, Name: attribute.Name, Slug: attribute.Slug}
	result := repo.db.WithContext(ctx).Model(attrM).Select("name", "slug").Updates(attrM)
	if result.Error != nil {
		return writeError(result.Error, domainerrors.ErrAttributeAlreadyExists, nil, "failed to update attribute")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAttributeNotFound
	}

	attribute.UpdatedAt = attrM.UpdatedAt

	return nil
}

func (repo *catalogRepository) DeleteAttribute(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)
	if err := db.Where("attribute_id = ?", id).Delete(&model.ProductAttributeValueModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete attribute values")
	}

	result := db.Delete(&model.ProductAttributeModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete attribute")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAttributeNotFound
	}

	return nil
}

func (repo *catalogRepository) CreateAttributeValue(ctx context.Context, value *entity.ProductAttributeValue) error {
	valueM := &model.ProductAttributeValueModel{Base: model.Base{ID: value.ID}, AttributeID: value.AttributeID, Value: value.Value}
	if err := repo.db.WithContext(ctx).Create(valueM).Error; err != nil {
		return writeError(err, domainerrors.ErrAttributeAlreadyExists.WithDetails("value already exists"),
			domainerrors.ErrAttributeNotFound, "failed to create attribute value")
	}

	value.ID = valueM.ID
	value.CreatedAt = valueM.CreatedAt
	value.UpdatedAt = valueM.UpdatedAt

	return nil
}

func (repo *catalogRepository) FindAttributeValueByID(ctx context.Context, id uuid.UUID) (*entity.ProductAttributeValue, error) {
	var valueM model.ProductAttributeValueModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&valueM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrAttributeValueNotFound, "failed to find attribute value")
	}

	return toAttributeValueDomain(&valueM), nil
}

func (repo *catalogRepository) FindAttributeValuesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.ProductAttributeValue, error) {
	if len(ids) == 0 {
		return []*entity.ProductAttributeValue{}, nil
	}

	var valueMs []model.ProductAttributeValueModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&valueMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find attribute values")
	}

	return mapSlice(valueMs, toAttributeValueDomain), nil
}

func (repo *catalogRepository) UpdateAttributeValue(ctx context.Context, value *entity.ProductAttributeValue) error {
	valueM := &model.ProductAttributeValueModel{Base: model.Base{ID: value.ID}, AttributeID: value.AttributeID, Value: value.Value}
	result := repo.db.WithContext(ctx).Model(valueM).Select("value").Updates(valueM)
	if result.Error != nil {
		return writeError(result.Error, domainerrors.ErrAttributeAlreadyExists.WithDetails("value already exists"), nil, "failed to update attribute value")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAttributeValueNotFound
	}

	value.UpdatedAt = valueM.UpdatedAt

	return nil
}

func (repo *catalogRepository) DeleteAttributeValue(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.ProductAttributeValueModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete attribute value")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAttributeValueNotFound
	}

	return nil
}

func toCategoryDomain(categoryM *model.ProductCategoryModel) *entity.ProductCategory {
	return &entity.ProductCategory{
		ID:          categoryM.ID,
		ParentID:    categoryM.ParentID,
		Name:        categoryM.Name,
		Slug:        categoryM.Slug,
		Description: categoryM.Description,
		IsActive:    categoryM.IsActive,
		CreatedAt:   categoryM.CreatedAt,
		UpdatedAt:   categoryM.UpdatedAt,
	}
}

func fromCategoryDomain(category *entity.ProductCategory) *model.ProductCategoryModel {
	return &model.ProductCategoryModel{
		Base:        model.Base{ID: category.ID, CreatedAt: category.CreatedAt, UpdatedAt: category.UpdatedAt},
		ParentID:    category.ParentID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		IsActive:    category.IsActive,
	}
}

func toAttributeDomain(attrM *model.ProductAttributeModel) *entity.ProductAttribute {
	return &entity.ProductAttribute{
		ID:        attrM.ID,
		Name:      attrM.Name,
		Slug:      attrM.Slug,
		Values:    mapSlice(attrM.Values, toAttributeValueDomain),
		CreatedAt: attrM.CreatedAt,
		UpdatedAt: attrM.UpdatedAt,
	}
}

func toAttributeValueDomain(valueM *model.ProductAttributeValueModel) *entity.ProductAttributeValue {
	return &entity.ProductAttributeValue{
		ID:          valueM.ID,
		AttributeID: valueM.AttributeID,
		Value:       valueM.Value,
		CreatedAt:   valueM.CreatedAt,
		UpdatedAt:   valueM.UpdatedAt,
	}
}
