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

type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository is the constructor for campaignRepository.
func NewCampaignRepository(db *gorm.DB) repository.CampaignRepository {
	return &campaignRepository{db: db}
}

func (repo *campaignRepository) CreateCategory(ctx context.Context, category *entity.DonationCategory) error {
	categoryM := fromDonationCategoryDomain(category)
	if err := repo.db.WithContext(ctx).Create(categoryM).Error; err != nil {
		return writeError(err, domainerrors.ErrDonationCategoryAlreadyExists, nil, "failed to create donation category")
	}

	category.ID = categoryM.ID
	category.CreatedAt = categoryM.CreatedAt
	category.UpdatedAt = categoryM.UpdatedAt

	return nil
}

func (repo *campaignRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*entity.DonationCategory, error) {
	var categoryM model.DonationCategoryModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&categoryM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrDonationCategoryNotFound, "failed to find donation category")
	}

	return toDonationCategoryDomain(&categoryM), nil
}

func (repo *campaignRepository) ListCategories(ctx context.Context, activeOnly bool) ([]*entity.DonationCategory, error) {
	q := repo.db.WithContext(ctx).Order("name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var categoryMs []model.DonationCategoryModel
	if err := q.Find(&categoryMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list donation categories")
	}

	return mapSlice(categoryMs, toDonationCategoryDomain), nil
}

func (repo *campaignRepository) UpdateCategory(ctx context.Context, category *entity.DonationCategory) error {
	categoryM := fromDonationCategoryDomain(category)
	result := repo.db.WithContext(ctx).Model(categoryM).
		Select("name", "slug", "description", "is_active").
		Updates(categoryM)
	if result.Error != nil {
		return writeError(result.Error, domainerrors.ErrDonationCategoryAlreadyExists, nil, "failed to update donation category")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDonationCategoryNotFound
	}

	category.UpdatedAt = categoryM.UpdatedAt

	return nil
}

// DeleteCategory detaches campaigns and donations from the category before removing it.
func (repo *campaignRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)
	if err := db.Model(&model.DonationCampaignModel{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to detach campaigns")
	}
	if err := db.Model(&model.DonationModel{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to detach donations")
	}

	result := db.Delete(&model.DonationCategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete donation category")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDonationCategoryNotFound
	}

	return nil
}

func (repo *campaignRepository) Create(ctx context.Context, campaign *entity.DonationCampaign) error {
	campaignM := fromCampaignDomain(campaign)
	if err := repo.db.WithContext(ctx).Create(campaignM).Error; err != nil {
		return writeError(err, domainerrors.ErrCampaignAlreadyExists, domainerrors.ErrDonationCategoryNotFound, "failed to create campaign")
	}

	campaign.ID = campaignM.ID
	campaign.CreatedAt = campaignM.CreatedAt
	campaign.UpdatedAt = campaignM.UpdatedAt

	return nil
}

func (repo *campaignRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.DonationCampaign, error) {
	var campaignM model.DonationCampaignModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&campaignM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrCampaignNotFound, "failed to find campaign")
	}

	return toCampaignDomain(&campaignM), nil
}

func (repo *campaignRepository) FindBySlug(ctx context.Context, slug string) (*entity.DonationCampaign, error) {
	var campaignM model.DonationCampaignModel
	if err := repo.db.WithContext(ctx).Where("slug = ?", slug).First(&campaignM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrCampaignNotFound, "failed to find campaign")
	}

	return toCampaignDomain(&campaignM), nil
}

func (repo *campaignRepository) List(ctx context.Context, filter repository.CampaignFilter) (*repository.Page[*entity.DonationCampaign], error) {
	q := repo.db.WithContext(ctx).Model(&model.DonationCampaignModel{}).Scopes(searchScope(filter.Search, "title", "description"))
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}

	rows, total, err := findPage[model.DonationCampaignModel](q, filter.Pagination, "created_at DESC, id")
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list campaigns")
	}

	return repository.NewPage(mapSlice(rows, toCampaignDomain), total, filter.Pagination), nil
}

func (repo *campaignRepository) Update(ctx context.Context, campaign *entity.DonationCampaign) error {
	campaignM := fromCampaignDomain(campaign)
	result := repo.db.WithContext(ctx).Model(campaignM).
		Select("category_id", "title", "slug", "description", "goal_amount", "starts_at", "ends_at", "status", "image").
		Updates(campaignM)
	if result.Error != nil {
		return writeError(result.Error, domainerrors.ErrCampaignAlreadyExists, domainerrors.ErrDonationCategoryNotFound, "failed to update campaign")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}

	campaign.UpdatedAt = campaignM.UpdatedAt

	return nil
}

// Delete keeps donation history by detaching donations from the campaign.
func (repo *campaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)
	if err := db.Model(&model.DonationModel{}).Where("campaign_id = ?", id).Update("campaign_id", nil).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to detach donations")
	}

	result := db.Delete(&model.DonationCampaignModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete campaign")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}

	return nil
}

func (repo *campaignRepository) AddToTotal(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	result := repo.db.WithContext(ctx).Model(&model.DonationCampaignModel{}).
		Where("id = ?", id).
		UpdateColumn("total_collected", gorm.Expr(
			"CASE WHEN total_collected + ? < 0 THEN 0 ELSE total_collected + ? END", delta, delta,
		))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update campaign total")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}

	return nil
}

func (repo *campaignRepository) SetTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error {
	result := repo.db.WithContext(ctx).Model(&model.DonationCampaignModel{}).
		Where("id = ?", id).
		UpdateColumn("total_collected", total)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to set campaign total")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}

	return nil
}

func toDonationCategoryDomain(categoryM *model.DonationCategoryModel) *entity.DonationCategory {
	return &entity.DonationCategory{
		ID:          categoryM.ID,
		Name:        categoryM.Name,
		Slug:        categoryM.Slug,
		Description: categoryM.Description,
		IsActive:    categoryM.IsActive,
		CreatedAt:   categoryM.CreatedAt,
		UpdatedAt:   categoryM.UpdatedAt,
	}
}

func fromDonationCategoryDomain(category *entity.DonationCategory) *model.DonationCategoryModel {
	return &model.DonationCategoryModel{
		Base:        model.Base{ID: category.ID, CreatedAt: category.CreatedAt, UpdatedAt: category.UpdatedAt},
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		IsActive:    category.IsActive,
	}
}

func toCampaignDomain(campaignM *model.DonationCampaignModel) *entity.DonationCampaign {
	campaign := &entity.DonationCampaign{
		ID:             campaignM.ID,
		CategoryID:     campaignM.CategoryID,
		Title:          campaignM.Title,
		Slug:           campaignM.Slug,
		Description:    campaignM.Description,
		GoalAmount:     campaignM.GoalAmount,
		TotalCollected: campaignM.TotalCollected,
		StartsAt:       campaignM.StartsAt,
		EndsAt:         campaignM.EndsAt,
		Status:         entity.CampaignStatus(campaignM.Status),
		Image:          campaignM.Image,
		CreatedAt:      campaignM.CreatedAt,
		UpdatedAt:      campaignM.UpdatedAt,
	}
	campaign.ProgressPercent = campaign.Progress()

	return campaign
}

func fromCampaignDomain(campaign *entity.DonationCampaign) *model.DonationCampaignModel {
	return &model.DonationCampaignModel{
		Base:           model.Base{ID: campaign.ID, CreatedAt: campaign.CreatedAt, UpdatedAt: campaign.UpdatedAt},
		CategoryID:     campaign.CategoryID,
		Title:          campaign.Title,
		Slug:           campaign.Slug,
		Description:    campaign.Description,
		GoalAmount:     campaign.GoalAmount,
		TotalCollected: campaign.TotalCollected,
		StartsAt:       campaign.StartsAt,
		EndsAt:         campaign.EndsAt,
		Status:         string(campaign.Status),
		Image:          campaign.Image,
	}
}
