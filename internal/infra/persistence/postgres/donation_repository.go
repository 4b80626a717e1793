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
	"gorm.io/gorm/clause"
)

type donationRepository struct {
	db *gorm.DB
}

// NewDonationRepository is the constructor for donationRepository.
func NewDonationRepository(db *gorm.DB) repository.DonationRepository {
	return &donationRepository{db: db}
}

func (repo *donationRepository) Create(ctx context.Context, donation *entity.Donation) error {
	donationM := fromDonationDomain(donation)
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(donationM).Error; err != nil {
		return writeError(err, domainerrors.ErrConflict.WithDetails("donation reference already exists"), domainerrors.ErrCampaignNotFound, "failed to create donation")
	}

	donation.ID = donationM.ID
	donation.CreatedAt = donationM.CreatedAt
	donation.UpdatedAt = donationM.UpdatedAt

	return nil
}

func (repo *donationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error) {
	return repo.findOne(ctx, "id = ?", id)
}

func (repo *donationRepository) FindByReference(ctx context.Context, reference string) (*entity.Donation, error) {
	return repo.findOne(ctx, "reference = ?", reference)
}

func (repo *donationRepository) findOne(ctx context.Context, cond string, args ...any) (*entity.Donation, error) {
	var donationM model.DonationModel
	if err := repo.db.WithContext(ctx).Preload("Campaign").Where(cond, args...).First(&donationM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrDonationNotFound, "failed to find donation")
	}

	return toDonationDomain(&donationM), nil
}

func (repo *donationRepository) List(ctx context.Context, filter repository.DonationFilter) (*repository.Page[*entity.Donation], error) {
	q := repo.db.WithContext(ctx).Model(&model.DonationModel{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.CampaignID != nil {
		q = q.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}

	rows, total, err := findPage[model.DonationModel](q, filter.Pagination, "created_at DESC, id", preload("Campaign"))
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list donations")
	}

	return repository.NewPage(mapSlice(rows, toDonationDomain), total, filter.Pagination), nil
}

// TransitionStatus stamps completed_at when moving into completed.
func (repo *donationRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.DonationStatus) error {
	updates := map[string]any{"status": string(to)}
	if to == entity.DonationStatusCompleted {
		updates["completed_at"] = repo.db.NowFunc()
	}

	result := repo.db.WithContext(ctx).Model(&model.DonationModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update donation status")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidStatusTransition.WithDetails("donation is no longer " + string(from))
	}

	return nil
}

func (repo *donationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.DonationModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete donation")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDonationNotFound
	}

	return nil
}

func (repo *donationRepository) SumCompleted(ctx context.Context, campaignID *uuid.UUID) (decimal.Decimal, error) {
	q := repo.db.WithContext(ctx).Model(&model.DonationModel{}).Where("status = ?", string(entity.DonationStatusCompleted))
	if campaignID != nil {
		q = q.Where("campaign_id = ?", *campaignID)
	}

	var sum decimalSum
	if err := q.Select("SUM(amount) AS total").Scan(&sum).Error; err != nil {
		return decimal.Zero, domainerrors.NewDatabaseExecuteError(err, "failed to sum donations")
	}

	return sum.value(), nil
}

func (repo *donationRepository) CountCompleted(ctx context.Context, campaignID uuid.UUID) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&model.DonationModel{}).
		Where("campaign_id = ? AND status = ?", campaignID, string(entity.DonationStatusCompleted)).
		Count(&count).Error
	if err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count donations")
	}

	return count, nil
}

func toDonationDomain(donationM *model.DonationModel) *entity.Donation {
	donation := &entity.Donation{
		ID:            donationM.ID,
		UserID:        donationM.UserID,
		CampaignID:    donationM.CampaignID,
		CategoryID:    donationM.CategoryID,
		Reference:     donationM.Reference,
		DonorName:     donationM.DonorName,
		DonorEmail:    donationM.DonorEmail,
		Amount:        donationM.Amount,
		Currency:      donationM.Currency,
		PaymentMethod: donationM.PaymentMethod,
		Message:       donationM.Message,
		IsAnonymous:   donationM.IsAnonymous,
		Status:        entity.DonationStatus(donationM.Status),
		CompletedAt:   donationM.CompletedAt,
		CreatedAt:     donationM.CreatedAt,
		UpdatedAt:     donationM.UpdatedAt,
	}
	if donationM.Campaign != nil {
		donation.Campaign = toCampaignDomain(donationM.Campaign)
	}

	return donation
}

func fromDonationDomain(donation *entity.Donation) *model.DonationModel {
	return &model.DonationModel{
		Base:          model.Base{ID: donation.ID, CreatedAt: donation.CreatedAt, UpdatedAt: donation.UpdatedAt},
		UserID:        donation.UserID,
		CampaignID:    donation.CampaignID,
		CategoryID:    donation.CategoryID,
		Reference:     donation.Reference,
		DonorName:     donation.DonorName,
		DonorEmail:    donation.DonorEmail,
		Amount:        donation.Amount,
		Currency:      donation.Currency,
		PaymentMethod: donation.PaymentMethod,
		Message:       donation.Message,
		IsAnonymous:   donation.IsAnonymous,
		Status:        string(donation.Status),
		CompletedAt:   donation.CompletedAt,
	}
}
