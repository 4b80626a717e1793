package repository

import (
	"context"

	"ministry/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CampaignFilter narrows the campaign list.
type CampaignFilter struct {
	CategoryID *uuid.UUID
	Status     entity.CampaignStatus
	Search     string
	Pagination
}

// CampaignRepository manages donation categories and campaigns.
// total_collected changes only through AddToTotal and SetTotal.
type CampaignRepository interface {
	CreateCategory(ctx context.Context, category *entity.DonationCategory) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*entity.DonationCategory, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]*entity.DonationCategory, error)
	UpdateCategory(ctx context.Context, category *entity.DonationCategory) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	Create(ctx context.Context, campaign *entity.DonationCampaign) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.DonationCampaign, error)
	FindBySlug(ctx context.Context, slug string) (*entity.DonationCampaign, error)
	List(ctx context.Context, filter CampaignFilter) (*Page[*entity.DonationCampaign], error)

	// Update saves every field except total_collected.
	Update(ctx context.Context, campaign *entity.DonationCampaign) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AddToTotal applies delta to total_collected, never letting it drop below zero.
	AddToTotal(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error

	// SetTotal overwrites total_collected.
	SetTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error
}

// DonationFilter narrows donation lists.
type DonationFilter struct {
	UserID     *uuid.UUID
	CampaignID *uuid.UUID
	Status     entity.DonationStatus
	Pagination
}

// DonationRepository manages donations.
type DonationRepository interface {
	Create(ctx context.Context, donation *entity.Donation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error)
	FindByReference(ctx context.Context, reference string) (*entity.Donation, error)
	List(ctx context.Context, filter DonationFilter) (*Page[*entity.Donation], error)

	// TransitionStatus moves the donation from one status to another and
	// returns domainerrors.ErrInvalidStatusTransition when the row is no longer in from.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.DonationStatus) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SumCompleted totals completed donations, optionally for one campaign.
	SumCompleted(ctx context.Context, campaignID *uuid.UUID) (decimal.Decimal, error)
	CountCompleted(ctx context.Context, campaignID uuid.UUID) (int64, error)
}
