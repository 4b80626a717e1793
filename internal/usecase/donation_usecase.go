package usecase

import (
	"context"
	"time"

	"ministry/internal/domain/entity"
	"ministry/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DonationCategoryInput struct {
	Name        string
	Slug        string
	Description string
	IsActive    bool
}

type CampaignInput struct {
	CategoryID  *uuid.UUID
	Title       string
	Slug        string
	Description string
	GoalAmount  decimal.Decimal
	StartsAt    *time.Time
	EndsAt      *time.Time
	Status      entity.CampaignStatus
}

// DonateInput is a public donation; UserID is set when the donor is signed in.
type DonateInput struct {
	UserID        *uuid.UUID
	CampaignID    *uuid.UUID
	CategoryID    *uuid.UUID
	DonorName     string
	DonorEmail    string
	Amount        decimal.Decimal
	PaymentMethod string
	Message       string
	IsAnonymous   bool
}

// DonationOutput is a pending donation with its checkout handle.
type DonationOutput struct {
	Donation    *entity.Donation `json:"donation"`
	CheckoutURL string           `json:"checkout_url,omitempty"`
}

// DonationUsecase manages campaigns and donations. Campaign totals follow completed donations only.
type DonationUsecase interface {
	ListCategories(ctx context.Context, activeOnly bool) ([]*entity.DonationCategory, error)
	CreateCategory(ctx context.Context, input *DonationCategoryInput) (*entity.DonationCategory, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input *DonationCategoryInput) (*entity.DonationCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListCampaigns(ctx context.Context, filter repository.CampaignFilter) (*repository.Page[*entity.DonationCampaign], error)
	GetCampaign(ctx context.Context, id uuid.UUID) (*entity.DonationCampaign, error)
	GetCampaignBySlug(ctx context.Context, slug string) (*entity.DonationCampaign, error)
	CreateCampaign(ctx context.Context, input *CampaignInput) (*entity.DonationCampaign, error)
	UpdateCampaign(ctx context.Context, id uuid.UUID, input *CampaignInput) (*entity.DonationCampaign, error)
	UploadCampaignImage(ctx context.Context, id uuid.UUID, file Upload) (*entity.DonationCampaign, error)

	// DeleteCampaign refuses campaigns with completed donations.
	DeleteCampaign(ctx context.Context, id uuid.UUID) error

	// Recalculate resets the campaign total to the sum of its completed donations.
	Recalculate(ctx context.Context, campaignID uuid.UUID) (*entity.DonationCampaign, error)

	Donate(ctx context.Context, input *DonateInput) (*DonationOutput, error)

	// Complete marks the donation with reference as completed once the gateway reports it paid.
	// It is idempotent.
	Complete(ctx context.Context, reference string) (*entity.Donation, error)
	ListMine(ctx context.Context, userID uuid.UUID, p repository.Pagination) (*repository.Page[*entity.Donation], error)
	List(ctx context.Context, filter repository.DonationFilter) (*repository.Page[*entity.Donation], error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Donation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.DonationStatus) (*entity.Donation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
