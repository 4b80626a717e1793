package impl

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"time"

	"ministry/config"
	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/constants"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/domain/service"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const donationPrefix = "DON"

type donationService struct {
	txManager     repository.TransactionManager
	campaignRepo  repository.CampaignRepository
	donationRepo  repository.DonationRepository
	referenceRepo repository.ReferenceRepository
	gateway       service.PaymentGateway
	images        imageStore
	currency      string
	logger        *slog.Logger
	now           func() time.Time
}

// DonationServiceParams holds dependencies for DonationService, injected by Fx.
type DonationServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	CampaignRepo   repository.CampaignRepository
	DonationRepo   repository.DonationRepository
	ReferenceRepo  repository.ReferenceRepository
	Gateway        service.PaymentGateway
	Storage        service.FileStorage
	ImageProcessor service.ImageProcessor
	Config         *config.Config
	Logger         *slog.Logger
}

// NewDonationService creates a new donation service instance
func NewDonationService(params DonationServiceParams) usecase.DonationUsecase {
	currency := "NGN"
	if params.Config != nil && params.Config.Shop != nil && params.Config.Shop.Currency != "" {
		currency = params.Config.Shop.Currency
	}

	return &donationService{
		txManager:     params.TxManager,
		campaignRepo:  params.CampaignRepo,
		donationRepo:  params.DonationRepo,
		referenceRepo: params.ReferenceRepo,
		gateway:       params.Gateway,
		images:        newImageStore(params.Storage, params.ImageProcessor, params.Config),
		currency:      currency,
		logger:        params.Logger,
		now:           time.Now,
	}
}

func (srv *donationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// --- Categories ---

func (srv *donationService) ListCategories(ctx context.Context, activeOnly bool) ([]*entity.DonationCategory, error) {
	return srv.campaignRepo.ListCategories(ctx, activeOnly)
}

func (srv *donationService) CreateCategory(ctx context.Context, input *usecase.DonationCategoryInput) (*entity.DonationCategory, error) {
	category := &entity.DonationCategory{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slugOr(input.Slug, input.Name),
		Description: input.Description,
		IsActive:    input.IsActive,
	}
	if err := srv.campaignRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (srv *donationService) UpdateCategory(ctx context.Context, id uuid.UUID, input *usecase.DonationCategoryInput) (*entity.DonationCategory, error) {
	category, err := srv.campaignRepo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(input.Name)
	category.Slug = slugOr(input.Slug, input.Name)
	category.Description = input.Description
	category.IsActive = input.IsActive
	if err := srv.campaignRepo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (srv *donationService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return srv.campaignRepo.DeleteCategory(ctx, id)
}

// --- Campaigns ---

func (srv *donationService) ListCampaigns(ctx context.Context, filter repository.CampaignFilter) (*repository.Page[*entity.DonationCampaign], error) {
	page, err := srv.campaignRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return repository.MapPage(page, withProgress), nil
}

func (srv *donationService) GetCampaign(ctx context.Context, id uuid.UUID) (*entity.DonationCampaign, error) {
	campaign, err := srv.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return withProgress(campaign), nil
}

func (srv *donationService) GetCampaignBySlug(ctx context.Context, slug string) (*entity.DonationCampaign, error) {
	campaign, err := srv.campaignRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	return withProgress(campaign), nil
}

func (srv *donationService) CreateCampaign(ctx context.Context, input *usecase.CampaignInput) (*entity.DonationCampaign, error) {
	if err := validateCampaignInput(input); err != nil {
		return nil, err
	}

	campaign := &entity.DonationCampaign{TotalCollected: decimal.Zero}
	applyCampaignInput(campaign, input)
	if err := srv.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Campaign created", slog.Any("campaignID", campaign.ID), slog.String("slug", campaign.Slug))

	return withProgress(campaign), nil
}

func (srv *donationService) UpdateCampaign(ctx context.Context, id uuid.UUID, input *usecase.CampaignInput) (*entity.DonationCampaign, error) {
	if err := validateCampaignInput(input); err != nil {
		return nil, err
	}

	campaign, err := srv.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyCampaignInput(campaign, input)
	if err := srv.campaignRepo.Update(ctx, campaign); err != nil {
		return nil, err
	}

	return withProgress(campaign), nil
}

func (srv *donationService) UploadCampaignImage(ctx context.Context, id uuid.UUID, file usecase.Upload) (*entity.DonationCampaign, error) {
	campaign, err := srv.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key, err := srv.images.replace(ctx, path.Join(constants.StorageCampaigns, id.String()), campaign.Image, file)
	if err != nil {
		return nil, err
	}
	campaign.Image = key
	if err := srv.campaignRepo.Update(ctx, campaign); err != nil {
		return nil, err
	}

	return withProgress(campaign), nil
}

func (srv *donationService) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	campaign, err := srv.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		count, err := repoFactory.DonationRepo().CountCompleted(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domainerrors.ErrCampaignHasDonations
		}

		return repoFactory.CampaignRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	srv.images.remove(ctx, campaign.Image)

	return nil
}

func (srv *donationService) Recalculate(ctx context.Context, campaignID uuid.UUID) (*entity.DonationCampaign, error) {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.CampaignRepo().FindByID(ctx, campaignID); err != nil {
			return err
		}

		total, err := repoFactory.DonationRepo().SumCompleted(ctx, &campaignID)
		if err != nil {
			return err
		}

		return repoFactory.CampaignRepo().SetTotal(ctx, campaignID, total)
	})
	if err != nil {
		return nil, err
	}

	return srv.GetCampaign(ctx, campaignID)
}

// --- Donations ---

// Donate records a pending donation and opens a checkout for it.
func (srv *donationService) Donate(ctx context.Context, input *usecase.DonateInput) (*usecase.DonationOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerrors.NewFieldError("amount", "The amount must be greater than zero.")
	}

	method, err := srv.referenceRepo.FindPaymentMethodByCode(ctx, input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	categoryID := input.CategoryID
	if input.CampaignID != nil {
		campaign, err := srv.campaignRepo.FindByID(ctx, *input.CampaignID)
		if err != nil {
			return nil, err
		}
		if !campaign.AcceptsDonations(srv.now()) {
			return nil, domainerrors.ErrCampaignClosed
		}
		if categoryID == nil {
			categoryID = campaign.CategoryID
		}
	}
	if categoryID != nil {
		if _, err := srv.campaignRepo.FindCategoryByID(ctx, *categoryID); err != nil {
			return nil, err
		}
	}

	donation := &entity.Donation{
		UserID:        input.UserID,
		CampaignID:    input.CampaignID,
		CategoryID:    categoryID,
		Reference:     newReference(donationPrefix, srv.now()),
		DonorName:     strings.TrimSpace(input.DonorName),
		DonorEmail:    normalizeEmail(input.DonorEmail),
		Amount:        input.Amount.Round(2),
		Currency:      srv.currency,
		PaymentMethod: method.Code,
		Message:       strings.TrimSpace(input.Message),
		IsAnonymous:   input.IsAnonymous,
		Status:        entity.DonationStatusPending,
	}
	if err := srv.donationRepo.Create(ctx, donation); err != nil {
		return nil, err
	}

	result, err := srv.gateway.Initiate(ctx, service.PaymentInitRequest{
		Reference: donation.Reference,
		Amount:    donation.Amount,
		Currency:  donation.Currency,
		Email:     donation.DonorEmail,
		Provider:  method.Provider,
	})
	if err != nil {
		srv.log(ctx).Error("Donation checkout failed", slog.String("reference", donation.Reference), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Donation created",
		slog.String("reference", donation.Reference),
		slog.String("amount", donation.Amount.StringFixed(2)),
	)

	return &usecase.DonationOutput{Donation: donation, CheckoutURL: result.CheckoutURL}, nil
}

func (srv *donationService) Complete(ctx context.Context, reference string) (*entity.Donation, error) {
	donation, err := srv.donationRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if donation.Status == entity.DonationStatusCompleted {
		return donation, nil
	}

	verification, err := srv.gateway.Verify(ctx, donation.Reference)
	if err != nil {
		return nil, err
	}
	if !verification.Paid {
		return nil, domainerrors.ErrPaymentNotVerified.WithDetails(verification.Status)
	}

	return srv.UpdateStatus(ctx, donation.ID, entity.DonationStatusCompleted)
}

func (srv *donationService) ListMine(ctx context.Context, userID uuid.UUID, p repository.Pagination) (*repository.Page[*entity.Donation], error) {
	return srv.donationRepo.List(ctx, repository.DonationFilter{UserID: &userID, Pagination: p})
}

func (srv *donationService) List(ctx context.Context, filter repository.DonationFilter) (*repository.Page[*entity.Donation], error) {
	return srv.donationRepo.List(ctx, filter)
}

func (srv *donationService) Get(ctx context.Context, id uuid.UUID) (*entity.Donation, error) {
	return srv.donationRepo.FindByID(ctx, id)
}

// UpdateStatus moves a donation and keeps its campaign's total in step:
// entering completed adds the amount, leaving completed subtracts it.
func (srv *donationService) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.DonationStatus) (*entity.Donation, error) {
	if !status.IsValid() {
		return nil, domainerrors.NewFieldError("status", "The selected status is invalid.")
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		donationRepo := repoFactory.DonationRepo()
		donation, err := donationRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if donation.Status == status {
			return nil
		}

		if err := donationRepo.TransitionStatus(ctx, id, donation.Status, status); err != nil {
			return err
		}
		if donation.CampaignID == nil {
			return nil
		}

		switch {
		case status == entity.DonationStatusCompleted:
			return repoFactory.CampaignRepo().AddToTotal(ctx, *donation.CampaignID, donation.Amount)
		case donation.Status == entity.DonationStatusCompleted:
			return repoFactory.CampaignRepo().AddToTotal(ctx, *donation.CampaignID, donation.Amount.Neg())
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Donation status updated", slog.Any("donationID", id), slog.String("status", string(status)))

	return srv.donationRepo.FindByID(ctx, id)
}

// Delete removes a donation, taking a completed one out of its campaign's total.
func (srv *donationService) Delete(ctx context.Context, id uuid.UUID) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		donationRepo := repoFactory.DonationRepo()
		donation, err := donationRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := donationRepo.Delete(ctx, id); err != nil {
			return err
		}
		if donation.Status == entity.DonationStatusCompleted && donation.CampaignID != nil {
			return repoFactory.CampaignRepo().AddToTotal(ctx, *donation.CampaignID, donation.Amount.Neg())
		}

		return nil
	})
}

func withProgress(campaign *entity.DonationCampaign) *entity.DonationCampaign {
	campaign.ProgressPercent = campaign.Progress()

	return campaign
}

func validateCampaignInput(input *usecase.CampaignInput) error {
	verr := domainerrors.NewValidationError(nil)
	if input.GoalAmount.IsNegative() {
		verr.Add("goal_amount", "The goal amount must not be negative.")
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		verr.Add("ends_at", "The end date must be after the start date.")
	}
	if input.Status != "" && input.Status != entity.CampaignStatusActive && input.Status != entity.CampaignStatusClosed {
		verr.Add("status", "The status must be active or closed.")
	}
	if verr.HasErrors() {
		return verr
	}

	return nil
}

func applyCampaignInput(campaign *entity.DonationCampaign, input *usecase.CampaignInput) {
	campaign.CategoryID = input.CategoryID
	campaign.Title = strings.TrimSpace(input.Title)
	campaign.Slug = slugOr(input.Slug, input.Title)
	campaign.Description = input.Description
	campaign.GoalAmount = input.GoalAmount.Round(2)
	campaign.StartsAt = input.StartsAt
	campaign.EndsAt = input.EndsAt
	campaign.Status = input.Status
	if campaign.Status == "" {
		campaign.Status = entity.CampaignStatusActive
	}
}
