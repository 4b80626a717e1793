package handler

import (
	"log/slog"
	"time"

	"ministry/internal/delivery/api/response"
	"ministry/internal/domain/entity"
	"ministry/internal/domain/repository"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

type DonationHandlerParams struct {
	fx.In

	DonationUC usecase.DonationUsecase
	Logger     *slog.Logger
}

// DonationHandler serves campaigns, public giving and the donations admin.
type DonationHandler struct {
	donationUC usecase.DonationUsecase
	logger     *slog.Logger
}

func NewDonationHandler(params DonationHandlerParams) *DonationHandler {
	return &DonationHandler{
		donationUC: params.DonationUC,
		logger:     params.Logger,
	}
}

type DonationCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Slug        string `json:"slug" validate:"omitempty,max=255"`
	Description string `json:"description" validate:"max=2000"`
	IsActive    *bool  `json:"is_active"`
}

type CampaignRequest struct {
	CategoryID  *uuid.UUID      `json:"category_id"`
	Title       string          `json:"title" validate:"required,max=255"`
	Slug        string          `json:"slug" validate:"omitempty,max=255"`
	Description string          `json:"description"`
	GoalAmount  decimal.Decimal `json:"goal_amount" validate:"gte=0"`
	StartsAt    *time.Time      `json:"starts_at"`
	EndsAt      *time.Time      `json:"ends_at"`
	Status      string          `json:"status" validate:"omitempty,oneof=active closed"`
}

type DonateRequest struct {
	CampaignID    *uuid.UUID      `json:"campaign_id"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	DonorName     string          `json:"donor_name" validate:"required,max=255"`
	DonorEmail    string          `json:"donor_email" validate:"required,email,max=255"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	PaymentMethod string          `json:"payment_method" validate:"required,max=50"`
	Message       string          `json:"message" validate:"max=1000"`
	IsAnonymous   bool            `json:"is_anonymous"`
}

type DonationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed failed refunded"`
}

// --- Categories ---

func (h *DonationHandler) ListCategories(c echo.Context) error {
	return h.listCategories(c, true)
}

func (h *DonationHandler) AdminListCategories(c echo.Context) error {
	return h.listCategories(c, false)
}

func (h *DonationHandler) listCategories(c echo.Context, activeOnly bool) error {
	categories, err := h.donationUC.ListCategories(c.Request().Context(), activeOnly)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Donation categories", categories)
}

func (h *DonationHandler) CreateCategory(c echo.Context) error {
	var req DonationCategoryRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	category, err := h.donationUC.CreateCategory(c.Request().Context(), req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Donation category created", category)
}

func (h *DonationHandler) UpdateCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req DonationCategoryRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	category, err := h.donationUC.UpdateCategory(c.Request().Context(), id, req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Donation category updated", category)
}

func (h *DonationHandler) DeleteCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.donationUC.DeleteCategory(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Donation category deleted", nil)
}

func (r *DonationCategoryRequest) toInput() *usecase.DonationCategoryInput {
	return &usecase.DonationCategoryInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		IsActive:    boolOr(r.IsActive, true),
	}
}

// --- Campaigns ---

// ListCampaigns shows active campaigns only.
func (h *DonationHandler) ListCampaigns(c echo.Context) error {
	return h.listCampaigns(c, entity.CampaignStatusActive)
}

func (h *DonationHandler) AdminListCampaigns(c echo.Context) error {
	return h.listCampaigns(c, entity.CampaignStatus(c.QueryParam("status")))
}

func (h *DonationHandler) listCampaigns(c echo.Context, status entity.CampaignStatus) error {
	p, err := pagination(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	categoryID, err := queryUUID(c, "category_id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.donationUC.ListCampaigns(c.Request().Context(), repository.CampaignFilter{
		CategoryID: categoryID,
		Status:     status,
		Search:     c.QueryParam("search"),
		Pagination: p,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, "Campaigns", page)
}

func (h *DonationHandler) ShowCampaign(c echo.Context) error {
	campaign, err := h.donationUC.GetCampaignBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Campaign", campaign)
}

func (h *DonationHandler) AdminGetCampaign(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	campaign, err := h.donationUC.GetCampaign(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Campaign", campaign)
}

func (h *DonationHandler) CreateCampaign(c echo.Context) error {
	var req CampaignRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	campaign, err := h.donationUC.CreateCampaign(c.Request().Context(), req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Campaign created", campaign)
}

func (h *DonationHandler) UpdateCampaign(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req CampaignRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	campaign, err := h.donationUC.UpdateCampaign(c.Request().Context(), id, req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Campaign updated", campaign)
}

func (h *DonationHandler) UploadCampaignImage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	upload, closeFile, err := formFile(c, "image")
	if err != nil {
		return response.HandleAppError(c, err)
	}
	defer closeFile()

	campaign, err := h.donationUC.UploadCampaignImage(c.Request().Context(), id, upload)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Campaign image uploaded", campaign)
}

func (h *DonationHandler) DeleteCampaign(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.donationUC.DeleteCampaign(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Campaign deleted", nil)
}

func (h *DonationHandler) Recalculate(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	campaign, err := h.donationUC.Recalculate(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Campaign total recalculated", campaign)
}

func (r *CampaignRequest) toInput() *usecase.CampaignInput {
	return &usecase.CampaignInput{
		CategoryID:  r.CategoryID,
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		GoalAmount:  r.GoalAmount,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		Status:      entity.CampaignStatus(r.Status),
	}
}

// --- Donations ---

// Donate is public; a signed-in donor is linked to the donation.
func (h *DonationHandler) Donate(c echo.Context) error {
	var req DonateRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	out, err := h.donationUC.Donate(c.Request().Context(), &usecase.DonateInput{
		UserID:        optionalUser(c),
		CampaignID:    req.CampaignID,
		CategoryID:    req.CategoryID,
		DonorName:     req.DonorName,
		DonorEmail:    req.DonorEmail,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Message:       req.Message,
		IsAnonymous:   req.IsAnonymous,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Donation created", out)
}

func (h *DonationHandler) ListMine(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	p, err := pagination(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.donationUC.ListMine(c.Request().Context(), userID, p)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, "Donations", page)
}

func (h *DonationHandler) List(c echo.Context) error {
	p, err := pagination(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	campaignID, err := queryUUID(c, "campaign_id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.donationUC.List(c.Request().Context(), repository.DonationFilter{
		CampaignID: campaignID,
		Status:     entity.DonationStatus(c.QueryParam("status")),
		Pagination: p,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, "Donations", page)
}

func (h *DonationHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	donation, err := h.donationUC.Get(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Donation", donation)
}

func (h *DonationHandler) UpdateStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req DonationStatusRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	donation, err := h.donationUC.UpdateStatus(c.Request().Context(), id, entity.DonationStatus(req.Status))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Donation status updated", donation)
}

func (h *DonationHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.donationUC.Delete(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Donation deleted", nil)
}
