package handler

import (
	"log/slog"

	"ministry/internal/delivery/api/response"
	"ministry/internal/domain/entity"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AccountHandlerParams holds dependencies for AccountHandler, injected by Fx.
type AccountHandlerParams struct {
	fx.In

	ProfileUC   usecase.ProfileUsecase
	AddressUC   usecase.AddressUsecase
	DeviceUC    usecase.DeviceUsecase
	ReferenceUC usecase.ReferenceUsecase
	Logger      *slog.Logger
}

// AccountHandler serves the signed-in user's profile, addresses and devices, plus lookup data.
type AccountHandler struct {
	profileUC   usecase.ProfileUsecase
	addressUC   usecase.AddressUsecase
	deviceUC    usecase.DeviceUsecase
	referenceUC usecase.ReferenceUsecase
	logger      *slog.Logger
}

func NewAccountHandler(params AccountHandlerParams) *AccountHandler {
	return &AccountHandler{
		profileUC:   params.ProfileUC,
		addressUC:   params.AddressUC,
		deviceUC:    params.DeviceUC,
		referenceUC: params.ReferenceUC,
		logger:      params.Logger,
	}
}

type UpdateProfileRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=255"`
	PhoneNumber *string    `json:"phone_number" validate:"omitempty,max=32"`
	Bio         *string    `json:"bio" validate:"omitempty,max=2000"`
	DateOfBirth *string    `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      *string    `json:"gender" validate:"omitempty,oneof=male female other"`
	City        *string    `json:"city" validate:"omitempty,max=255"`
	CountryID   *uuid.UUID `json:"country_id"`
}

type AddressRequest struct {
	Type          string     `json:"type" validate:"required,oneof=shipping billing"`
	Label         string     `json:"label" validate:"max=100"`
	RecipientName string     `json:"recipient_name" validate:"required,max=255"`
	Phone         string     `json:"phone" validate:"required,max=32"`
	Line1         string     `json:"line1" validate:"required,max=255"`
	Line2         string     `json:"line2" validate:"max=255"`
	City          string     `json:"city" validate:"required,max=255"`
	State         string     `json:"state" validate:"max=255"`
	PostalCode    string     `json:"postal_code" validate:"max=32"`
	CountryID     *uuid.UUID `json:"country_id"`
	IsDefault     bool       `json:"is_default"`
}

// RegisterDeviceRequest represents the request body for registering a device
type RegisterDeviceRequest struct {
	FCMToken string `json:"fcm_token" validate:"required"`
	DeviceID string `json:"device_id" validate:"required,max=255"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

// --- Profile ---

func (h *AccountHandler) GetProfile(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.profileUC.Get(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Profile", user)
}

func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}
	dob, err := parseDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.profileUC.Update(c.Request().Context(), userID, &usecase.UpdateProfileInput{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Bio:         req.Bio,
		DateOfBirth: dob,
		Gender:      req.Gender,
		City:        req.City,
		CountryID:   req.CountryID,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Profile updated", user)
}

func (h *AccountHandler) UploadPicture(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	upload, closeFile, err := formFile(c, "picture")
	if err != nil {
		return response.HandleAppError(c, err)
	}
	defer closeFile()

	user, err := h.profileUC.UploadPicture(c.Request().Context(), userID, upload.Body)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Profile picture updated", user)
}

func (h *AccountHandler) DeletePicture(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.profileUC.DeletePicture(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Profile picture removed", user)
}

// --- Addresses ---

func (h *AccountHandler) ListAddresses(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	addresses, err := h.addressUC.List(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Addresses", addresses)
}

func (h *AccountHandler) GetAddress(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	address, err := h.addressUC.Get(c.Request().Context(), userID, id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Address", address)
}

func (h *AccountHandler) CreateAddress(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req AddressRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	address, err := h.addressUC.Create(c.Request().Context(), userID, req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Address created", address)
}

func (h *AccountHandler) UpdateAddress(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req AddressRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	address, err := h.addressUC.Update(c.Request().Context(), userID, id, req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Address updated", address)
}

func (h *AccountHandler) DeleteAddress(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.addressUC.Delete(c.Request().Context(), userID, id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Address deleted", nil)
}

func (h *AccountHandler) SetDefaultAddress(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	address, err := h.addressUC.SetDefault(c.Request().Context(), userID, id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Default address updated", address)
}

func (r *AddressRequest) toInput() *usecase.AddressInput {
	return &usecase.AddressInput{
		Type:          entity.AddressType(r.Type),
		Label:         r.Label,
		RecipientName: r.RecipientName,
		Phone:         r.Phone,
		Line1:         r.Line1,
		Line2:         r.Line2,
		City:          r.City,
		State:         r.State,
		PostalCode:    r.PostalCode,
		CountryID:     r.CountryID,
		IsDefault:     r.IsDefault,
	}
}

// --- Devices ---

// RegisterDevice handles device registration
func (h *AccountHandler) RegisterDevice(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req RegisterDeviceRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	device, err := h.deviceUC.RegisterDevice(c.Request().Context(), userID, &usecase.DeviceInfo{
		FCMToken: req.FCMToken,
		DeviceID: req.DeviceID,
		Platform: entity.DevicePlatform(req.Platform),
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Device registered", device)
}

// ListDevices handles retrieving all user devices
func (h *AccountHandler) ListDevices(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	devices, err := h.deviceUC.GetUserDevices(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Devices", devices)
}

func (h *AccountHandler) DeleteDevice(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	deviceID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.deviceUC.DeleteDevice(c.Request().Context(), userID, deviceID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Device removed", nil)
}

// --- Reference data ---

func (h *AccountHandler) Countries(c echo.Context) error {
	countries, err := h.referenceUC.Countries(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Countries", countries)
}

func (h *AccountHandler) PaymentMethods(c echo.Context) error {
	methods, err := h.referenceUC.PaymentMethods(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Payment methods", methods)
}
