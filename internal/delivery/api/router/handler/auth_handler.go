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

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthHandler serves registration, OTP verification and sessions.
type AuthHandler struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

type RegisterRequest struct {
	Name                 string     `json:"name" validate:"required,max=255"`
	Email                string     `json:"email" validate:"required,email,max=255"`
	PhoneNumber          string     `json:"phone_number" validate:"required,max=32"`
	Password             string     `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirmation string     `json:"password_confirmation" validate:"required,eqfield=Password"`
	CountryID            *uuid.UUID `json:"country_id"`
	OTPChannel           string     `json:"otp_channel" validate:"omitempty,oneof=email sms"`
}

type VerifyOTPRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	OTP        string `json:"otp" validate:"required,numeric"`
}

type ResendOTPRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Channel    string `json:"channel" validate:"omitempty,oneof=email sms"`
}

type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword         string `json:"current_password" validate:"required"`
	NewPassword             string `json:"new_password" validate:"required,min=8,max=72,nefield=CurrentPassword"`
	NewPasswordConfirmation string `json:"new_password_confirmation" validate:"required,eqfield=NewPassword"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	channel := entity.OTPChannel(req.OTPChannel)
	if channel == "" {
		channel = entity.OTPChannelEmail
	}

	user, err := h.authUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		CountryID:   req.CountryID,
		OTPChannel:  channel,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Registration successful. Check your "+string(channel)+" for the verification code.", user)
}

func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req VerifyOTPRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.authUC.VerifyOTP(c.Request().Context(), &usecase.VerifyOTPInput{
		Identifier: req.Identifier,
		OTP:        req.OTP,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Account verified", user)
}

func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req ResendOTPRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	err := h.authUC.ResendOTP(c.Request().Context(), &usecase.ResendOTPInput{
		Identifier: req.Identifier,
		Channel:    entity.OTPChannel(req.Channel),
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "If the account exists, a new code has been sent", nil)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	out, err := h.authUC.Login(c.Request().Context(), &usecase.LoginInput{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Login successful", out)
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	out, err := h.authUC.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Token refreshed", out)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	var req RefreshRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.authUC.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Logged out", nil)
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.authUC.Me(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Current user", user)
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	err = h.authUC.ChangePassword(c.Request().Context(), userID, &usecase.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Password changed", nil)
}
