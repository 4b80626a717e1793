// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"ministry/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new member.
type RegisterInput struct {
	Name        string
	Email       string
	PhoneNumber string
	Password    string
	CountryID   *uuid.UUID
	OTPChannel  entity.OTPChannel
}

// LoginInput carries an email or phone number in Login.
type LoginInput struct {
	Login    string
	Password string
}

type VerifyOTPInput struct {
	Identifier string
	OTP        string
}

type ResendOTPInput struct {
	Identifier string
	Channel    entity.OTPChannel
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// --- Output DTOs ---

// AuthOutput returns the generated tokens after a successful login or refresh.
type AuthOutput struct {
	AccessToken      string       `json:"access_token"`
	RefreshToken     string       `json:"refresh_token"`
	TokenType        string       `json:"token_type"`
	AccessExpiresAt  time.Time    `json:"access_expires_at"`
	RefreshExpiresAt time.Time    `json:"refresh_expires_at"`
	User             *entity.User `json:"user"`
}

// AuthUsecase handles registration, verification and sessions.
type AuthUsecase interface {
	// Register creates a pending member and sends the OTP after commit.
	Register(ctx context.Context, input *RegisterInput) (*entity.User, error)
	VerifyOTP(ctx context.Context, input *VerifyOTPInput) (*entity.User, error)

	// ResendOTP reports success for unknown identifiers.
	ResendOTP(ctx context.Context, input *ResendOTPInput) error
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// Refresh rotates the refresh token.
	Refresh(ctx context.Context, refreshToken string) (*AuthOutput, error)

	// Logout is idempotent.
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input *ChangePasswordInput) error
}
