package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims defines the custom claims for the JWT tokens.
type Claims struct {
	UserID      uuid.UUID `json:"uid"`
	Roles       []string  `json:"roles,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	Type        string    `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for a given user.
	GenerateTokens(userID uuid.UUID, roles, permissions []string) (*TokenPair, error)

	// ValidateAccessToken parses an access token and rejects refresh tokens.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// ValidateRefreshToken parses a refresh token and rejects access tokens.
	ValidateRefreshToken(tokenString string) (*Claims, error)
}
