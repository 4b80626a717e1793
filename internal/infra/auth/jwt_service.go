package auth

import (
	"time"

	"ministry/config"
	"ministry/internal/domain/service"
	"ministry/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	accessTTL, refreshTTL := 15*time.Minute, 7*24*time.Hour
	if cfg.Auth != nil {
		if cfg.Auth.AccessTokenTTL > 0 {
			accessTTL = cfg.Auth.AccessTokenTTL
		}
		if cfg.Auth.RefreshTokenTTL > 0 {
			refreshTTL = cfg.Auth.RefreshTokenTTL
		}
	}

	return &jwtService{
		accessSecret:  []byte(cfg.SecretKey.Access),
		refreshSecret: []byte(cfg.SecretKey.Refresh),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        cfg.Env.ServiceName,
		now:           time.Now,
	}, nil
}

// GenerateTokens signs an access token carrying roles and permissions, and a bare refresh token.
func (s *jwtService) GenerateTokens(userID uuid.UUID, roles, permissions []string) (*service.TokenPair, error) {
	now := s.now()
	accessExp := now.Add(s.accessTTL)
	refreshExp := now.Add(s.refreshTTL)

	accessToken, err := s.sign(&service.Claims{
		UserID:           userID,
		Roles:            roles,
		Permissions:      permissions,
		Type:             service.TokenTypeAccess,
		RegisteredClaims: s.registered(userID, now, accessExp),
	}, s.accessSecret)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.sign(&service.Claims{
		UserID:           userID,
		Type:             service.TokenTypeRefresh,
		RegisteredClaims: s.registered(userID, now, refreshExp),
	}, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &service.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *jwtService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	return s.validate(tokenString, s.accessSecret, service.TokenTypeAccess)
}

func (s *jwtService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	return s.validate(tokenString, s.refreshSecret, service.TokenTypeRefresh)
}

func (s *jwtService) registered(userID uuid.UUID, now, exp time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
		// a unique ID keeps two refresh tokens issued in the same second distinct
		ID: uuid.NewString(),
	}
}

func (s *jwtService) sign(claims *service.Claims, secret []byte) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

func (s *jwtService) validate(tokenString string, secret []byte, tokenType string) (*service.Claims, error) {
	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.Type != tokenType {
		return nil, errors.Errorf("unexpected token type %q", claims.Type)
	}

	return claims, nil
}
