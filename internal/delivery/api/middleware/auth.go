package middleware

import (
	"slices"
	"strings"

	deliverycontext "ministry/internal/delivery/context"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"
	"ministry/internal/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const bearerPrefix = "Bearer "

// AuthMiddleware validates JWT access tokens and gates routes by role and permission.
type AuthMiddleware struct {
	tokenService service.TokenService
}

type AuthMiddlewareParams struct {
	fx.In

	TokenService service.TokenService
}

func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: params.TokenService,
	}
}

// Authenticate requires a valid bearer access token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return errors.Wrap(domainerrors.ErrUnauthorized, "missing bearer token")
		}

		claims, err := m.tokenService.ValidateAccessToken(token)
		if err != nil {
			return errors.Wrap(domainerrors.ErrUnauthorized, err.Error())
		}
		deliverycontext.SetClaims(c, claims)

		return next(c)
	}
}

// OptionalAuthenticate accepts anonymous requests but rejects a bad token when one is sent.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := bearerToken(c); !ok {
			return next(c)
		}

		return m.Authenticate(next)(c)
	}
}

// RequirePermission must run after Authenticate.
func (m *AuthMiddleware) RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := deliverycontext.GetClaims(c)
			if claims == nil {
				return domainerrors.ErrUnauthorized
			}
			if !slices.Contains(claims.Permissions, permission) {
				return domainerrors.ErrForbidden.WithDetails("missing permission " + permission)
			}

			return next(c)
		}
	}
}

// RequireRole passes when the caller holds any of roles.
func (m *AuthMiddleware) RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := deliverycontext.GetClaims(c)
			if claims == nil {
				return domainerrors.ErrUnauthorized
			}
			for _, role := range roles {
				if slices.Contains(claims.Roles, role) {
					return next(c)
				}
			}

			return domainerrors.ErrForbidden
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])

	return token, token != ""
}
