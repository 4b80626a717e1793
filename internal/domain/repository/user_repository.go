// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"ministry/internal/domain/entity"

	"github.com/google/uuid"
)

// UserFilter narrows the admin user list.
type UserFilter struct {
	Search string
	Status entity.UserStatus
	Role   string
	Pagination
}

// UserRepository defines the standard operations for user persistence.
// Lookups return domainerrors.ErrUserNotFound when nothing matches.
type UserRepository interface {
	// Create persists a new user together with its role links.
	Create(ctx context.Context, user *entity.User) error

	// FindByID loads the user with country, roles, permissions, departments and profile.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByPhone(ctx context.Context, phone string) (*entity.User, error)

	// FindByIDs returns the users that exist among ids.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.User, error)

	// Update saves scalar fields. Associations are left untouched.
	Update(ctx context.Context, user *entity.User) error

	List(ctx context.Context, filter UserFilter) (*Page[*entity.User], error)

	// SyncRoles replaces the role set of a user.
	SyncRoles(ctx context.Context, userID uuid.UUID, roles []*entity.Role) error

	// SaveProfile inserts or updates the one-to-one profile row.
	SaveProfile(ctx context.Context, profile *entity.UserProfile) error

	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// RefreshTokenRepository stores hashed refresh tokens.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entity.RefreshToken) error

	// FindByHash returns domainerrors.ErrRefreshTokenInvalid when no token matches.
	FindByHash(ctx context.Context, hash string) (*entity.RefreshToken, error)

	// DeleteByHash is a no-op when the token does not exist.
	DeleteByHash(ctx context.Context, hash string) error

	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
