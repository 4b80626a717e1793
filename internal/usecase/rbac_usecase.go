package usecase

import (
	"context"

	"ministry/internal/domain/entity"
	"ministry/internal/domain/repository"

	"github.com/google/uuid"
)

type RoleInput struct {
	Name        string
	Slug        string
	Description string
}

type PermissionInput struct {
	Name        string
	Description string
}

type DepartmentInput struct {
	Name        string
	Description string
	HeadUserID  *uuid.UUID
}

// RBACUsecase administers roles, permissions, departments and user accounts.
type RBACUsecase interface {
	ListRoles(ctx context.Context) ([]*entity.Role, error)
	GetRole(ctx context.Context, id uuid.UUID) (*entity.Role, error)
	CreateRole(ctx context.Context, input *RoleInput) (*entity.Role, error)
	UpdateRole(ctx context.Context, id uuid.UUID, input *RoleInput) (*entity.Role, error)

	// DeleteRole refuses system roles.
	DeleteRole(ctx context.Context, id uuid.UUID) error
	SyncRolePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) (*entity.Role, error)

	ListPermissions(ctx context.Context) ([]*entity.Permission, error)
	CreatePermission(ctx context.Context, input *PermissionInput) (*entity.Permission, error)
	UpdatePermission(ctx context.Context, id uuid.UUID, input *PermissionInput) (*entity.Permission, error)
	DeletePermission(ctx context.Context, id uuid.UUID) error

	ListDepartments(ctx context.Context) ([]*entity.Department, error)
	GetDepartment(ctx context.Context, id uuid.UUID) (*entity.Department, error)
	CreateDepartment(ctx context.Context, input *DepartmentInput) (*entity.Department, error)
	UpdateDepartment(ctx context.Context, id uuid.UUID, input *DepartmentInput) (*entity.Department, error)
	DeleteDepartment(ctx context.Context, id uuid.UUID) error
	SyncDepartmentMembers(ctx context.Context, departmentID uuid.UUID, userIDs []uuid.UUID) (*entity.Department, error)

	ListUsers(ctx context.Context, filter repository.UserFilter) (*repository.Page[*entity.User], error)
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdateUserStatus(ctx context.Context, id uuid.UUID, status entity.UserStatus) (*entity.User, error)
	SyncUserRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID) (*entity.User, error)
}
