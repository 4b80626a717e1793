package repository

import (
	"context"

	"ministry/internal/domain/entity"

	"github.com/google/uuid"
)

// RoleRepository manages roles and the permission catalogue.
type RoleRepository interface {
	CreateRole(ctx context.Context, role *entity.Role) error
	FindRoleByID(ctx context.Context, id uuid.UUID) (*entity.Role, error)
	FindRoleBySlug(ctx context.Context, slug string) (*entity.Role, error)
	FindRolesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Role, error)
	ListRoles(ctx context.Context) ([]*entity.Role, error)
	UpdateRole(ctx context.Context, role *entity.Role) error
	DeleteRole(ctx context.Context, id uuid.UUID) error

	// SyncPermissions replaces the permission set of a role.
	SyncPermissions(ctx context.Context, roleID uuid.UUID, permissions []*entity.Permission) error

	CreatePermission(ctx context.Context, permission *entity.Permission) error
	FindPermissionByID(ctx context.Context, id uuid.UUID) (*entity.Permission, error)
	FindPermissionByName(ctx context.Context, name string) (*entity.Permission, error)
	FindPermissionsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Permission, error)
	ListPermissions(ctx context.Context) ([]*entity.Permission, error)
	UpdatePermission(ctx context.Context, permission *entity.Permission) error
	DeletePermission(ctx context.Context, id uuid.UUID) error
}

// DepartmentRepository manages departments and their members.
type DepartmentRepository interface {
	Create(ctx context.Context, department *entity.Department) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Department, error)
	List(ctx context.Context) ([]*entity.Department, error)
	Update(ctx context.Context, department *entity.Department) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SyncMembers replaces the member set of a department.
	SyncMembers(ctx context.Context, departmentID uuid.UUID, members []*entity.User) error
}
