package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/errors"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type rbacService struct {
	txManager repository.TransactionManager
	roleRepo  repository.RoleRepository
	deptRepo  repository.DepartmentRepository
	userRepo  repository.UserRepository
	logger    *slog.Logger
}

// RBACServiceParams holds dependencies for RBACService, injected by Fx.
type RBACServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	RoleRepo  repository.RoleRepository
	DeptRepo  repository.DepartmentRepository
	UserRepo  repository.UserRepository
	Logger    *slog.Logger
}

// NewRBACService creates a new RBAC service instance
func NewRBACService(params RBACServiceParams) usecase.RBACUsecase {
	return &rbacService{
		txManager: params.TxManager,
		roleRepo:  params.RoleRepo,
		deptRepo:  params.DeptRepo,
		userRepo:  params.UserRepo,
		logger:    params.Logger,
	}
}

func (srv *rbacService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// --- Roles ---

func (srv *rbacService) ListRoles(ctx context.Context) ([]*entity.Role, error) {
	return srv.roleRepo.ListRoles(ctx)
}

func (srv *rbacService) GetRole(ctx context.Context, id uuid.UUID) (*entity.Role, error) {
	return srv.roleRepo.FindRoleByID(ctx, id)
}

func (srv *rbacService) CreateRole(ctx context.Context, input *usecase.RoleInput) (*entity.Role, error) {
	role := &entity.Role{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slugOr(input.Slug, input.Name),
		Description: input.Description,
	}
	if err := srv.roleRepo.CreateRole(ctx, role); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Role created", slog.String("slug", role.Slug))

	return role, nil
}

func (srv *rbacService) UpdateRole(ctx context.Context, id uuid.UUID, input *usecase.RoleInput) (*entity.Role, error) {
	role, err := srv.roleRepo.FindRoleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role.Name = strings.TrimSpace(input.Name)
	role.Description = input.Description
	// system role slugs are referenced by code
	if !role.IsSystem {
		role.Slug = slugOr(input.Slug, input.Name)
	}
	if err := srv.roleRepo.UpdateRole(ctx, role); err != nil {
		return nil, err
	}

	return role, nil
}

func (srv *rbacService) DeleteRole(ctx context.Context, id uuid.UUID) error {
	role, err := srv.roleRepo.FindRoleByID(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return domainerrors.ErrSystemRoleProtected
	}

	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.RoleRepo().DeleteRole(ctx, id)
	})
}

func (srv *rbacService) SyncRolePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) (*entity.Role, error) {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		roleRepo := repoFactory.RoleRepo()
		if _, err := roleRepo.FindRoleByID(ctx, roleID); err != nil {
			return err
		}

		ids := uniqueIDs(permissionIDs)
		permissions, err := roleRepo.FindPermissionsByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(permissions) != len(ids) {
			return domainerrors.ErrPermissionNotFound
		}

		return roleRepo.SyncPermissions(ctx, roleID, permissions)
	})
	if err != nil {
		return nil, err
	}

	return srv.roleRepo.FindRoleByID(ctx, roleID)
}

// --- Permissions ---

func (srv *rbacService) ListPermissions(ctx context.Context) ([]*entity.Permission, error) {
	return srv.roleRepo.ListPermissions(ctx)
}

func (srv *rbacService) CreatePermission(ctx context.Context, input *usecase.PermissionInput) (*entity.Permission, error) {
	permission := &entity.Permission{Name: strings.TrimSpace(input.Name), Description: input.Description}
	if err := srv.roleRepo.CreatePermission(ctx, permission); err != nil {
		return nil, err
	}

	return permission, nil
}

func (srv *rbacService) UpdatePermission(ctx context.Context, id uuid.UUID, input *usecase.PermissionInput) (*entity.Permission, error) {
	permission, err := srv.roleRepo.FindPermissionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	permission.Name = strings.TrimSpace(input.Name)
	permission.Description = input.Description
	if err := srv.roleRepo.UpdatePermission(ctx, permission); err != nil {
		return nil, err
	}

	return permission, nil
}

func (srv *rbacService) DeletePermission(ctx context.Context, id uuid.UUID) error {
	return srv.roleRepo.DeletePermission(ctx, id)
}

// --- Departments ---

func (srv *rbacService) ListDepartments(ctx context.Context) ([]*entity.Department, error) {
	return srv.deptRepo.List(ctx)
}

func (srv *rbacService) GetDepartment(ctx context.Context, id uuid.UUID) (*entity.Department, error) {
	return srv.deptRepo.FindByID(ctx, id)
}

func (srv *rbacService) CreateDepartment(ctx context.Context, input *usecase.DepartmentInput) (*entity.Department, error) {
	if err := srv.checkHead(ctx, input.HeadUserID); err != nil {
		return nil, err
	}

	department := &entity.Department{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		HeadUserID:  input.HeadUserID,
	}
	if err := srv.deptRepo.Create(ctx, department); err != nil {
		return nil, err
	}

	return department, nil
}

func (srv *rbacService) UpdateDepartment(ctx context.Context, id uuid.UUID, input *usecase.DepartmentInput) (*entity.Department, error) {
	department, err := srv.deptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := srv.checkHead(ctx, input.HeadUserID); err != nil {
		return nil, err
	}

	department.Name = strings.TrimSpace(input.Name)
	department.Description = input.Description
	department.HeadUserID = input.HeadUserID
	if err := srv.deptRepo.Update(ctx, department); err != nil {
		return nil, err
	}

	return department, nil
}

func (srv *rbacService) checkHead(ctx context.Context, headUserID *uuid.UUID) error {
	if headUserID == nil {
		return nil
	}
	if _, err := srv.userRepo.FindByID(ctx, *headUserID); err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return domainerrors.NewFieldError("head_user_id", "The selected head user does not exist.")
		}

		return err
	}

	return nil
}

func (srv *rbacService) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.DepartmentRepo().Delete(ctx, id)
	})
}

func (srv *rbacService) SyncDepartmentMembers(ctx context.Context, departmentID uuid.UUID, userIDs []uuid.UUID) (*entity.Department, error) {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		deptRepo := repoFactory.DepartmentRepo()
		if _, err := deptRepo.FindByID(ctx, departmentID); err != nil {
			return err
		}

		ids := uniqueIDs(userIDs)
		users, err := repoFactory.UserRepo().FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(users) != len(ids) {
			return domainerrors.ErrUserNotFound
		}

		return deptRepo.SyncMembers(ctx, departmentID, users)
	})
	if err != nil {
		return nil, err
	}

	return srv.deptRepo.FindByID(ctx, departmentID)
}

// --- Users ---

func (srv *rbacService) ListUsers(ctx context.Context, filter repository.UserFilter) (*repository.Page[*entity.User], error) {
	return srv.userRepo.List(ctx, filter)
}

func (srv *rbacService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return srv.userRepo.FindByID(ctx, id)
}

// UpdateUserStatus activates or suspends an account. Suspension ends every session.
func (srv *rbacService) UpdateUserStatus(ctx context.Context, id uuid.UUID, status entity.UserStatus) (*entity.User, error) {
	if status != entity.UserStatusActive && status != entity.UserStatusSuspended {
		return nil, domainerrors.NewFieldError("status", "The status must be active or suspended.")
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := repoFactory.UserRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		user.Status = status
		if err := repoFactory.UserRepo().Update(ctx, user); err != nil {
			return err
		}
		if status == entity.UserStatusSuspended {
			return repoFactory.RefreshTokenRepo().DeleteByUser(ctx, id)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User status updated", slog.Any("userID", id), slog.String("status", string(status)))

	return srv.userRepo.FindByID(ctx, id)
}

func (srv *rbacService) SyncUserRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID) (*entity.User, error) {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.UserRepo().FindByID(ctx, userID); err != nil {
			return err
		}

		ids := uniqueIDs(roleIDs)
		roles, err := repoFactory.RoleRepo().FindRolesByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(roles) != len(ids) {
			return domainerrors.ErrRoleNotFound
		}

		return repoFactory.UserRepo().SyncRoles(ctx, userID, roles)
	})
	if err != nil {
		return nil, err
	}

	return srv.userRepo.FindByID(ctx, userID)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
