package impl

import (
	"context"
	"testing"

	"ministry/internal/domain/constants"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/infra/persistence/postgres"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRBACService(f *fixture) usecase.RBACUsecase {
	return NewRBACService(RBACServiceParams{
		TxManager: f.tx,
		RoleRepo:  f.roles,
		DeptRepo:  postgres.NewDepartmentRepository(f.db),
		UserRepo:  f.users,
		Logger:    f.logger,
	})
}

func TestRBACService_SystemRolesAreProtected(t *testing.T) {
	f := newFixture(t)
	srv := newTestRBACService(f)
	ctx := context.Background()

	admin, err := f.roles.FindRoleBySlug(ctx, constants.RoleAdmin)
	require.NoError(t, err)
	require.True(t, admin.IsSystem)

	assert.ErrorIs(t, srv.DeleteRole(ctx, admin.ID), domainerrors.ErrSystemRoleProtected)

	renamed, err := srv.UpdateRole(ctx, admin.ID, &usecase.RoleInput{Name: "Administrators", Slug: "root"})
	require.NoError(t, err)
	assert.Equal(t, "Administrators", renamed.Name)
	assert.Equal(t, constants.RoleAdmin, renamed.Slug)

	ushers, err := srv.CreateRole(ctx, &usecase.RoleInput{Name: "Ushers"})
	require.NoError(t, err)
	assert.Equal(t, "ushers", ushers.Slug)

	updated, err := srv.UpdateRole(ctx, ushers.ID, &usecase.RoleInput{Name: "Head Ushers"})
	require.NoError(t, err)
	assert.Equal(t, "head-ushers", updated.Slug)

	require.NoError(t, srv.DeleteRole(ctx, ushers.ID))
	_, err = srv.GetRole(ctx, ushers.ID)
	assert.ErrorIs(t, err, domainerrors.ErrRoleNotFound)
}

func TestRBACService_SyncPermissionsAndRoles(t *testing.T) {
	f := newFixture(t)
	srv := newTestRBACService(f)
	ctx := context.Background()

	role, err := srv.CreateRole(ctx, &usecase.RoleInput{Name: "Media Team"})
	require.NoError(t, err)
	first, err := srv.CreatePermission(ctx, &usecase.PermissionInput{Name: "media.upload"})
	require.NoError(t, err)
	second, err := srv.CreatePermission(ctx, &usecase.PermissionInput{Name: "media.publish"})
	require.NoError(t, err)

	_, err = srv.SyncRolePermissions(ctx, role.ID, []uuid.UUID{first.ID, uuid.New()})
	assert.ErrorIs(t, err, domainerrors.ErrPermissionNotFound)

	synced, err := srv.SyncRolePermissions(ctx, role.ID, []uuid.UUID{first.ID, second.ID, first.ID})
	require.NoError(t, err)
	assert.Len(t, synced.Permissions, 2)

	synced, err = srv.SyncRolePermissions(ctx, role.ID, []uuid.UUID{second.ID})
	require.NoError(t, err)
	require.Len(t, synced.Permissions, 1)
	assert.Equal(t, "media.publish", synced.Permissions[0].Name)

	_, err = srv.SyncRolePermissions(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, domainerrors.ErrRoleNotFound)

	user := f.createUser(t, "media@example.com")
	_, err = srv.SyncUserRoles(ctx, user.ID, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, domainerrors.ErrRoleNotFound)

	withRole, err := srv.SyncUserRoles(ctx, user.ID, []uuid.UUID{role.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"media-team"}, withRole.RoleNames())
	assert.Equal(t, []string{"media.publish"}, withRole.PermissionNames())

	_, err = srv.SyncUserRoles(ctx, uuid.New(), []uuid.UUID{role.ID})
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestRBACService_Departments(t *testing.T) {
	f := newFixture(t)
	srv := newTestRBACService(f)
	ctx := context.Background()

	head := f.createUser(t, "head@example.com")
	member := f.createUser(t, "member@example.com")

	missing := uuid.New()
	_, err := srv.CreateDepartment(ctx, &usecase.DepartmentInput{Name: "Choir", HeadUserID: &missing})
	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)

	dept, err := srv.CreateDepartment(ctx, &usecase.DepartmentInput{Name: " Choir ", HeadUserID: &head.ID})
	require.NoError(t, err)
	assert.Equal(t, "Choir", dept.Name)

	_, err = srv.SyncDepartmentMembers(ctx, dept.ID, []uuid.UUID{member.ID, uuid.New()})
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)

	synced, err := srv.SyncDepartmentMembers(ctx, dept.ID, []uuid.UUID{member.ID, head.ID})
	require.NoError(t, err)
	assert.Len(t, synced.Members, 2)

	require.NoError(t, srv.DeleteDepartment(ctx, dept.ID))
	_, err = srv.GetDepartment(ctx, dept.ID)
	assert.ErrorIs(t, err, domainerrors.ErrDepartmentNotFound)
}

func TestRBACService_SuspendEndsSessions(t *testing.T) {
	f := newFixture(t)
	srv := newTestRBACService(f)
	auth := newTestAuthService(t, f)
	ctx := context.Background()

	user := f.createUser(t, "suspend-me@example.com")
	out, err := auth.Login(ctx, &usecase.LoginInput{Login: "suspend-me@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = srv.UpdateUserStatus(ctx, user.ID, entity.UserStatusPending)
	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)

	suspended, err := srv.UpdateUserStatus(ctx, user.ID, entity.UserStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusSuspended, suspended.Status)

	_, err = auth.Refresh(ctx, out.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	active, err := srv.UpdateUserStatus(ctx, user.ID, entity.UserStatusActive)
	require.NoError(t, err)
	assert.True(t, active.IsActive())
}
