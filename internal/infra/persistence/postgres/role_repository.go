package postgres

import (
	"context"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository is the constructor for roleRepository.
func NewRoleRepository(db *gorm.DB) repository.RoleRepository {
	return &roleRepository{db: db}
}

func (repo *roleRepository) CreateRole(ctx context.Context, role *entity.Role) error {
	roleM := fromRoleDomain(role)
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(roleM).Error; err != nil {
		return writeError(err, domainerrors.ErrRoleAlreadyExists, nil, "failed to create role")
	}

	role.ID = roleM.ID
	role.CreatedAt = roleM.CreatedAt
	role.UpdatedAt = roleM.UpdatedAt

	if len(role.Permissions) == 0 {
		return nil
	}

	return repo.SyncPermissions(ctx, role.ID, role.Permissions)
}

func (repo *roleRepository) FindRoleByID(ctx context.Context, id uuid.UUID) (*entity.Role, error) {
	return repo.findRole(ctx, "id = ?", id)
}

func (repo *roleRepository) FindRoleBySlug(ctx context.Context, slug string) (*entity.Role, error) {
	return repo.findRole(ctx, "slug = ?", slug)
}

func (repo *roleRepository) findRole(ctx context.Context, cond string, arg any) (*entity.Role, error) {
	var roleM model.RoleModel
	if err := repo.db.WithContext(ctx).Preload("Permissions").Where(cond, arg).First(&roleM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrRoleNotFound, "failed to find role")
	}

	return toRoleDomain(&roleM), nil
}

func (repo *roleRepository) FindRolesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Role, error) {
	if len(ids) == 0 {
		return []*entity.Role{}, nil
	}

	var roleMs []model.RoleModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&roleMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find roles")
	}

	return mapSlice(roleMs, toRoleDomain), nil
}

func (repo *roleRepository) ListRoles(ctx context.Context) ([]*entity.Role, error) {
	var roleMs []model.RoleModel
	if err := repo.db.WithContext(ctx).Preload("Permissions").Order("name").Find(&roleMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list roles")
	}

	return mapSlice(roleMs, toRoleDomain), nil
}

func (repo *roleRepository) UpdateRole(ctx context.Context, role *entity.Role) error {
	roleM := fromRoleDomain(role)
	result := repo.db.WithContext(ctx).Model(roleM).Select("name", "slug", "description").Updates(roleM)
	if result.Error != nil {
		return writeError(result.Error, domainerrors.ErrRoleAlreadyExists, nil, "failed to update role")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRoleNotFound
	}

	role.UpdatedAt = roleM.UpdatedAt

	return nil
}

func (repo *roleRepository) DeleteRole(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)
	if err := db.Where("role_id = ?", id).Delete(&model.RolePermissionModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to detach role permissions")
	}
	if err := db.Where("role_id = ?", id).Delete(&model.UserRoleModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to detach role users")
	}

	result := db.Delete(&model.RoleModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete role")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRoleNotFound
	}

	return nil
}

// SyncPermissions replaces the permission set of a role.
func (repo *roleRepository) SyncPermissions(ctx context.Context, roleID uuid.UUID, permissions []*entity.Permission) error {
	db := repo.db.WithContext(ctx)
	if err := db.Where("role_id = ?", roleID).Delete(&model.RolePermissionModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear role permissions")
	}
	if len(permissions) == 0 {
		return nil
	}

	links := make([]model.RolePermissionModel, 0, len(permissions))
	for _, perm := range permissions {
		links = append(links, model.RolePermissionModel{RoleID: roleID, PermissionID: perm.ID})
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
		return writeError(err, nil, domainerrors.ErrPermissionNotFound, "failed to assign role permissions")
	}

	return nil
}

func (repo *roleRepository) CreatePermission(ctx context.Context, permission *entity.Permission) error {
	permM := &model.PermissionModel{Base: model.Base{ID: permission.ID}, Name: permission.Name, Description: permission.Description}
	if err := repo.db.WithContext(ctx).Create(permM).Error; err != nil {
		return writeError(err, domainerrors.ErrPermissionAlreadyExists, nil, "failed to create permission")
	}

	permission.ID = permM.ID
	permission.CreatedAt = permM.CreatedAt
	permission.UpdatedAt = permM.UpdatedAt

	return nil
}

func (repo *roleRepository) FindPermissionByID(ctx context.Context, id uuid.UUID) (*entity.Permission, error) {
	return repo.findPermission(ctx, "id = ?", id)
}

func (repo *roleRepository) FindPermissionByName(ctx context.Context, name string) (*entity.Permission, error) {
	return repo.findPermission(ctx, "name = ?", name)
}

func (repo *roleRepository) findPermission(ctx context.Context, cond string, arg any) (*entity.Permission, error) {
	var permM model.PermissionModel
	if err := repo.db.WithContext(ctx).Where(cond, arg).First(&permM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrPermissionNotFound, "failed to find permission")
	}

	return toPermissionDomain(&permM), nil
}

func (repo *roleRepository) FindPermissionsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Permission, error) {
	if len(ids) == 0 {
		return []*entity.Permission{}, nil
	}

	var permMs []model.PermissionModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&permMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find permissions")
	}

	return mapSlice(permMs, toPermissionDomain), nil
}

func (repo *roleRepository) ListPermissions(ctx context.Context) ([]*entity.Permission, error) {
	var permMs []model.PermissionModel
	if err := repo.db.WithContext(ctx).Order("name").Find(&permMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list permissions")
	}

	return mapSlice(permMs, toPermissionDomain), nil
}

func (repo *roleRepository) UpdatePermission(ctx context.Context, permission *entity.Permission) error {
	permM := &model.PermissionModel{Base: model.Base{ID: permission.ID}, Name: permission.Name, Description: permission.Description}
	result := repo.db.WithContext(ctx).Model(permM).Select("name", "description").Updates(permM)
	if result.Error != nil {
		return writeError(result.Error, domainerrors.ErrPermissionAlreadyExists, nil, "failed to update permission")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrPermissionNotFound
	}

	permission.UpdatedAt = permM.UpdatedAt

	return nil
}

func (repo *roleRepository) DeletePermission(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)
	if err := db.Where("permission_id = ?", id).Delete(&model.RolePermissionModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to detach permission")
	}

	result := db.Delete(&model.PermissionModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete permission")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrPermissionNotFound
	}

	return nil
}

func toRoleDomain(roleM *model.RoleModel) *entity.Role {
	return &entity.Role{
		ID:          roleM.ID,
		Name:        roleM.Name,
		Slug:        roleM.Slug,
		Description: roleM.Description,
		IsSystem:    roleM.IsSystem,
		Permissions: mapSlice(roleM.Permissions, toPermissionDomain),
		CreatedAt:   roleM.CreatedAt,
		UpdatedAt:   roleM.UpdatedAt,
	}
}

func fromRoleDomain(role *entity.Role) *model.RoleModel {
	return &model.RoleModel{
		Base:        model.Base{ID: role.ID, CreatedAt: role.CreatedAt, UpdatedAt: role.UpdatedAt},
		Name:        role.Name,
		Slug:        role.Slug,
		Description: role.Description,
		IsSystem:    role.IsSystem,
	}
}

func toPermissionDomain(permM *model.PermissionModel) *entity.Permission {
	return &entity.Permission{
		ID:          permM.ID,
		Name:        permM.Name,
		Description: permM.Description,
		CreatedAt:   permM.CreatedAt,
		UpdatedAt:   permM.UpdatedAt,
	}
}
