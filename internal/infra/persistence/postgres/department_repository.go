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

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository is the constructor for departmentRepository.
func NewDepartmentRepository(db *gorm.DB) repository.DepartmentRepository {
	return &departmentRepository{db: db}
}

func (repo *departmentRepository) Create(ctx context.Context, department *entity.Department) error {
	deptM := fromDepartmentDomain(department)
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(deptM).Error; err != nil {
		return writeError(err, domainerrors.ErrDepartmentAlreadyExists, nil, "failed to create department")
	}

	department.ID = deptM.ID
	department.CreatedAt = deptM.CreatedAt
	department.UpdatedAt = deptM.UpdatedAt

	return nil
}

func (repo *departmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Department, error) {
	var deptM model.DepartmentModel
	if err := repo.db.WithContext(ctx).Preload("Members").Where("id = ?", id).First(&deptM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrDepartmentNotFound, "failed to find department")
	}

	return toDepartmentDomain(&deptM), nil
}

func (repo *departmentRepository) List(ctx context.Context) ([]*entity.Department, error) {
	var deptMs []model.DepartmentModel
	if err := repo.db.WithContext(ctx).Preload("Members").Order("name").Find(&deptMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list departments")
	}

	return mapSlice(deptMs, toDepartmentDomain), nil
}

func (repo *departmentRepository) Update(ctx context.Context, department *entity.Department) error {
	deptM := fromDepartmentDomain(department)
	result := repo.db.WithContext(ctx).Model(deptM).Select("name", "description", "head_user_id").Updates(deptM)
	if result.Error != nil {
		return writeError(result.Error, domainerrors.ErrDepartmentAlreadyExists, nil, "failed to update department")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDepartmentNotFound
	}

	department.UpdatedAt = deptM.UpdatedAt

	return nil
}

func (repo *departmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)
	if err := db.Where("department_id = ?", id).Delete(&model.DepartmentMemberModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to detach department members")
	}

	result := db.Delete(&model.DepartmentModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete department")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDepartmentNotFound
	}

	return nil
}

// SyncMembers replaces the member set of a department.
func (repo *departmentRepository) SyncMembers(ctx context.Context, departmentID uuid.UUID, members []*entity.User) error {
	db := repo.db.WithContext(ctx)
	if err := db.Where("department_id = ?", departmentID).Delete(&model.DepartmentMemberModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear department members")
	}
	if len(members) == 0 {
		return nil
	}

	links := make([]model.DepartmentMemberModel, 0, len(members))
	for _, member := range members {
		links = append(links, model.DepartmentMemberModel{DepartmentID: departmentID, UserID: member.ID})
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
		return writeError(err, nil, domainerrors.ErrUserNotFound, "failed to assign department members")
	}

	return nil
}

func toDepartmentDomain(deptM *model.DepartmentModel) *entity.Department {
	dept := &entity.Department{
		ID:          deptM.ID,
		Name:        deptM.Name,
		Description: deptM.Description,
		HeadUserID:  deptM.HeadUserID,
		CreatedAt:   deptM.CreatedAt,
		UpdatedAt:   deptM.UpdatedAt,
	}
	for i := range deptM.Members {
		m := &deptM.Members[i]
		dept.Members = append(dept.Members, &entity.User{ID: m.ID, Name: m.Name, Email: m.Email, Status: entity.UserStatus(m.Status)})
	}

	return dept
}

func fromDepartmentDomain(dept *entity.Department) *model.DepartmentModel {
	return &model.DepartmentModel{
		Base:        model.Base{ID: dept.ID, CreatedAt: dept.CreatedAt, UpdatedAt: dept.UpdatedAt},
		Name:        dept.Name,
		Description: dept.Description,
		HeadUserID:  dept.HeadUserID,
	}
}
