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

// userRepository implements the domain.UserRepository interface.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) preloaded(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Preload("Country").
		Preload("Profile").
		Preload("Roles.Permissions").
		Preload("Departments")
}

// Create persists a new user together with its role links.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(userM).Error; err != nil {
		return writeError(err, domainerrors.ErrUserAlreadyExists, domainerrors.ErrCountryNotFound, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return repo.SyncRoles(ctx, user.ID, user.Roles)
}

func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.findOne(ctx, "id = ?", id)
}

func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, "email = ?", email)
}

func (repo *userRepository) FindByPhone(ctx context.Context, phone string) (*entity.User, error) {
	return repo.findOne(ctx, "phone_number = ?", phone)
}

func (repo *userRepository) findOne(ctx context.Context, cond string, arg any) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.preloaded(ctx).Where(cond, arg).First(&userM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrUserNotFound, "failed to find user")
	}

	return toUserDomain(&userM), nil
}

func (repo *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.User, error) {
	if len(ids) == 0 {
		return []*entity.User{}, nil
	}

	var userMs []model.UserModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&userMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find users")
	}

	return mapSlice(userMs, toUserDomain), nil
}

// Update saves scalar fields. Associations are left untouched.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	result := repo.db.WithContext(ctx).Model(userM).
		Select("name", "email", "phone_number", "password_hash", "country_id", "status",
			"otp_hash", "otp_expires_at", "verified_at", "last_login_at").
		Updates(userM)
	if result.Error != nil {
		return writeError(result.Error, domainerrors.ErrUserAlreadyExists, domainerrors.ErrCountryNotFound, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

func (repo *userRepository) List(ctx context.Context, filter repository.UserFilter) (*repository.Page[*entity.User], error) {
	q := repo.db.WithContext(ctx).Model(&model.UserModel{}).
		Scopes(searchScope(filter.Search, "users.name", "users.email", "users.phone_number"))
	if filter.Status != "" {
		q = q.Where("users.status = ?", filter.Status)
	}
	if filter.Role != "" {
		q = q.Where("users.id IN (?)", repo.db.Table("user_roles").
			Select("user_roles.user_id").
			Joins("JOIN roles ON roles.id = user_roles.role_id").
			Where("roles.slug = ?", filter.Role))
	}

	rows, total, err := findPage[model.UserModel](q, filter.Pagination, "users.created_at DESC, users.id", preload("Roles"))
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list users")
	}

	return repository.NewPage(mapSlice(rows, toUserDomain), total, filter.Pagination), nil
}

// SyncRoles replaces the role set of a user.
func (repo *userRepository) SyncRoles(ctx context.Context, userID uuid.UUID, roles []*entity.Role) error {
	db := repo.db.WithContext(ctx)
	if err := db.Where("user_id = ?", userID).Delete(&model.UserRoleModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear user roles")
	}
	if len(roles) == 0 {
		return nil
	}

	links := make([]model.UserRoleModel, 0, len(roles))
	for _, role := range roles {
		links = append(links, model.UserRoleModel{UserID: userID, RoleID: role.ID})
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
		return writeError(err, nil, domainerrors.ErrRoleNotFound, "failed to assign user roles")
	}

	return nil
}

// SaveProfile inserts or updates the one-to-one profile row.
func (repo *userRepository) SaveProfile(ctx context.Context, profile *entity.UserProfile) error {
	profileM := &model.UserProfileModel{
		UserID:         profile.UserID,
		Bio:            profile.Bio,
		DateOfBirth:    profile.DateOfBirth,
		Gender:         profile.Gender,
		City:           profile.City,
		ProfilePicture: profile.ProfilePicture,
	}

	err := repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"bio", "date_of_birth", "gender", "city", "profile_picture", "updated_at"}),
	}).Create(profileM).Error
	if err != nil {
		return writeError(err, nil, domainerrors.ErrUserNotFound, "failed to save user profile")
	}

	profile.UpdatedAt = profileM.UpdatedAt

	return nil
}

func (repo *userRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countBy(ctx, repo.db, &model.UserModel{}, "status")
}

type groupCount struct {
	GroupKey string
	Total    int64
}

// countBy returns row counts of table grouped by column.
func countBy(ctx context.Context, db *gorm.DB, table any, column string) (map[string]int64, error) {
	var rows []groupCount
	err := db.WithContext(ctx).Model(table).
		Select(column + " AS group_key, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to count by "+column)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.GroupKey] = row.Total
	}

	return counts, nil
}

func toUserDomain(userM *model.UserModel) *entity.User {
	user := &entity.User{
		ID:           userM.ID,
		Name:         userM.Name,
		Email:        userM.Email,
		PasswordHash: userM.PasswordHash,
		CountryID:    userM.CountryID,
		Status:       entity.UserStatus(userM.Status),
		OTPHash:      userM.OTPHash,
		OTPExpiresAt: userM.OTPExpiresAt,
		VerifiedAt:   userM.VerifiedAt,
		LastLoginAt:  userM.LastLoginAt,
		CreatedAt:    userM.CreatedAt,
		UpdatedAt:    userM.UpdatedAt,
	}
	if userM.PhoneNumber != nil {
		user.PhoneNumber = *userM.PhoneNumber
	}
	if userM.Country != nil {
		user.Country = toCountryDomain(userM.Country)
	}
	if userM.Profile != nil {
		user.Profile = &entity.UserProfile{
			UserID:         userM.Profile.UserID,
			Bio:            userM.Profile.Bio,
			DateOfBirth:    userM.Profile.DateOfBirth,
			Gender:         userM.Profile.Gender,
			City:           userM.Profile.City,
			ProfilePicture: userM.Profile.ProfilePicture,
			UpdatedAt:      userM.Profile.UpdatedAt,
		}
	}
	user.Roles = mapSlice(userM.Roles, toRoleDomain)
	user.Departments = mapSlice(userM.Departments, toDepartmentDomain)

	return user
}

// fromUserDomain stores an empty phone number as NULL so the unique index ignores it.
func fromUserDomain(user *entity.User) *model.UserModel {
	var phone *string
	if user.PhoneNumber != "" {
		phone = &user.PhoneNumber
	}

	return &model.UserModel{
		Base:         model.Base{ID: user.ID, CreatedAt: user.CreatedAt, UpdatedAt: user.UpdatedAt},
		Name:         user.Name,
		Email:        user.Email,
		PhoneNumber:  phone,
		PasswordHash: user.PasswordHash,
		CountryID:    user.CountryID,
		Status:       string(user.Status),
		OTPHash:      user.OTPHash,
		OTPExpiresAt: user.OTPExpiresAt,
		VerifiedAt:   user.VerifiedAt,
		LastLoginAt:  user.LastLoginAt,
	}
}
