package postgres

import (
	"context"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) repository.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (repo *refreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	tokenM := &model.RefreshTokenModel{
		Base:      model.Base{ID: token.ID},
		UserID:    token.UserID,
		TokenHash: token.TokenHash,
		ExpiresAt: token.ExpiresAt,
	}
	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		return writeError(err, nil, domainerrors.ErrUserNotFound, "failed to create refresh token")
	}

	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt

	return nil
}

func (repo *refreshTokenRepository) FindByHash(ctx context.Context, hash string) (*entity.RefreshToken, error) {
	var tokenM model.RefreshTokenModel
	if err := repo.db.WithContext(ctx).Where("token_hash = ?", hash).First(&tokenM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrRefreshTokenInvalid, "failed to find refresh token")
	}

	return &entity.RefreshToken{
		ID:        tokenM.ID,
		UserID:    tokenM.UserID,
		TokenHash: tokenM.TokenHash,
		ExpiresAt: tokenM.ExpiresAt,
		CreatedAt: tokenM.CreatedAt,
	}, nil
}

func (repo *refreshTokenRepository) DeleteByHash(ctx context.Context, hash string) error {
	if err := repo.db.WithContext(ctx).Where("token_hash = ?", hash).Delete(&model.RefreshTokenModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete refresh token")
	}

	return nil
}

func (repo *refreshTokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.RefreshTokenModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete user refresh tokens")
	}

	return nil
}
