package postgres

import (
	"context"
	"errors"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/infra/persistence/model"

	"gorm.io/gorm"
)

type aboutUsRepository struct {
	db *gorm.DB
}

// NewAboutUsRepository is the constructor for aboutUsRepository.
func NewAboutUsRepository(db *gorm.DB) repository.AboutUsRepository {
	return &aboutUsRepository{db: db}
}

func (repo *aboutUsRepository) Get(ctx context.Context) (*entity.AboutUs, error) {
	var aboutM model.AboutUsModel
	if err := repo.db.WithContext(ctx).Order("created_at").First(&aboutM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrAboutUsNotFound, "failed to load about us")
	}

	return toAboutUsDomain(&aboutM), nil
}

// Save keeps a single row: the first record is updated in place when one exists.
func (repo *aboutUsRepository) Save(ctx context.Context, about *entity.AboutUs) error {
	db := repo.db.WithContext(ctx)

	var existing model.AboutUsModel
	err := db.Order("created_at").First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		aboutM := fromAboutUsDomain(about)
		if err := db.Create(aboutM).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to create about us")
		}
		*about = *toAboutUsDomain(aboutM)

		return nil
	case err != nil:
		return domainerrors.NewDatabaseExecuteError(err, "failed to load about us")
	}

	aboutM := fromAboutUsDomain(about)
	aboutM.ID = existing.ID
	aboutM.CreatedAt = existing.CreatedAt
	if err := db.Model(aboutM).Select("title", "body", "mission", "vision", "image").Updates(aboutM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update about us")
	}
	*about = *toAboutUsDomain(aboutM)

	return nil
}

func toAboutUsDomain(aboutM *model.AboutUsModel) *entity.AboutUs {
	return &entity.AboutUs{
		ID:        aboutM.ID,
		Title:     aboutM.Title,
		Body:      aboutM.Body,
		Mission:   aboutM.Mission,
		Vision:    aboutM.Vision,
		Image:     aboutM.Image,
		CreatedAt: aboutM.CreatedAt,
		UpdatedAt: aboutM.UpdatedAt,
	}
}

func fromAboutUsDomain(about *entity.AboutUs) *model.AboutUsModel {
	return &model.AboutUsModel{
		Base:    model.Base{ID: about.ID, CreatedAt: about.CreatedAt, UpdatedAt: about.UpdatedAt},
		Title:   about.Title,
		Body:    about.Body,
		Mission: about.Mission,
		Vision:  about.Vision,
		Image:   about.Image,
	}
}
