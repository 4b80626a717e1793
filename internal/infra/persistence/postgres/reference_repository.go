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

type referenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository is the constructor for referenceRepository.
func NewReferenceRepository(db *gorm.DB) repository.ReferenceRepository {
	return &referenceRepository{db: db}
}

func (repo *referenceRepository) ListCountries(ctx context.Context) ([]*entity.Country, error) {
	var countryMs []model.CountryModel
	if err := repo.db.WithContext(ctx).Order("name").Find(&countryMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list countries")
	}

	return mapSlice(countryMs, toCountryDomain), nil
}

func (repo *referenceRepository) FindCountryByID(ctx context.Context, id uuid.UUID) (*entity.Country, error) {
	var countryM model.CountryModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&countryM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrCountryNotFound, "failed to find country")
	}

	return toCountryDomain(&countryM), nil
}

func (repo *referenceRepository) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]*entity.PaymentMethod, error) {
	q := repo.db.WithContext(ctx).Order("name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var methodMs []model.PaymentMethodModel
	if err := q.Find(&methodMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list payment methods")
	}

	return mapSlice(methodMs, toPaymentMethodDomain), nil
}

func (repo *referenceRepository) FindPaymentMethodByCode(ctx context.Context, code string) (*entity.PaymentMethod, error) {
	var methodM model.PaymentMethodModel
	err := repo.db.WithContext(ctx).Where("code = ? AND is_active = ?", code, true).First(&methodM).Error
	if err != nil {
		return nil, readError(err, domainerrors.ErrPaymentMethodUnavailable, "failed to find payment method")
	}

	return toPaymentMethodDomain(&methodM), nil
}

func (repo *referenceRepository) UpsertCountry(ctx context.Context, country *entity.Country) error {
	countryM := &model.CountryModel{Base: model.Base{ID: country.ID}, Name: country.Name, ISO2: country.ISO2, PhoneCode: country.PhoneCode}
	err := repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "iso2"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "phone_code", "updated_at"}),
	}).Create(countryM).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert country")
	}

	return nil
}

func (repo *referenceRepository) UpsertPaymentMethod(ctx context.Context, method *entity.PaymentMethod) error {
	methodM := &model.PaymentMethodModel{
		Base:     model.Base{ID: method.ID},
		Code:     method.Code,
		Name:     method.Name,
		Provider: method.Provider,
		IsActive: method.IsActive,
	}
	err := repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "provider", "is_active", "updated_at"}),
	}).Create(methodM).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert payment method")
	}

	return nil
}

func toCountryDomain(countryM *model.CountryModel) *entity.Country {
	return &entity.Country{
		ID:        countryM.ID,
		Name:      countryM.Name,
		ISO2:      countryM.ISO2,
		PhoneCode: countryM.PhoneCode,
	}
}

func toPaymentMethodDomain(methodM *model.PaymentMethodModel) *entity.PaymentMethod {
	return &entity.PaymentMethod{
		ID:       methodM.ID,
		Code:     methodM.Code,
		Name:     methodM.Name,
		Provider: methodM.Provider,
		IsActive: methodM.IsActive,
	}
}
