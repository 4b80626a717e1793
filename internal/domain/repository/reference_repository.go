package repository

import (
	"context"

	"ministry/internal/domain/entity"

	"github.com/google/uuid"
)

// ReferenceRepository serves seeded lookup data.
type ReferenceRepository interface {
	ListCountries(ctx context.Context) ([]*entity.Country, error)
	FindCountryByID(ctx context.Context, id uuid.UUID) (*entity.Country, error)

	// ListPaymentMethods returns every method, or only active ones when activeOnly is set.
	ListPaymentMethods(ctx context.Context, activeOnly bool) ([]*entity.PaymentMethod, error)

	// FindPaymentMethodByCode returns domainerrors.ErrPaymentMethodUnavailable for an unknown or inactive code.
	FindPaymentMethodByCode(ctx context.Context, code string) (*entity.PaymentMethod, error)

	// UpsertCountry inserts by ISO2 or updates the existing row.
	UpsertCountry(ctx context.Context, country *entity.Country) error

	// UpsertPaymentMethod inserts by code or updates the existing row.
	UpsertPaymentMethod(ctx context.Context, method *entity.PaymentMethod) error
}
