package impl

import (
	"context"

	"ministry/internal/domain/entity"
	"ministry/internal/domain/repository"
	"ministry/internal/usecase"
)

type referenceService struct {
	referenceRepo repository.ReferenceRepository
}

// NewReferenceService creates a new reference service instance
func NewReferenceService(referenceRepo repository.ReferenceRepository) usecase.ReferenceUsecase {
	return &referenceService{referenceRepo: referenceRepo}
}

func (srv *referenceService) Countries(ctx context.Context) ([]*entity.Country, error) {
	return srv.referenceRepo.ListCountries(ctx)
}

// PaymentMethods lists only the methods offered at checkout.
func (srv *referenceService) PaymentMethods(ctx context.Context) ([]*entity.PaymentMethod, error) {
	return srv.referenceRepo.ListPaymentMethods(ctx, true)
}
