package impl

import (
	"context"
	"log/slog"

	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/errors"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type cartService struct {
	txManager   repository.TransactionManager
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	logger      *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository
	VariantRepo repository.VariantRepository
	Logger      *slog.Logger
}

// NewCartService creates a new cart service instance
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		txManager:   params.TxManager,
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
		variantRepo: params.VariantRepo,
		logger:      params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *cartService) Get(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	items, err := srv.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return entity.NewCart(items), nil
}

func (srv *cartService) AddItem(ctx context.Context, userID uuid.UUID, input *usecase.AddCartItemInput) (*entity.Cart, error) {
	if input.Quantity < 1 {
		return nil, domainerrors.NewFieldError("quantity", "The quantity must be at least 1.")
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		stock, err := purchasableStock(ctx, repoFactory, input.ProductID, input.VariantID)
		if err != nil {
			return err
		}

		cartRepo := repoFactory.CartRepo()
		line, err := cartRepo.FindLine(ctx, userID, input.ProductID, input.VariantID)
		switch {
		case err == nil:
			quantity := line.Quantity + input.Quantity
			if quantity > stock {
				return domainerrors.ErrInsufficientStock
			}

			return cartRepo.UpdateQuantity(ctx, line.ID, quantity)
		case errors.Is(err, domainerrors.ErrCartItemNotFound):
			if input.Quantity > stock {
				return domainerrors.ErrInsufficientStock
			}

			return cartRepo.Create(ctx, &entity.CartItem{
				UserID:    userID,
				ProductID: input.ProductID,
				VariantID: input.VariantID,
				Quantity:  input.Quantity,
			})
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Cart item added", slog.Any("userID", userID), slog.Any("productID", input.ProductID))

	return srv.Get(ctx, userID)
}

// UpdateItem sets the line quantity; zero removes the line.
func (srv *cartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*entity.Cart, error) {
	if quantity < 0 {
		return nil, domainerrors.NewFieldError("quantity", "The quantity must not be negative.")
	}
	if quantity == 0 {
		return srv.RemoveItem(ctx, userID, itemID)
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()
		line, err := cartRepo.FindByID(ctx, userID, itemID)
		if err != nil {
			return err
		}

		stock, err := purchasableStock(ctx, repoFactory, line.ProductID, line.VariantID)
		if err != nil {
			return err
		}
		if quantity > stock {
			return domainerrors.ErrInsufficientStock
		}

		return cartRepo.UpdateQuantity(ctx, line.ID, quantity)
	})
	if err != nil {
		return nil, err
	}

	return srv.Get(ctx, userID)
}

func (srv *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*entity.Cart, error) {
	if err := srv.cartRepo.Delete(ctx, userID, itemID); err != nil {
		return nil, err
	}

	return srv.Get(ctx, userID)
}

func (srv *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return srv.cartRepo.Clear(ctx, userID)
}

// purchasableStock returns the stock of an active product, or of its variant
// when variantID is set. A variant of another product counts as not found.
func purchasableStock(ctx context.Context, repoFactory repository.RepositoryFactory, productID uuid.UUID, variantID *uuid.UUID) (int, error) {
	product, err := repoFactory.ProductRepo().FindByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if !product.IsActive {
		return 0, domainerrors.ErrProductUnavailable
	}
	if variantID == nil {
		return product.Stock, nil
	}

	variant, err := repoFactory.VariantRepo().FindByID(ctx, *variantID)
	if err != nil {
		return 0, err
	}
	if variant.ProductID != productID {
		return 0, domainerrors.ErrVariantNotFound
	}

	return variant.Stock, nil
}
