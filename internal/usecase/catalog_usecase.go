package usecase

import (
	"context"
	"io"

	"ministry/internal/domain/entity"
	"ministry/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Upload is one file from a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type CategoryInput struct {
	ParentID    *uuid.UUID
	Name        string
	Slug        string
	Description string
	IsActive    bool
}

type AttributeInput struct {
	Name string
	Slug string
}

type ProductInput struct {
	CategoryID     *uuid.UUID
	Name           string
	Slug           string
	SKU            string
	Description    string
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Stock          int
	IsActive       bool
	IsFeatured     bool
	Dimensions     *entity.Dimensions
	Tags           []string
}

type VariantInput struct {
	SKU               string
	Name              string
	Price             decimal.Decimal
	Stock             int
	AttributeValueIDs []uuid.UUID
}

// CatalogUsecase manages categories, attributes, products and variants.
type CatalogUsecase interface {
	ListCategories(ctx context.Context, activeOnly bool) ([]*entity.ProductCategory, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*entity.ProductCategory, error)
	CreateCategory(ctx context.Context, input *CategoryInput) (*entity.ProductCategory, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input *CategoryInput) (*entity.ProductCategory, error)

	// DeleteCategory refuses categories that still hold products.
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListAttributes(ctx context.Context) ([]*entity.ProductAttribute, error)
	CreateAttribute(ctx context.Context, input *AttributeInput) (*entity.ProductAttribute, error)
	UpdateAttribute(ctx context.Context, id uuid.UUID, input *AttributeInput) (*entity.ProductAttribute, error)
	DeleteAttribute(ctx context.Context, id uuid.UUID) error
	AddAttributeValue(ctx context.Context, attributeID uuid.UUID, value string) (*entity.ProductAttributeValue, error)
	UpdateAttributeValue(ctx context.Context, valueID uuid.UUID, value string) (*entity.ProductAttributeValue, error)
	DeleteAttributeValue(ctx context.Context, valueID uuid.UUID) error

	ListProducts(ctx context.Context, filter repository.ProductFilter) (*repository.Page[*entity.Product], error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*entity.Product, error)
	CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input *ProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// UploadImages resizes each image and appends it to the product's images.
	UploadImages(ctx context.Context, productID uuid.UUID, files []Upload) (*entity.Product, error)
	RemoveImage(ctx context.Context, productID uuid.UUID, path string) (*entity.Product, error)

	ListVariants(ctx context.Context, productID uuid.UUID) ([]*entity.ProductVariant, error)
	CreateVariant(ctx context.Context, productID uuid.UUID, input *VariantInput) (*entity.ProductVariant, error)
	UpdateVariant(ctx context.Context, variantID uuid.UUID, input *VariantInput) (*entity.ProductVariant, error)
	DeleteVariant(ctx context.Context, variantID uuid.UUID) error

	// LowStock uses the configured threshold when threshold is not positive.
	LowStock(ctx context.Context, threshold int) ([]*entity.StockItem, error)
}

type AddCartItemInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

// CartUsecase manages the signed-in user's cart.
type CartUsecase interface {
	Get(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// AddItem merges into an existing line for the same product and variant.
	AddItem(ctx context.Context, userID uuid.UUID, input *AddCartItemInput) (*entity.Cart, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*entity.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*entity.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}
