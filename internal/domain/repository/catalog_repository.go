package repository

import (
	"context"

	"ministry/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogRepository manages product categories and attributes.
type CatalogRepository interface {
	CreateCategory(ctx context.Context, category *entity.ProductCategory) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*entity.ProductCategory, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]*entity.ProductCategory, error)
	UpdateCategory(ctx context.Context, category *entity.ProductCategory) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CountCategoryProducts(ctx context.Context, categoryID uuid.UUID) (int64, error)

	CreateAttribute(ctx context.Context, attribute *entity.ProductAttribute) error
	FindAttributeByID(ctx context.Context, id uuid.UUID) (*entity.ProductAttribute, error)
	ListAttributes(ctx context.Context) ([]*entity.ProductAttribute, error)
	UpdateAttribute(ctx context.Context, attribute *entity.ProductAttribute) error
	DeleteAttribute(ctx context.Context, id uuid.UUID) error

	CreateAttributeValue(ctx context.Context, value *entity.ProductAttributeValue) error
	FindAttributeValueByID(ctx context.Context, id uuid.UUID) (*entity.ProductAttributeValue, error)
	FindAttributeValuesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.ProductAttributeValue, error)
	UpdateAttributeValue(ctx context.Context, value *entity.ProductAttributeValue) error
	DeleteAttributeValue(ctx context.Context, id uuid.UUID) error
}

// ProductSort orders the product list.
type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	ProductSortName      ProductSort = "name"
)

// ProductFilter narrows the product list. Nil fields are ignored.
type ProductFilter struct {
	CategoryID *uuid.UUID
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Featured   *bool
	InStock    *bool
	ActiveOnly bool
	Sort       ProductSort
	Pagination
}

// ProductRepository manages products. Stock moves only through the guarded counters.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error

	// FindByID loads the product with its category and variants.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) (*Page[*entity.Product], error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock subtracts qty only while stock >= qty and
	// returns domainerrors.ErrInsufficientStock otherwise.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
	IncrementStock(ctx context.Context, id uuid.UUID, qty int) error

	// LowStock lists products without variants and all variants whose stock is at or below threshold.
	LowStock(ctx context.Context, threshold int) ([]*entity.StockItem, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	All(ctx context.Context) ([]*entity.Product, error)
}

// VariantRepository manages product variants.
type VariantRepository interface {
	Create(ctx context.Context, variant *entity.ProductVariant) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ProductVariant, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.ProductVariant, error)
	Update(ctx context.Context, variant *entity.ProductVariant) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock subtracts qty only while stock >= qty and
	// returns domainerrors.ErrInsufficientStock otherwise.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
	IncrementStock(ctx context.Context, id uuid.UUID, qty int) error
}

// CartRepository stores the per-user cart lines.
type CartRepository interface {
	// ListByUser returns the lines with product and variant loaded.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error)

	// FindLine returns the line for product and variant, or domainerrors.ErrCartItemNotFound.
	FindLine(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) (*entity.CartItem, error)

	FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.CartItem, error)
	Create(ctx context.Context, item *entity.CartItem) error
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}
