package postgres

import (
	"context"
	"testing"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProduct(t *testing.T, repo repository.ProductRepository, slug string, price int64, stock int) *entity.Product {
	t.Helper()

	product := &entity.Product{
		Name:     "Product " + slug,
		Slug:     slug,
		SKU:      "SKU-" + slug,
		Price:    decimal.NewFromInt(price),
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, repo.Create(context.Background(), product))

	return product
}

func TestProductRepository_DecrementStockIsGuarded(t *testing.T) {
	repo := NewProductRepository(testutil.NewDB(t))
	ctx := context.Background()

	product := createTestProduct(t, repo, "bible", 25, 3)

	require.NoError(t, repo.DecrementStock(ctx, product.ID, 2))
	assert.ErrorIs(t, repo.DecrementStock(ctx, product.ID, 2), domainerrors.ErrInsufficientStock)
	require.NoError(t, repo.IncrementStock(ctx, product.ID, 4))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Stock)
}

func TestProductRepository_ListSortAndPriceRange(t *testing.T) {
	repo := NewProductRepository(testutil.NewDB(t))
	ctx := context.Background()

	createTestProduct(t, repo, "candle", 5, 10)
	createTestProduct(t, repo, "hymnal", 15, 10)
	createTestProduct(t, repo, "robe", 60, 10)

	minPrice := decimal.NewFromInt(5)
	maxPrice := decimal.NewFromInt(20)
	page, err := repo.List(ctx, repository.ProductFilter{
		MinPrice:   &minPrice,
		MaxPrice:   &maxPrice,
		ActiveOnly: true,
		Sort:       repository.ProductSortPriceDesc,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "hymnal", page.Items[0].Slug)
	assert.Equal(t, "candle", page.Items[1].Slug)
}

func TestProductRepository_LowStock(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepository(db)
	variants := NewVariantRepository(db)
	ctx := context.Background()

	createTestProduct(t, repo, "low", 10, 1)
	createTestProduct(t, repo, "plenty", 10, 50)
	withVariants := createTestProduct(t, repo, "shirt", 10, 0)
	require.NoError(t, variants.Create(ctx, &entity.ProductVariant{
		ProductID: withVariants.ID,
		SKU:       "SHIRT-S",
		Name:      "Small",
		Price:     decimal.NewFromInt(10),
		Stock:     2,
	}))

	items, err := repo.LowStock(ctx, 3)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Stock)
	assert.Nil(t, items[0].VariantID)
	assert.Equal(t, "SHIRT-S", items[1].SKU)
	require.NotNil(t, items[1].VariantID)

	count, err := repo.CountLowStock(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
