package impl

import (
	"context"
	"testing"

	"ministry/internal/domain/constants"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/infra/persistence/postgres"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalogService(f *fixture) usecase.CatalogUsecase {
	return NewCatalogService(CatalogServiceParams{
		TxManager:      f.tx,
		CatalogRepo:    postgres.NewCatalogRepository(f.db),
		ProductRepo:    f.products,
		VariantRepo:    f.variants,
		Storage:        f.storage,
		ImageProcessor: passthroughImages{},
		Config:         f.cfg,
		Logger:         f.logger,
	})
}

func TestCatalogService_CategoryInUse(t *testing.T) {
	f := newFixture(t)
	srv := newTestCatalogService(f)
	ctx := context.Background()

	books, err := srv.CreateCategory(ctx, &usecase.CategoryInput{Name: "Books", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "books", books.Slug)

	_, err = srv.UpdateCategory(ctx, books.ID, &usecase.CategoryInput{Name: "Books", ParentID: &books.ID})
	var verr *domainerrors.ValidationError
	assert.ErrorAs(t, err, &verr)

	missing := uuid.New()
	_, err = srv.CreateCategory(ctx, &usecase.CategoryInput{Name: "Orphan", ParentID: &missing})
	assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)

	product, err := srv.CreateProduct(ctx, &usecase.ProductInput{
		CategoryID: &books.ID,
		Name:       "Daily Devotional",
		SKU:        "BK-001",
		Price:      decimal.RequireFromString("12.499"),
		Stock:      5,
		IsActive:   true,
		Tags:       []string{" Faith ", "faith", "", "Prayer"},
	})
	require.NoError(t, err)
	assert.Equal(t, "daily-devotional", product.Slug)
	assert.True(t, decimal.RequireFromString("12.50").Equal(product.Price))
	assert.Equal(t, []string{"faith", "prayer"}, product.Tags)

	assert.ErrorIs(t, srv.DeleteCategory(ctx, books.ID), domainerrors.ErrCategoryInUse)

	require.NoError(t, srv.DeleteProduct(ctx, product.ID))
	require.NoError(t, srv.DeleteCategory(ctx, books.ID))
	_, err = srv.GetCategory(ctx, books.ID)
	assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)
}

func TestCatalogService_ProductValidationAndVisibility(t *testing.T) {
	f := newFixture(t)
	srv := newTestCatalogService(f)
	ctx := context.Background()

	lower := decimal.NewFromInt(5)
	_, err := srv.CreateProduct(ctx, &usecase.ProductInput{Name: "Bad", SKU: "BAD", Price: decimal.NewFromInt(10), CompareAtPrice: &lower, Stock: -1})
	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.FieldErrors(), "compare_at_price")
	assert.Contains(t, verr.FieldErrors(), "stock")

	hidden, err := srv.CreateProduct(ctx, &usecase.ProductInput{Name: "Hidden Mug", SKU: "MUG", Price: decimal.NewFromInt(8)})
	require.NoError(t, err)

	_, err = srv.GetProductBySlug(ctx, "hidden-mug")
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)

	got, err := srv.GetProduct(ctx, hidden.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestCatalogService_Images(t *testing.T) {
	f := newFixture(t)
	srv := newTestCatalogService(f)
	ctx := context.Background()

	product := f.createProduct(t, "candle", 4, 10)

	withImages, err := srv.UploadImages(ctx, product.ID, []usecase.Upload{testUpload("a.jpg", "a"), testUpload("b.jpg", "b")})
	require.NoError(t, err)
	require.Len(t, withImages.Images, 2)
	assert.Equal(t, "https://cdn.test/"+withImages.Images[0], withImages.ImageURLs[0])
	assert.Contains(t, withImages.Images[0], constants.StorageProducts+"/"+product.ID.String())

	_, err = srv.RemoveImage(ctx, product.ID, "products/elsewhere.jpg")
	var verr *domainerrors.ValidationError
	assert.ErrorAs(t, err, &verr)

	removed := withImages.Images[0]
	trimmed, err := srv.RemoveImage(ctx, product.ID, removed)
	require.NoError(t, err)
	assert.Equal(t, []string{withImages.Images[1]}, trimmed.Images)
	assert.False(t, f.storage.has(removed))

	require.NoError(t, srv.DeleteProduct(ctx, product.ID))
	assert.Zero(t, f.storage.count())
}

func TestCatalogService_VariantCombinations(t *testing.T) {
	f := newFixture(t)
	srv := newTestCatalogService(f)
	ctx := context.Background()

	product := f.createProduct(t, "tshirt", 20, 0)
	size, err := srv.CreateAttribute(ctx, &usecase.AttributeInput{Name: "Size"})
	require.NoError(t, err)
	color, err := srv.CreateAttribute(ctx, &usecase.AttributeInput{Name: "Color"})
	require.NoError(t, err)
	medium, err := srv.AddAttributeValue(ctx, size.ID, " M ")
	require.NoError(t, err)
	assert.Equal(t, "M", medium.Value)
	white, err := srv.AddAttributeValue(ctx, color.ID, "White")
	require.NoError(t, err)
	black, err := srv.AddAttributeValue(ctx, color.ID, "Black")
	require.NoError(t, err)

	_, err = srv.AddAttributeValue(ctx, uuid.New(), "XL")
	assert.ErrorIs(t, err, domainerrors.ErrAttributeNotFound)

	first, err := srv.CreateVariant(ctx, product.ID, &usecase.VariantInput{
		SKU:               "TS-M-W",
		Price:             decimal.NewFromInt(20),
		Stock:             2,
		AttributeValueIDs: []uuid.UUID{medium.ID, white.ID, medium.ID},
	})
	require.NoError(t, err)
	assert.Len(t, first.AttributeValueIDs, 2)

	_, err = srv.CreateVariant(ctx, product.ID, &usecase.VariantInput{
		SKU:               "TS-W-M",
		Price:             decimal.NewFromInt(20),
		AttributeValueIDs: []uuid.UUID{white.ID, medium.ID},
	})
	assert.ErrorIs(t, err, domainerrors.ErrVariantCombinationExists)

	_, err = srv.CreateVariant(ctx, product.ID, &usecase.VariantInput{SKU: "TS-X", AttributeValueIDs: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, domainerrors.ErrAttributeValueNotFound)

	second, err := srv.CreateVariant(ctx, product.ID, &usecase.VariantInput{
		SKU:               "TS-M-B",
		Price:             decimal.NewFromInt(22),
		Stock:             9,
		AttributeValueIDs: []uuid.UUID{medium.ID, black.ID},
	})
	require.NoError(t, err)

	// a variant may keep its own combination but not take a sibling's
	_, err = srv.UpdateVariant(ctx, first.ID, &usecase.VariantInput{SKU: "TS-M-W", Price: decimal.NewFromInt(21), Stock: 1, AttributeValueIDs: []uuid.UUID{white.ID, medium.ID}})
	require.NoError(t, err)
	_, err = srv.UpdateVariant(ctx, second.ID, &usecase.VariantInput{SKU: "TS-M-B", AttributeValueIDs: []uuid.UUID{medium.ID, white.ID}})
	assert.ErrorIs(t, err, domainerrors.ErrVariantCombinationExists)

	variants, err := srv.ListVariants(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, variants, 2)

	low, err := srv.LowStock(ctx, 0)
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.NotNil(t, low[0].VariantID)
	assert.Equal(t, first.ID, *low[0].VariantID)

	require.NoError(t, srv.DeleteVariant(ctx, second.ID))
	assert.ErrorIs(t, srv.DeleteVariant(ctx, second.ID), domainerrors.ErrVariantNotFound)
}

func TestCatalogService_UpdateUnknownChangesNothing(t *testing.T) {
	f := newFixture(t)
	srv := newTestCatalogService(f)
	ctx := context.Background()

	product := f.createProduct(t, "hymnal", 20, 7)
	category, err := srv.CreateCategory(ctx, &usecase.CategoryInput{Name: "Books", IsActive: true})
	require.NoError(t, err)

	_, err = srv.UpdateProduct(ctx, uuid.New(), &usecase.ProductInput{Name: "Renamed", SKU: product.SKU, Price: decimal.NewFromInt(1), Stock: 0})
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)

	got, err := srv.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Name, got.Name)
	assert.True(t, decimal.NewFromInt(20).Equal(got.Price))
	assert.Equal(t, 7, got.Stock)

	_, err = srv.UpdateCategory(ctx, uuid.New(), &usecase.CategoryInput{Name: "Other", Slug: "books"})
	assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)

	stored, err := srv.GetCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Books", stored.Name)
	assert.True(t, stored.IsActive)
}
