package impl

import (
	"context"
	"log/slog"
	"path"
	"slices"
	"strings"

	"ministry/config"
	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/constants"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/domain/service"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type catalogService struct {
	txManager         repository.TransactionManager
	catalogRepo       repository.CatalogRepository
	productRepo       repository.ProductRepository
	variantRepo       repository.VariantRepository
	storage           service.FileStorage
	images            imageStore
	lowStockThreshold int
	logger            *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	CatalogRepo    repository.CatalogRepository
	ProductRepo    repository.ProductRepository
	VariantRepo    repository.VariantRepository
	Storage        service.FileStorage
	ImageProcessor service.ImageProcessor
	Config         *config.Config
	Logger         *slog.Logger
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		txManager:         params.TxManager,
		catalogRepo:       params.CatalogRepo,
		productRepo:       params.ProductRepo,
		variantRepo:       params.VariantRepo,
		storage:           params.Storage,
		images:            newImageStore(params.Storage, params.ImageProcessor, params.Config),
		lowStockThreshold: lowStockThreshold(params.Config),
		logger:            params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// --- Categories ---

func (srv *catalogService) ListCategories(ctx context.Context, activeOnly bool) ([]*entity.ProductCategory, error) {
	return srv.catalogRepo.ListCategories(ctx, activeOnly)
}

func (srv *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.ProductCategory, error) {
	return srv.catalogRepo.FindCategoryByID(ctx, id)
}

func (srv *catalogService) CreateCategory(ctx context.Context, input *usecase.CategoryInput) (*entity.ProductCategory, error) {
	if input.ParentID != nil {
		if _, err := srv.catalogRepo.FindCategoryByID(ctx, *input.ParentID); err != nil {
			return nil, err
		}
	}

	category := &entity.ProductCategory{
		ParentID:    input.ParentID,
		Name:        strings.TrimSpace(input.Name),
		Slug:        slugOr(input.Slug, input.Name),
		Description: input.Description,
		IsActive:    input.IsActive,
	}
	if err := srv.catalogRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (srv *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, input *usecase.CategoryInput) (*entity.ProductCategory, error) {
	category, err := srv.catalogRepo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.ParentID != nil {
		if *input.ParentID == id {
			return nil, domainerrors.NewFieldError("parent_id", "A category cannot be its own parent.")
		}
		if _, err := srv.catalogRepo.FindCategoryByID(ctx, *input.ParentID); err != nil {
			return nil, err
		}
	}

	category.ParentID = input.ParentID
	category.Name = strings.TrimSpace(input.Name)
	category.Slug = slugOr(input.Slug, input.Name)
	category.Description = input.Description
	category.IsActive = input.IsActive
	if err := srv.catalogRepo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (srv *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		catalogRepo := repoFactory.CatalogRepo()

		count, err := catalogRepo.CountCategoryProducts(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domainerrors.ErrCategoryInUse
		}

		return catalogRepo.DeleteCategory(ctx, id)
	})
}

// --- Attributes ---

func (srv *catalogService) ListAttributes(ctx context.Context) ([]*entity.ProductAttribute, error) {
	return srv.catalogRepo.ListAttributes(ctx)
}

func (srv *catalogService) CreateAttribute(ctx context.Context, input *usecase.AttributeInput) (*entity.ProductAttribute, error) {
	attribute := &entity.ProductAttribute{
		Name: strings.TrimSpace(input.Name),
		Slug: slugOr(input.Slug, input.Name),
	}
	if err := srv.catalogRepo.CreateAttribute(ctx, attribute); err != nil {
		return nil, err
	}

	return attribute, nil
}

func (srv *catalogService) UpdateAttribute(ctx context.Context, id uuid.UUID, input *usecase.AttributeInput) (*entity.ProductAttribute, error) {
	attribute, err := srv.catalogRepo.FindAttributeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	attribute.Name = strings.TrimSpace(input.Name)
	attribute.Slug = slugOr(input.Slug, input.Name)
	if err := srv.catalogRepo.UpdateAttribute(ctx, attribute); err != nil {
		return nil, err
	}

	return attribute, nil
}

func (srv *catalogService) DeleteAttribute(ctx context.Context, id uuid.UUID) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.CatalogRepo().DeleteAttribute(ctx, id)
	})
}

func (srv *catalogService) AddAttributeValue(ctx context.Context, attributeID uuid.UUID, value string) (*entity.ProductAttributeValue, error) {
	if _, err := srv.catalogRepo.FindAttributeByID(ctx, attributeID); err != nil {
		return nil, err
	}

	attrValue := &entity.ProductAttributeValue{AttributeID: attributeID, Value: strings.TrimSpace(value)}
	if err := srv.catalogRepo.CreateAttributeValue(ctx, attrValue); err != nil {
		return nil, err
	}

	return attrValue, nil
}

func (srv *catalogService) UpdateAttributeValue(ctx context.Context, valueID uuid.UUID, value string) (*entity.ProductAttributeValue, error) {
	attrValue, err := srv.catalogRepo.FindAttributeValueByID(ctx, valueID)
	if err != nil {
		return nil, err
	}

	attrValue.Value = strings.TrimSpace(value)
	if err := srv.catalogRepo.UpdateAttributeValue(ctx, attrValue); err != nil {
		return nil, err
	}

	return attrValue, nil
}

func (srv *catalogService) DeleteAttributeValue(ctx context.Context, valueID uuid.UUID) error {
	return srv.catalogRepo.DeleteAttributeValue(ctx, valueID)
}

// --- Products ---

func (srv *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) (*repository.Page[*entity.Product], error) {
	page, err := srv.productRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return repository.MapPage(page, srv.withImageURLs), nil
}

func (srv *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return srv.withImageURLs(product), nil
}

// GetProductBySlug serves the storefront, which never shows inactive products.
func (srv *catalogService) GetProductBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	product, err := srv.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, domainerrors.ErrProductNotFound
	}

	return srv.withImageURLs(product), nil
}

func (srv *catalogService) CreateProduct(ctx context.Context, input *usecase.ProductInput) (*entity.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &entity.Product{Images: []string{}}
	applyProductInput(product, input)
	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.String("sku", product.SKU))

	return srv.GetProduct(ctx, product.ID)
}

func (srv *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input *usecase.ProductInput) (*entity.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyProductInput(product, input)
	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return srv.GetProduct(ctx, id)
}

// DeleteProduct removes the product row first and its image files afterwards.
func (srv *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.ProductRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	for _, key := range product.Images {
		srv.images.remove(ctx, key)
	}
	srv.log(ctx).Info("Product deleted", slog.Any("productID", id))

	return nil
}

func (srv *catalogService) UploadImages(ctx context.Context, productID uuid.UUID, files []usecase.Upload) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	prefix := path.Join(constants.StorageProducts, productID.String())
	stored := make([]string, 0, len(files))
	for _, file := range files {
		key, err := srv.images.save(ctx, prefix, file)
		if err != nil {
			for _, k := range stored {
				srv.images.remove(ctx, k)
			}

			return nil, err
		}
		stored = append(stored, key)
	}

	product.Images = append(product.Images, stored...)
	if err := srv.productRepo.Update(ctx, product); err != nil {
		for _, k := range stored {
			srv.images.remove(ctx, k)
		}

		return nil, err
	}

	return srv.GetProduct(ctx, productID)
}

func (srv *catalogService) RemoveImage(ctx context.Context, productID uuid.UUID, imagePath string) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	idx := slices.Index(product.Images, imagePath)
	if idx < 0 {
		return nil, domainerrors.NewFieldError("path", "The image does not belong to this product.")
	}

	product.Images = slices.Delete(product.Images, idx, idx+1)
	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	srv.images.remove(ctx, imagePath)

	return srv.GetProduct(ctx, productID)
}

// --- Variants ---

func (srv *catalogService) ListVariants(ctx context.Context, productID uuid.UUID) ([]*entity.ProductVariant, error) {
	if _, err := srv.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	return srv.variantRepo.ListByProduct(ctx, productID)
}

func (srv *catalogService) CreateVariant(ctx context.Context, productID uuid.UUID, input *usecase.VariantInput) (*entity.ProductVariant, error) {
	variant := &entity.ProductVariant{ProductID: productID}
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.ProductRepo().FindByID(ctx, productID); err != nil {
			return err
		}

		ids, err := srv.checkVariantAttributes(ctx, repoFactory, productID, uuid.Nil, input)
		if err != nil {
			return err
		}

		applyVariantInput(variant, input, ids)

		return repoFactory.VariantRepo().Create(ctx, variant)
	})
	if err != nil {
		return nil, err
	}

	return variant, nil
}

func (srv *catalogService) UpdateVariant(ctx context.Context, variantID uuid.UUID, input *usecase.VariantInput) (*entity.ProductVariant, error) {
	var variant *entity.ProductVariant
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		variant, err = repoFactory.VariantRepo().FindByID(ctx, variantID)
		if err != nil {
			return err
		}

		ids, err := srv.checkVariantAttributes(ctx, repoFactory, variant.ProductID, variantID, input)
		if err != nil {
			return err
		}

		applyVariantInput(variant, input, ids)

		return repoFactory.VariantRepo().Update(ctx, variant)
	})
	if err != nil {
		return nil, err
	}

	return variant, nil
}

func (srv *catalogService) DeleteVariant(ctx context.Context, variantID uuid.UUID) error {
	return srv.variantRepo.Delete(ctx, variantID)
}

// checkVariantAttributes verifies the attribute values exist and that no sibling
// variant other than selfID already uses the same combination.
func (srv *catalogService) checkVariantAttributes(ctx context.Context, repoFactory repository.RepositoryFactory, productID, selfID uuid.UUID, input *usecase.VariantInput) ([]uuid.UUID, error) {
	if input.Price.IsNegative() {
		return nil, domainerrors.NewFieldError("price", "The price must not be negative.")
	}
	if input.Stock < 0 {
		return nil, domainerrors.NewFieldError("stock", "The stock must not be negative.")
	}

	ids := uniqueIDs(input.AttributeValueIDs)
	if len(ids) > 0 {
		values, err := repoFactory.CatalogRepo().FindAttributeValuesByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		if len(values) != len(ids) {
			return nil, domainerrors.ErrAttributeValueNotFound
		}
	}

	siblings, err := repoFactory.VariantRepo().ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, sibling := range siblings {
		if sibling.ID != selfID && sibling.SameAttributes(ids) {
			return nil, domainerrors.ErrVariantCombinationExists
		}
	}

	return ids, nil
}

func (srv *catalogService) LowStock(ctx context.Context, threshold int) ([]*entity.StockItem, error) {
	if threshold <= 0 {
		threshold = srv.lowStockThreshold
	}

	return srv.productRepo.LowStock(ctx, threshold)
}

func (srv *catalogService) withImageURLs(product *entity.Product) *entity.Product {
	urls := make([]string, 0, len(product.Images))
	for _, key := range product.Images {
		urls = append(urls, srv.storage.URL(key))
	}
	product.ImageURLs = urls

	return product
}

func validateProductInput(input *usecase.ProductInput) error {
	verr := domainerrors.NewValidationError(nil)
	if input.Price.IsNegative() {
		verr.Add("price", "The price must not be negative.")
	}
	if input.CompareAtPrice != nil && input.CompareAtPrice.LessThan(input.Price) {
		verr.Add("compare_at_price", "The compare at price must be at least the price.")
	}
	if input.Stock < 0 {
		verr.Add("stock", "The stock must not be negative.")
	}
	if verr.HasErrors() {
		return verr
	}

	return nil
}

func applyProductInput(product *entity.Product, input *usecase.ProductInput) {
	product.CategoryID = input.CategoryID
	product.Name = strings.TrimSpace(input.Name)
	product.Slug = slugOr(input.Slug, input.Name)
	product.SKU = strings.TrimSpace(input.SKU)
	product.Description = input.Description
	product.Price = input.Price.Round(2)
	product.CompareAtPrice = input.CompareAtPrice
	product.Stock = input.Stock
	product.IsActive = input.IsActive
	product.IsFeatured = input.IsFeatured
	product.Dimensions = input.Dimensions
	product.Tags = cleanTags(input.Tags)
}

func applyVariantInput(variant *entity.ProductVariant, input *usecase.VariantInput, ids []uuid.UUID) {
	variant.SKU = strings.TrimSpace(input.SKU)
	variant.Name = strings.TrimSpace(input.Name)
	variant.Price = input.Price.Round(2)
	variant.Stock = input.Stock
	variant.AttributeValueIDs = ids
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}

	return out
}
