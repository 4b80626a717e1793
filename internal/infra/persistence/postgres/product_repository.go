package postgres

import (
	"context"
	"sort"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(productM).Error; err != nil {
		return writeError(err, domainerrors.ErrProductAlreadyExists, domainerrors.ErrCategoryNotFound, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return repo.findOne(ctx, "id = ?", id)
}

func (repo *productRepository) FindBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	return repo.findOne(ctx, "slug = ?", slug)
}

func (repo *productRepository) findOne(ctx context.Context, cond string, arg any) (*entity.Product, error) {
	var productM model.ProductModel
	err := repo.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Where(cond, arg).
		First(&productM).Error
	if err != nil {
		return nil, readError(err, domainerrors.ErrProductNotFound, "failed to find product")
	}

	return toProductDomain(&productM), nil
}

func (repo *productRepository) List(ctx context.Context, filter repository.ProductFilter) (*repository.Page[*entity.Product], error) {
	q := repo.db.WithContext(ctx).Model(&model.ProductModel{}).
		Scopes(searchScope(filter.Search, "products.name", "products.sku", "products.description"))
	if filter.ActiveOnly {
		q = q.Where("products.is_active = ?", true)
	}
	if filter.CategoryID != nil {
		q = q.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		q = q.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("products.price <= ?", *filter.MaxPrice)
	}
	if filter.Featured != nil {
		q = q.Where("products.is_featured = ?", *filter.Featured)
	}
	if filter.InStock != nil {
		if *filter.InStock {
			q = q.Where("products.stock > 0")
		} else {
			q = q.Where("products.stock <= 0")
		}
	}

	rows, total, err := findPage[model.ProductModel](q, filter.Pagination, productOrder(filter.Sort), preload("Category"))
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list products")
	}

	return repository.NewPage(mapSlice(rows, toProductDomain), total, filter.Pagination), nil
}

func productOrder(sort repository.ProductSort) string {
	switch sort {
	case repository.ProductSortPriceAsc:
		return "products.price ASC, products.id"
	case repository.ProductSortPriceDesc:
		return "products.price DESC, products.id"
	case repository.ProductSortName:
		return "products.name ASC, products.id"
	default:
		return "products.created_at DESC, products.id"
	}
}

// Update saves every scalar column of the product.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)
	result := repo.db.WithContext(ctx).Model(productM).
		Select("category_id", "name", "slug", "sku", "description", "price", "compare_at_price",
			"stock", "is_active", "is_featured", "dimensions", "tags", "images").
		Updates(productM)
	if result.Error != nil {
		return writeError(result.Error, domainerrors.ErrProductAlreadyExists, domainerrors.ErrCategoryNotFound, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrProductNotFound
	}

	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Delete removes the product with its variants and cart lines.
func (repo *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)
	if err := db.Where("product_id = ?", id).Delete(&model.CartItemModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete product cart lines")
	}
	if err := db.Where("product_id = ?", id).Delete(&model.ProductVariantModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete product variants")
	}

	result := db.Delete(&model.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrProductNotFound
	}

	return nil
}

func (repo *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return decrementStock(ctx, repo.db, &model.ProductModel{}, id, qty)
}

func (repo *productRepository) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return incrementStock(ctx, repo.db, &model.ProductModel{}, id, qty, domainerrors.ErrProductNotFound)
}

// decrementStock runs the guarded update stock = stock - qty WHERE stock >= qty.
func decrementStock(ctx context.Context, db *gorm.DB, table any, id uuid.UUID, qty int) error {
	result := db.WithContext(ctx).Model(table).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to decrement stock")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInsufficientStock
	}

	return nil
}

func incrementStock(ctx context.Context, db *gorm.DB, table any, id uuid.UUID, qty int, notFound error) error {
	result := db.WithContext(ctx).Model(table).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to increment stock")
	}
	if result.RowsAffected == 0 {
		return notFound
	}

	return nil
}

// LowStock lists products without variants and all variants whose stock is at or below threshold.
func (repo *productRepository) LowStock(ctx context.Context, threshold int) ([]*entity.StockItem, error) {
	db := repo.db.WithContext(ctx)

	var productMs []model.ProductModel
	err := db.Where("stock <= ?", threshold).
		Where("NOT EXISTS (?)", db.Model(&model.ProductVariantModel{}).Select("1").Where("product_variants.product_id = products.id")).
		Find(&productMs).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list low stock products")
	}

	var variantRows []struct {
		ID          uuid.UUID
		ProductID   uuid.UUID
		SKU         string
		Name        string
		Stock       int
		ProductName string
	}
	err = db.Model(&model.ProductVariantModel{}).
		Select("product_variants.id, product_variants.product_id, product_variants.sku AS sku, " +
			"product_variants.name, product_variants.stock, products.name AS product_name").
		Joins("JOIN products ON products.id = product_variants.product_id").
		Where("product_variants.stock <= ?", threshold).
		Scan(&variantRows).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list low stock variants")
	}

	items := make([]*entity.StockItem, 0, len(productMs)+len(variantRows))
	for i := range productMs {
		p := &productMs[i]
		items = append(items, &entity.StockItem{ProductID: p.ID, Name: p.Name, SKU: p.SKU, Stock: p.Stock})
	}
	for i := range variantRows {
		v := &variantRows[i]
		variantID := v.ID
		items = append(items, &entity.StockItem{
			ProductID:   v.ProductID,
			VariantID:   &variantID,
			Name:        v.ProductName,
			VariantName: v.Name,
			SKU:         v.SKU,
			Stock:       v.Stock,
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Stock < items[j].Stock })

	return items, nil
}

func (repo *productRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	items, err := repo.LowStock(ctx, threshold)
	if err != nil {
		return 0, err
	}

	return int64(len(items)), nil
}

func (repo *productRepository) All(ctx context.Context) ([]*entity.Product, error) {
	var productMs []model.ProductModel
	if err := repo.db.WithContext(ctx).Preload("Category").Order("name").Find(&productMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load products")
	}

	return mapSlice(productMs, toProductDomain), nil
}

func toProductDomain(productM *model.ProductModel) *entity.Product {
	product := &entity.Product{
		ID:          productM.ID,
		CategoryID:  productM.CategoryID,
		Name:        productM.Name,
		Slug:        productM.Slug,
		SKU:         productM.SKU,
		Description: productM.Description,
		Price:       productM.Price,
		Stock:       productM.Stock,
		IsActive:    productM.IsActive,
		IsFeatured:  productM.IsFeatured,
		Tags:        productM.Tags,
		Images:      productM.Images,
		Variants:    mapSlice(productM.Variants, toVariantDomain),
		CreatedAt:   productM.CreatedAt,
		UpdatedAt:   productM.UpdatedAt,
	}
	if productM.CompareAtPrice.Valid {
		price := productM.CompareAtPrice.Decimal
		product.CompareAtPrice = &price
	}
	if productM.Dimensions != nil {
		product.Dimensions = &entity.Dimensions{
			Length: productM.Dimensions.Length,
			Width:  productM.Dimensions.Width,
			Height: productM.Dimensions.Height,
			Weight: productM.Dimensions.Weight,
		}
	}
	if productM.Category != nil {
		product.Category = toCategoryDomain(productM.Category)
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}
	if product.Images == nil {
		product.Images = []string{}
	}

	return product
}

func fromProductDomain(product *entity.Product) *model.ProductModel {
	productM := &model.ProductModel{
		Base:        model.Base{ID: product.ID, CreatedAt: product.CreatedAt, UpdatedAt: product.UpdatedAt},
		CategoryID:  product.CategoryID,
		Name:        product.Name,
		Slug:        product.Slug,
		SKU:         product.SKU,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		IsActive:    product.IsActive,
		IsFeatured:  product.IsFeatured,
		Tags:        product.Tags,
		Images:      product.Images,
	}
	if product.CompareAtPrice != nil {
		productM.CompareAtPrice = decimal.NewNullDecimal(*product.CompareAtPrice)
	}
	if product.Dimensions != nil {
		productM.Dimensions = &model.DimensionsJSON{
			Length: product.Dimensions.Length,
			Width:  product.Dimensions.Width,
			Height: product.Dimensions.Height,
			Weight: product.Dimensions.Weight,
		}
	}

	return productM
}
