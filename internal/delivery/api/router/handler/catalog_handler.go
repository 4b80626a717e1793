package handler

import (
	"log/slog"

	"ministry/internal/delivery/api/response"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

type CatalogHandlerParams struct {
	fx.In

	CatalogUC usecase.CatalogUsecase
	Logger    *slog.Logger
}

// CatalogHandler serves the storefront catalog and its admin.
type CatalogHandler struct {
	catalogUC usecase.CatalogUsecase
	logger    *slog.Logger
}

func NewCatalogHandler(params CatalogHandlerParams) *CatalogHandler {
	return &CatalogHandler{
		catalogUC: params.CatalogUC,
		logger:    params.Logger,
	}
}

type CategoryRequest struct {
	ParentID    *uuid.UUID `json:"parent_id"`
	Name        string     `json:"name" validate:"required,max=255"`
	Slug        string     `json:"slug" validate:"omitempty,max=255"`
	Description string     `json:"description" validate:"max=2000"`
	IsActive    *bool      `json:"is_active"`
}

type AttributeRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" validate:"omitempty,max=100"`
}

type AttributeValueRequest struct {
	Value string `json:"value" validate:"required,max=100"`
}

type DimensionsRequest struct {
	Length float64 `json:"length" validate:"gte=0"`
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

type ProductRequest struct {
	CategoryID     *uuid.UUID         `json:"category_id"`
	Name           string             `json:"name" validate:"required,max=255"`
	Slug           string             `json:"slug" validate:"omitempty,max=255"`
	SKU            string             `json:"sku" validate:"required,max=100"`
	Description    string             `json:"description"`
	Price          decimal.Decimal    `json:"price" validate:"gte=0"`
	CompareAtPrice *decimal.Decimal   `json:"compare_at_price" validate:"omitempty,gte=0"`
	Stock          int                `json:"stock" validate:"gte=0"`
	IsActive       *bool              `json:"is_active"`
	IsFeatured     bool               `json:"is_featured"`
	Dimensions     *DimensionsRequest `json:"dimensions"`
	Tags           []string           `json:"tags" validate:"omitempty,max=50,dive,max=50"`
}

type VariantRequest struct {
	SKU               string          `json:"sku" validate:"required,max=100"`
	Name              string          `json:"name" validate:"required,max=255"`
	Price             decimal.Decimal `json:"price" validate:"gte=0"`
	Stock             int             `json:"stock" validate:"gte=0"`
	AttributeValueIDs []uuid.UUID     `json:"attribute_value_ids" validate:"omitempty,max=20"`
}

type RemoveImageRequest struct {
	Path string `json:"path" validate:"required"`
}

// --- Categories ---

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	return h.listCategories(c, true)
}

func (h *CatalogHandler) AdminListCategories(c echo.Context) error {
	return h.listCategories(c, false)
}

func (h *CatalogHandler) listCategories(c echo.Context, activeOnly bool) error {
	categories, err := h.catalogUC.ListCategories(c.Request().Context(), activeOnly)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Categories", categories)
}

func (h *CatalogHandler) GetCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	category, err := h.catalogUC.GetCategory(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Category", category)
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	category, err := h.catalogUC.CreateCategory(c.Request().Context(), req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Category created", category)
}

func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req CategoryRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	category, err := h.catalogUC.UpdateCategory(c.Request().Context(), id, req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Category updated", category)
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.catalogUC.DeleteCategory(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Category deleted", nil)
}

func (r *CategoryRequest) toInput() *usecase.CategoryInput {
	return &usecase.CategoryInput{
		ParentID:    r.ParentID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		IsActive:    boolOr(r.IsActive, true),
	}
}

// --- Attributes ---

func (h *CatalogHandler) ListAttributes(c echo.Context) error {
	attributes, err := h.catalogUC.ListAttributes(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Attributes", attributes)
}

func (h *CatalogHandler) CreateAttribute(c echo.Context) error {
	var req AttributeRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	attribute, err := h.catalogUC.CreateAttribute(c.Request().Context(), &usecase.AttributeInput{Name: req.Name, Slug: req.Slug})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Attribute created", attribute)
}

func (h *CatalogHandler) UpdateAttribute(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req AttributeRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	attribute, err := h.catalogUC.UpdateAttribute(c.Request().Context(), id, &usecase.AttributeInput{Name: req.Name, Slug: req.Slug})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Attribute updated", attribute)
}

func (h *CatalogHandler) DeleteAttribute(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.catalogUC.DeleteAttribute(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Attribute deleted", nil)
}

func (h *CatalogHandler) AddAttributeValue(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req AttributeValueRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	value, err := h.catalogUC.AddAttributeValue(c.Request().Context(), id, req.Value)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Attribute value created", value)
}

func (h *CatalogHandler) UpdateAttributeValue(c echo.Context) error {
	id, err := paramID(c, "valueId")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req AttributeValueRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	value, err := h.catalogUC.UpdateAttributeValue(c.Request().Context(), id, req.Value)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Attribute value updated", value)
}

func (h *CatalogHandler) DeleteAttributeValue(c echo.Context) error {
	id, err := paramID(c, "valueId")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.catalogUC.DeleteAttributeValue(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Attribute value deleted", nil)
}

// --- Products ---

// ListProducts is the storefront list; inactive products are hidden.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	return h.listProducts(c, true)
}

func (h *CatalogHandler) AdminListProducts(c echo.Context) error {
	return h.listProducts(c, false)
}

func (h *CatalogHandler) listProducts(c echo.Context, activeOnly bool) error {
	filter, err := productFilter(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	filter.ActiveOnly = activeOnly

	page, err := h.catalogUC.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, "Products", page)
}

func productFilter(c echo.Context) (repository.ProductFilter, error) {
	var filter repository.ProductFilter

	p, err := pagination(c)
	if err != nil {
		return filter, err
	}
	filter.Pagination = p
	filter.Search = c.QueryParam("search")

	if filter.CategoryID, err = queryUUID(c, "category_id"); err != nil {
		return filter, err
	}
	if filter.Featured, err = queryBool(c, "featured"); err != nil {
		return filter, err
	}
	if filter.InStock, err = queryBool(c, "in_stock"); err != nil {
		return filter, err
	}
	if filter.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return filter, err
	}

	switch sort := repository.ProductSort(c.QueryParam("sort")); sort {
	case "":
		filter.Sort = repository.ProductSortNewest
	case repository.ProductSortNewest, repository.ProductSortPriceAsc, repository.ProductSortPriceDesc, repository.ProductSortName:
		filter.Sort = sort
	default:
		return filter, domainerrors.NewFieldError("sort", "The sort must be one of: newest, price_asc, price_desc, name.")
	}

	return filter, nil
}

func queryDecimal(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domainerrors.NewFieldError(name, "The "+name+" must be a number.")
	}

	return &d, nil
}

// ShowProduct accepts a slug or an ID and hides inactive products.
func (h *CatalogHandler) ShowProduct(c echo.Context) error {
	ctx := c.Request().Context()
	key := c.Param("slug")

	var product *entity.Product
	var err error
	if id, parseErr := uuid.Parse(key); parseErr == nil {
		product, err = h.catalogUC.GetProduct(ctx, id)
		if err == nil && !product.IsActive {
			err = domainerrors.ErrProductNotFound
		}
	} else {
		product, err = h.catalogUC.GetProductBySlug(ctx, key)
	}
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Product", product)
}

func (h *CatalogHandler) AdminGetProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	product, err := h.catalogUC.GetProduct(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Product", product)
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req ProductRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	product, err := h.catalogUC.CreateProduct(c.Request().Context(), req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Product created", product)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req ProductRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	product, err := h.catalogUC.UpdateProduct(c.Request().Context(), id, req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Product updated", product)
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.catalogUC.DeleteProduct(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Product deleted", nil)
}

// UploadImages accepts one or more multipart files under "images".
func (h *CatalogHandler) UploadImages(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	uploads, closeFiles, err := formFiles(c, "images")
	if err != nil {
		return response.HandleAppError(c, err)
	}
	defer closeFiles()

	product, err := h.catalogUC.UploadImages(c.Request().Context(), id, uploads)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Product images uploaded", product)
}

func (h *CatalogHandler) RemoveImage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req RemoveImageRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	product, err := h.catalogUC.RemoveImage(c.Request().Context(), id, req.Path)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Product image removed", product)
}

func (r *ProductRequest) toInput() *usecase.ProductInput {
	input := &usecase.ProductInput{
		CategoryID:     r.CategoryID,
		Name:           r.Name,
		Slug:           r.Slug,
		SKU:            r.SKU,
		Description:    r.Description,
		Price:          r.Price,
		CompareAtPrice: r.CompareAtPrice,
		Stock:          r.Stock,
		IsActive:       boolOr(r.IsActive, true),
		IsFeatured:     r.IsFeatured,
		Tags:           r.Tags,
	}
	if r.Dimensions != nil {
		input.Dimensions = &entity.Dimensions{
			Length: r.Dimensions.Length,
			Width:  r.Dimensions.Width,
			Height: r.Dimensions.Height,
			Weight: r.Dimensions.Weight,
		}
	}

	return input
}

// --- Variants ---

func (h *CatalogHandler) ListVariants(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	variants, err := h.catalogUC.ListVariants(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Variants", variants)
}

func (h *CatalogHandler) CreateVariant(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req VariantRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	variant, err := h.catalogUC.CreateVariant(c.Request().Context(), id, req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Variant created", variant)
}

func (h *CatalogHandler) UpdateVariant(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req VariantRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	variant, err := h.catalogUC.UpdateVariant(c.Request().Context(), id, req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Variant updated", variant)
}

func (h *CatalogHandler) DeleteVariant(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.catalogUC.DeleteVariant(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Variant deleted", nil)
}

func (r *VariantRequest) toInput() *usecase.VariantInput {
	return &usecase.VariantInput{
		SKU:               r.SKU,
		Name:              r.Name,
		Price:             r.Price,
		Stock:             r.Stock,
		AttributeValueIDs: r.AttributeValueIDs,
	}
}

// LowStock lists products and variants at or below ?threshold, or the configured one.
func (h *CatalogHandler) LowStock(c echo.Context) error {
	var threshold int
	if err := echo.QueryParamsBinder(c).Int("threshold", &threshold).BindError(); err != nil {
		return response.HandleAppError(c, domainerrors.NewFieldError("threshold", "The threshold must be an integer."))
	}

	items, err := h.catalogUC.LowStock(c.Request().Context(), threshold)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Low stock items", items)
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}

	return *v
}
