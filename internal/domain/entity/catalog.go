package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductCategory is a node of the catalog tree.
type ProductCategory struct {
	ID          uuid.UUID  `json:"id"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProductAttribute is a variant axis such as size or colour.
type ProductAttribute struct {
	ID        uuid.UUID                `json:"id"`
	Name      string                   `json:"name"`
	Slug      string                   `json:"slug"`
	Values    []*ProductAttributeValue `json:"values,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

type ProductAttributeValue struct {
	ID          uuid.UUID `json:"id"`
	AttributeID uuid.UUID `json:"attribute_id"`
	Value       string    `json:"value"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Dimensions are shipping measurements in centimetres and kilograms.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// Product is a sellable item. Images holds storage keys under products/{id}/.
type Product struct {
	ID             uuid.UUID         `json:"id"`
	CategoryID     *uuid.UUID        `json:"category_id,omitempty"`
	Category       *ProductCategory  `json:"category,omitempty"`
	Name           string            `json:"name"`
	Slug           string            `json:"slug"`
	SKU            string            `json:"sku"`
	Description    string            `json:"description"`
	Price          decimal.Decimal   `json:"price"`
	CompareAtPrice *decimal.Decimal  `json:"compare_at_price,omitempty"`
	Stock          int               `json:"stock"`
	IsActive       bool              `json:"is_active"`
	IsFeatured     bool              `json:"is_featured"`
	Dimensions     *Dimensions       `json:"dimensions,omitempty"`
	Tags           []string          `json:"tags"`
	Images         []string          `json:"images"`
	ImageURLs      []string          `json:"image_urls,omitempty"`
	Variants       []*ProductVariant `json:"variants,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ProductVariant is a concrete combination of attribute values with its own SKU, price and stock.
type ProductVariant struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	Stock             int             `json:"stock"`
	AttributeValueIDs []uuid.UUID     `json:"attribute_value_ids"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// SameAttributes reports whether both variants use the same attribute value set, ignoring order.
func (v *ProductVariant) SameAttributes(other []uuid.UUID) bool {
	if len(v.AttributeValueIDs) != len(other) {
		return false
	}

	counts := make(map[uuid.UUID]int, len(other))
	for _, id := range v.AttributeValueIDs {
		counts[id]++
	}
	for _, id := range other {
		counts[id]--
		if counts[id] < 0 {
			return false
		}
	}

	return true
}

// StockItem is one row of the low-stock listing, either a product or a variant.
type StockItem struct {
	ProductID   uuid.UUID  `json:"product_id"`
	VariantID   *uuid.UUID `json:"variant_id,omitempty"`
	Name        string     `json:"name"`
	SKU         string     `json:"sku"`
	Stock       int        `json:"stock"`
	VariantName string     `json:"variant_name,omitempty"`
}
