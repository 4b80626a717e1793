package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductCategoryModel struct {
	Base
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	Name        string     `gorm:"type:varchar(100);not null"`
	Slug        string     `gorm:"type:varchar(120);uniqueIndex;not null"`
	Description string     `gorm:"type:text"`
	IsActive    bool       `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (ProductCategoryModel) TableName() string {
	return "product_categories"
}

type ProductAttributeModel struct {
	Base
	Name   string                       `gorm:"type:varchar(100);not null"`
	Slug   string                       `gorm:"type:varchar(120);uniqueIndex;not null"`
	Values []ProductAttributeValueModel `gorm:"foreignKey:AttributeID"`
}

// TableName explicitly sets the table name for GORM.
func (ProductAttributeModel) TableName() string {
	return "product_attributes"
}

type ProductAttributeValueModel struct {
	Base
	AttributeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attribute_value"`
	Value       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_attribute_value"`
}

// TableName explicitly sets the table name for GORM.
func (ProductAttributeValueModel) TableName() string {
	return "product_attribute_values"
}

// DimensionsJSON is stored as a JSON column on products.
type DimensionsJSON struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

type ProductModel struct {
	Base
	CategoryID     *uuid.UUID          `gorm:"type:uuid;index"`
	Name           string              `gorm:"type:varchar(200);not null"`
	Slug           string              `gorm:"type:varchar(220);uniqueIndex;not null"`
	SKU            string              `gorm:"column:sku;type:varchar(64);uniqueIndex;not null"`
	Description    string              `gorm:"type:text"`
	Price          decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	CompareAtPrice decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	Stock          int                 `gorm:"not null;default:0"`
	IsActive       bool                `gorm:"not null;index"`
	IsFeatured     bool                `gorm:"not null;default:false"`
	Dimensions     *DimensionsJSON     `gorm:"serializer:json;type:jsonb"`
	Tags           []string            `gorm:"serializer:json;type:jsonb"`
	Images         []string            `gorm:"serializer:json;type:jsonb"`

	Category *ProductCategoryModel `gorm:"foreignKey:CategoryID"`
	Variants []ProductVariantModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

type ProductVariantModel struct {
	Base
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU               string          `gorm:"column:sku;type:varchar(64);uniqueIndex;not null"`
	Name              string          `gorm:"type:varchar(200)"`
	Price             decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Stock             int             `gorm:"not null;default:0"`
	AttributeValueIDs []uuid.UUID     `gorm:"serializer:json;type:jsonb"`
}

// TableName explicitly sets the table name for GORM.
func (ProductVariantModel) TableName() string {
	return "product_variants"
}

type CartItemModel struct {
	Base
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID  `gorm:"type:uuid;not null"`
	VariantID *uuid.UUID `gorm:"type:uuid"`
	Quantity  int        `gorm:"not null"`

	Product *ProductModel        `gorm:"foreignKey:ProductID"`
	Variant *ProductVariantModel `gorm:"foreignKey:VariantID"`
}

// TableName explicitly sets the table name for GORM.
func (CartItemModel) TableName() string {
	return "cart_items"
}
