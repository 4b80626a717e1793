package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one product or variant line in a user's cart.
type CartItem struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	ProductID uuid.UUID       `json:"product_id"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Quantity  int             `json:"quantity"`
	Product   *Product        `json:"product,omitempty"`
	Variant   *ProductVariant `json:"variant,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UnitPrice is the variant price when a variant is set, otherwise the product price.
func (i *CartItem) UnitPrice() decimal.Decimal {
	if i.Variant != nil {
		return i.Variant.Price
	}
	if i.Product != nil {
		return i.Product.Price
	}

	return decimal.Zero
}

// AvailableStock is the stock of the purchased unit.
func (i *CartItem) AvailableStock() int {
	if i.Variant != nil {
		return i.Variant.Stock
	}
	if i.Product != nil {
		return i.Product.Stock
	}

	return 0
}

func (i *CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the computed view of a user's cart items.
type Cart struct {
	Items     []*CartLine     `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartLine adds computed prices to a cart item.
type CartLine struct {
	*CartItem
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// NewCart computes line totals and the subtotal.
func NewCart(items []*CartItem) *Cart {
	cart := &Cart{Items: make([]*CartLine, 0, len(items)), Subtotal: decimal.Zero}
	for _, item := range items {
		line := &CartLine{CartItem: item, UnitPrice: item.UnitPrice(), LineTotal: item.LineTotal()}
		cart.Items = append(cart.Items, line)
		cart.ItemCount += item.Quantity
		cart.Subtotal = cart.Subtotal.Add(line.LineTotal)
	}

	return cart
}
