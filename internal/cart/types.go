package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartProductDTO is the live product snapshot joined onto a cart line.
type CartProductDTO struct {
	ID           uuid.UUID       `json:"id"`
	Title        string          `json:"title"`
	Slug         string          `json:"slug"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	Rating       float64         `json:"rating"`
	RatingCount  int             `json:"rating_count"`
	ThumbnailURL *string         `json:"thumbnail_url,omitempty"`
}

// CartItemDTO is one line of the projected cart. Product is nil when the
// product was deleted after the line was added; such lines contribute zero.
type CartItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   *CartProductDTO `json:"product,omitempty"`
	LineTotal decimal.Decimal `json:"line_total"`
	CreatedAt time.Time       `json:"created_at"`
}

// CartDTO is the canonical projected cart.
type CartDTO struct {
	Items     []CartItemDTO   `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}

// EmptyCart returns the canonical empty projection.
func EmptyCart() CartDTO {
	return CartDTO{
		Items:     []CartItemDTO{},
		Subtotal:  decimal.Zero,
		ItemCount: 0,
	}
}

// PromoResultDTO reports a stateless promo application against the current
// cart total. Nothing here is persisted.
type PromoResultDTO struct {
	Code            string          `json:"code"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	DiscountedTotal decimal.Decimal `json:"discounted_total"`
}
