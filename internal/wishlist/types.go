package wishlist

import (
	"time"

	"github.com/google/uuid"

	"github.com/stellarmarket/stellarmarket-backend/internal/products"
)

// WishlistItemDTO wraps the product summary included in a wishlist row.
type WishlistItemDTO struct {
	ID        uuid.UUID               `json:"id"`
	Product   products.ProductSummary `json:"product"`
	CreatedAt time.Time               `json:"created_at"`
}

// WishlistDTO is the full saved-products view for one user.
type WishlistDTO struct {
	Items []WishlistItemDTO `json:"items"`
	Total int               `json:"total"`
}
