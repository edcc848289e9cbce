package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stellarmarket/stellarmarket-backend/pkg/enums"
	"github.com/stellarmarket/stellarmarket-backend/pkg/pagination"
)

// SearchParams captures every filter the catalog search accepts. Zero values
// mean "not filtered".
type SearchParams struct {
	Category  string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinRating *float64
	Featured  bool
	Query     string
	Sort      enums.ProductSort
	Direction enums.SortDirection
	Page      int
	Limit     int
}

// ProductSummary is the compact listing row returned by search and related
// product queries.
type ProductSummary struct {
	ID             uuid.UUID        `json:"id"`
	StoreID        uuid.UUID        `json:"store_id"`
	CategoryID     *uuid.UUID       `json:"category_id,omitempty"`
	Title          string           `json:"title"`
	Slug           string           `json:"slug"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	Stock          int              `json:"stock"`
	Rating         float64          `json:"rating"`
	RatingCount    int              `json:"rating_count"`
	IsFeatured     bool             `json:"is_featured"`
	ThumbnailURL   *string          `json:"thumbnail_url,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ProductImageDTO is a gallery entry ordered by position.
type ProductImageDTO struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	AltText   *string   `json:"alt_text,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	Position  int       `json:"position"`
}

// ProductDTO is the full detail view.
type ProductDTO struct {
	ProductSummary
	Description  *string           `json:"description,omitempty"`
	CategoryName *string           `json:"category_name,omitempty"`
	CategorySlug *string           `json:"category_slug,omitempty"`
	Images       []ProductImageDTO `json:"images"`
}

// SearchPageDTO is a paginated search result.
type SearchPageDTO struct {
	Items      []ProductSummary `json:"items"`
	Pagination pagination.Meta  `json:"pagination"`
}
