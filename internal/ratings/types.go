package ratings

import (
	"time"

	"github.com/google/uuid"

	"github.com/stellarmarket/stellarmarket-backend/pkg/pagination"
)

// RatingDTO is one rating row joined with the rater's display name.
type RatingDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingsPageDTO is a newest-first page of product ratings.
type RatingsPageDTO struct {
	Items      []RatingDTO     `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

// ProductAggregateDTO reports the denormalized product rating after a write.
type ProductAggregateDTO struct {
	ProductID   uuid.UUID `json:"product_id"`
	Rating      float64   `json:"rating"`
	RatingCount int       `json:"rating_count"`
}

// RatingWriteDTO pairs the persisted rating row with the refreshed product
// aggregate, so a client learns the rating id it would delete later.
type RatingWriteDTO struct {
	Rating    RatingDTO           `json:"rating"`
	Aggregate ProductAggregateDTO `json:"aggregate"`
}
