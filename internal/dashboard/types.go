package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stellarmarket/stellarmarket-backend/pkg/enums"
)

// OverviewDTO is the headline seller dashboard card.
type OverviewDTO struct {
	StoreID       uuid.UUID       `json:"store_id"`
	ProductCount  int64           `json:"product_count"`
	OrderCount    int64           `json:"order_count"`
	Revenue       decimal.Decimal `json:"revenue"`
	AverageRating float64         `json:"average_rating"`
}

// DailySummaryRow is one day of orders and revenue.
type DailySummaryRow struct {
	Day     string          `json:"day"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// GoalInput carries the writable fields of a performance goal.
type GoalInput struct {
	Type     enums.GoalType
	Period   enums.GoalPeriod
	Target   decimal.Decimal
	StartsAt *time.Time
	EndsAt   *time.Time
}

// GoalDTO is the client-facing performance goal shape.
type GoalDTO struct {
	ID        uuid.UUID        `json:"id"`
	StoreID   uuid.UUID        `json:"store_id"`
	Type      enums.GoalType   `json:"type"`
	Period    enums.GoalPeriod `json:"period"`
	Target    decimal.Decimal  `json:"target"`
	StartsAt  *time.Time       `json:"starts_at,omitempty"`
	EndsAt    *time.Time       `json:"ends_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
