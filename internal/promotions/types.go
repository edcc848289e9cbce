package promotions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromotionDTO is the client-facing promotion shape.
type PromotionDTO struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	Description     *string         `json:"description,omitempty"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	IsActive        bool            `json:"is_active"`
	StartsAt        *time.Time      `json:"starts_at,omitempty"`
	EndsAt          *time.Time      `json:"ends_at,omitempty"`
}
