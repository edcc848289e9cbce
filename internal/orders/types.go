package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stellarmarket/stellarmarket-backend/pkg/enums"
	"github.com/stellarmarket/stellarmarket-backend/pkg/pagination"
)

// ListFilters narrows a store's order listing. Zero values mean unfiltered.
type ListFilters struct {
	Statuses []enums.OrderStatus
	From     *time.Time
	To       *time.Time
	UserID   *uuid.UUID
	MinTotal *decimal.Decimal
	MaxTotal *decimal.Decimal
}

// OrderDTO is the client-facing order shape.
type OrderDTO struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	StoreID     uuid.UUID         `json:"store_id"`
	Status      enums.OrderStatus `json:"status"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
	Discount    decimal.Decimal   `json:"discount"`
	Total       decimal.Decimal   `json:"total"`
	PromotionID *uuid.UUID        `json:"promotion_id,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// OrderItemDTO is one purchased line with its checkout-time snapshot.
type OrderItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrdersPageDTO is a newest-first page of store orders.
type OrdersPageDTO struct {
	Items      []OrderDTO      `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

// AnalyticsDTO is the store-level order rollup for a date range.
type AnalyticsDTO struct {
	StoreID           uuid.UUID                 `json:"store_id"`
	TotalOrders       int64                     `json:"total_orders"`
	TotalRevenue      decimal.Decimal           `json:"total_revenue"`
	OrdersByStatus    map[enums.OrderStatus]int `json:"orders_by_status"`
	AverageOrderValue decimal.Decimal           `json:"average_order_value"`
}

// StatusChangedEvent is the payload published on every status transition.
type StatusChangedEvent struct {
	OrderID    uuid.UUID         `json:"order_id"`
	StoreID    uuid.UUID         `json:"store_id"`
	UserID     uuid.UUID         `json:"user_id"`
	FromStatus enums.OrderStatus `json:"from_status"`
	ToStatus   enums.OrderStatus `json:"to_status"`
	OccurredAt time.Time         `json:"occurred_at"`
}
