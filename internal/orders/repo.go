package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/db/models"
	"github.com/stellarmarket/stellarmarket-backend/pkg/enums"
)

// Repository encapsulates order persistence and rollup queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an order repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads one order.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByStore returns a filtered, newest-first page plus the exact total.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID, filters ListFilters, offset, limit int) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("store_id = ?", storeID)

	if len(filters.Statuses) > 0 {
		query = query.Where("status IN ?", filters.Statuses)
	}
	if filters.From != nil {
		query = query.Where("created_at >= ?", filters.From)
	}
	if filters.To != nil {
		query = query.Where("created_at <= ?", filters.To)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.MinTotal != nil {
		query = query.Where("total >= ?", filters.MinTotal)
	}
	if filters.MaxTotal != nil {
		query = query.Where("total <= ?", filters.MaxTotal)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ItemsByOrder returns the purchased lines for one order.
func (r *Repository) ItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var rows []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// UpdateStatus writes the new status. Returns false when the order vanished.
func (r *Repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

type statusCountRow struct {
	Status string `gorm:"column:status"`
	Count  int    `gorm:"column:count"`
}

// Rollup aggregates a store's orders over a date range.
func (r *Repository) Rollup(ctx context.Context, storeID uuid.UUID, from, to time.Time) (AnalyticsDTO, error) {
	var totals struct {
		Orders  int64           `gorm:"column:orders"`
		Revenue decimal.Decimal `gorm:"column:revenue"`
	}
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(total), 0) AS revenue").
		Where("store_id = ? AND created_at >= ? AND created_at <= ?", storeID, from, to).
		Scan(&totals).
		Error
	if err != nil {
		return AnalyticsDTO{}, err
	}

	var byStatus []statusCountRow
	err = r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("store_id = ? AND created_at >= ? AND created_at <= ?", storeID, from, to).
		Group("status").
		Scan(&byStatus).
		Error
	if err != nil {
		return AnalyticsDTO{}, err
	}

	analytics := AnalyticsDTO{
		StoreID:           storeID,
		TotalOrders:       totals.Orders,
		TotalRevenue:      totals.Revenue,
		OrdersByStatus:    make(map[enums.OrderStatus]int, len(byStatus)),
		AverageOrderValue: decimal.Zero,
	}
	for _, row := range byStatus {
		analytics.OrdersByStatus[enums.OrderStatus(row.Status)] = row.Count
	}
	if totals.Orders > 0 {
		analytics.AverageOrderValue = totals.Revenue.
			Div(decimal.NewFromInt(totals.Orders)).
			Round(2)
	}
	return analytics, nil
}
