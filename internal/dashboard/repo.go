package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/db/models"
)

// Repository runs the dashboard rollups and the performance goal CRUD.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a dashboard repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Overview aggregates the store's headline numbers in pass-through queries.
func (r *Repository) Overview(ctx context.Context, storeID uuid.UUID) (OverviewDTO, error) {
	overview := OverviewDTO{StoreID: storeID, Revenue: decimal.Zero}

	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("store_id = ?", storeID).
		Count(&overview.ProductCount).
		Error
	if err != nil {
		return OverviewDTO{}, err
	}

	var orderTotals struct {
		Orders  int64           `gorm:"column:orders"`
		Revenue decimal.Decimal `gorm:"column:revenue"`
	}
	err = r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(total), 0) AS revenue").
		Where("store_id = ?", storeID).
		Scan(&orderTotals).
		Error
	if err != nil {
		return OverviewDTO{}, err
	}
	overview.OrderCount = orderTotals.Orders
	overview.Revenue = orderTotals.Revenue

	var rating struct {
		Average float64 `gorm:"column:average"`
	}
	err = r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("COALESCE(AVG(rating), 0) AS average").
		Where("store_id = ? AND rating_count > 0", storeID).
		Scan(&rating).
		Error
	if err != nil {
		return OverviewDTO{}, err
	}
	overview.AverageRating = rating.Average

	return overview, nil
}

// DailySummary rolls orders up per day, newest first.
func (r *Repository) DailySummary(ctx context.Context, storeID uuid.UUID, from, to time.Time, maxRows int) ([]DailySummaryRow, error) {
	var rows []DailySummaryRow
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("DATE(created_at) AS day, COUNT(*) AS orders, COALESCE(SUM(total), 0) AS revenue").
		Where("store_id = ? AND created_at >= ? AND created_at <= ?", storeID, from, to).
		Group("DATE(created_at)").
		Order("day DESC").
		Limit(maxRows).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateGoal inserts a performance goal.
func (r *Repository) CreateGoal(ctx context.Context, goal *models.StorePerformanceGoal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

// ListGoals returns the store's goals, newest first.
func (r *Repository) ListGoals(ctx context.Context, storeID uuid.UUID) ([]models.StorePerformanceGoal, error) {
	var rows []models.StorePerformanceGoal
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindGoal loads one store-scoped goal.
func (r *Repository) FindGoal(ctx context.Context, goalID, storeID uuid.UUID) (*models.StorePerformanceGoal, error) {
	var goal models.StorePerformanceGoal
	err := r.db.WithContext(ctx).
		First(&goal, "id = ? AND store_id = ?", goalID, storeID).
		Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// UpdateGoal rewrites the writable fields of a store-scoped goal. Returns
// false when no row matched.
func (r *Repository) UpdateGoal(ctx context.Context, goalID, storeID uuid.UUID, input GoalInput) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StorePerformanceGoal{}).
		Where("id = ? AND store_id = ?", goalID, storeID).
		Updates(map[string]any{
			"type":       input.Type,
			"period":     input.Period,
			"target":     input.Target,
			"starts_at":  input.StartsAt,
			"ends_at":    input.EndsAt,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteGoal removes a store-scoped goal. Returns false when no row matched.
func (r *Repository) DeleteGoal(ctx context.Context, goalID, storeID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", goalID, storeID).
		Delete(&models.StorePerformanceGoal{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
