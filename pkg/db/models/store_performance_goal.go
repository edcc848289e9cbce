package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/enums"
)

// StorePerformanceGoal is a seller-defined target surfaced on the dashboard.
type StorePerformanceGoal struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	StoreID   uuid.UUID        `gorm:"column:store_id;type:uuid;not null;index:store_performance_goals_store_id_idx"`
	Type      enums.GoalType   `gorm:"column:type;not null"`
	Period    enums.GoalPeriod `gorm:"column:period;not null"`
	Target    decimal.Decimal  `gorm:"column:target;type:numeric(12,2);not null"`
	StartsAt  *time.Time       `gorm:"column:starts_at"`
	EndsAt    *time.Time       `gorm:"column:ends_at"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an identifier when one is not supplied.
func (s *StorePerformanceGoal) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
