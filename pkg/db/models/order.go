package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/enums"
)

// Order is a placed purchase with price totals frozen at checkout time.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx"`
	StoreID     uuid.UUID         `gorm:"column:store_id;type:uuid;not null;index:orders_store_id_idx"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Subtotal    decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Discount    decimal.Decimal   `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	Total       decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	PromotionID *uuid.UUID        `gorm:"column:promotion_id;type:uuid"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime;index:orders_created_at_idx"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an identifier when one is not supplied.
func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
