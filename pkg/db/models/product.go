package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a canonical storefront listing. Rating and RatingCount
// are denormalized aggregates maintained by the ratings service.
type Product struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	StoreID        uuid.UUID        `gorm:"column:store_id;type:uuid;not null;index:products_store_id_idx"`
	CategoryID     *uuid.UUID       `gorm:"column:category_id;type:uuid;index:products_category_id_idx"`
	Title          string           `gorm:"column:title;not null"`
	Slug           string           `gorm:"column:slug;not null;uniqueIndex:products_slug_key"`
	Description    *string          `gorm:"column:description"`
	Price          decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	CompareAtPrice *decimal.Decimal `gorm:"column:compare_at_price;type:numeric(12,2)"`
	Stock          int              `gorm:"column:stock;not null;default:0"`
	Rating         float64          `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	RatingCount    int              `gorm:"column:rating_count;not null;default:0"`
	IsFeatured     bool             `gorm:"column:is_featured;not null;default:false"`
	IsActive       bool             `gorm:"column:is_active;not null;default:true"`
	Category       *Category        `gorm:"foreignKey:CategoryID"`
	Images         []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an identifier when one is not supplied.
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
