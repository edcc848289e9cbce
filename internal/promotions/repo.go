package promotions

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/db/models"
)

// Repository encapsulates promotion persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a promotion repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindActiveByCode loads an active promotion by its uppercase code. Codes are
// stored uppercase, so the lookup uppercases the input before matching.
func (r *Repository) FindActiveByCode(ctx context.Context, code string) (*models.Promotion, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	var promo models.Promotion
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", normalized, true).
		First(&promo).
		Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// FindByID loads a promotion regardless of active state.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var promo models.Promotion
	if err := r.db.WithContext(ctx).First(&promo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}
