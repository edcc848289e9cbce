package ratings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/db/models"
)

// Repository encapsulates rating persistence and the denormalized product
// aggregate.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a rating repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertAndRecompute writes the user's rating for a product, replacing any
// prior score, refreshes the product aggregate in the same transaction, and
// returns the persisted row. A re-rate keeps the original row id.
func (r *Repository) UpsertAndRecompute(ctx context.Context, userID, productID uuid.UUID, rating int, comment *string) (RatingDTO, error) {
	var row RatingDTO
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`
INSERT INTO product_ratings (id, product_id, user_id, rating, comment, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, product_id)
DO UPDATE SET rating = excluded.rating, comment = excluded.comment, updated_at = excluded.updated_at`,
			uuid.New(), productID, userID, rating, comment, now, now,
		).Error
		if err != nil {
			return err
		}

		if err := recomputeAggregate(tx, productID); err != nil {
			return err
		}

		return tx.
			Table("product_ratings pr").
			Select("pr.id, pr.product_id, pr.user_id, u.name AS user_name, pr.rating, pr.comment, pr.created_at").
			Joins("JOIN users u ON u.id = pr.user_id").
			Where("pr.user_id = ? AND pr.product_id = ?", userID, productID).
			Scan(&row).
			Error
	})
	if err != nil {
		return RatingDTO{}, err
	}
	return row, nil
}

// DeleteByIDAndUser removes a rating owned by the user and reports the product
// it belonged to. Returns gorm.ErrRecordNotFound when nothing matches.
func (r *Repository) DeleteByIDAndUser(ctx context.Context, ratingID, userID uuid.UUID) (uuid.UUID, error) {
	var row models.ProductRating
	err := r.db.WithContext(ctx).
		First(&row, "id = ? AND user_id = ?", ratingID, userID).
		Error
	if err != nil {
		return uuid.Nil, err
	}

	err = r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", ratingID, userID).
		Delete(&models.ProductRating{}).
		Error
	if err != nil {
		return uuid.Nil, err
	}
	return row.ProductID, nil
}

// RecomputeProductAggregate refreshes the product's mean and count from the
// stored ratings. A product with no ratings goes back to 0/0.
func (r *Repository) RecomputeProductAggregate(ctx context.Context, productID uuid.UUID) error {
	return recomputeAggregate(r.db.WithContext(ctx), productID)
}

func recomputeAggregate(db *gorm.DB, productID uuid.UUID) error {
	return db.Exec(`
UPDATE products SET
  rating = COALESCE((SELECT AVG(rating) FROM product_ratings WHERE product_id = products.id), 0),
  rating_count = (SELECT COUNT(*) FROM product_ratings WHERE product_id = products.id),
  updated_at = ?
WHERE id = ?`,
		time.Now().UTC(), productID,
	).Error
}

// ProductAggregate reads the denormalized rating columns.
func (r *Repository) ProductAggregate(ctx context.Context, productID uuid.UUID) (ProductAggregateDTO, error) {
	var row struct {
		Rating      float64 `gorm:"column:rating"`
		RatingCount int     `gorm:"column:rating_count"`
	}
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("rating", "rating_count").
		Where("id = ?", productID).
		First(&row).
		Error
	if err != nil {
		return ProductAggregateDTO{}, err
	}
	return ProductAggregateDTO{
		ProductID:   productID,
		Rating:      row.Rating,
		RatingCount: row.RatingCount,
	}, nil
}

// ListByProduct returns a newest-first page of ratings with the rater's name.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID, offset, limit int) ([]RatingDTO, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductRating{}).
		Where("product_id = ?", productID).
		Count(&total).
		Error
	if err != nil {
		return nil, 0, err
	}

	var rows []RatingDTO
	err = r.db.WithContext(ctx).
		Table("product_ratings pr").
		Select("pr.id, pr.product_id, pr.user_id, u.name AS user_name, pr.rating, pr.comment, pr.created_at").
		Joins("JOIN users u ON u.id = pr.user_id").
		Where("pr.product_id = ?", productID).
		Order("pr.created_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
