package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/db/models"
)

// Repository encapsulates cart persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// MergeAdd inserts or merges a cart line in one conditional upsert. The stock
// guard runs inside the statement on both paths, so the post-merge quantity
// can never exceed the product's stock no matter how requests interleave.
// Returns false when the guard rejected the write.
func (r *Repository) MergeAdd(ctx context.Context, userID, productID uuid.UUID, quantity int) (bool, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Exec(`
INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
SELECT ?, ?, p.id, ?, ?, ?
FROM products p
WHERE p.id = ? AND p.stock >= ?
ON CONFLICT (user_id, product_id) DO UPDATE
SET quantity = cart_items.quantity + excluded.quantity,
    updated_at = excluded.updated_at
WHERE (SELECT stock FROM products WHERE id = cart_items.product_id) >= cart_items.quantity + excluded.quantity`,
		uuid.New(), userID, quantity, now, now, productID, quantity,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetQuantity writes an absolute quantity, guarded against the live stock in
// the same statement. Returns false when the guard rejected the write.
func (r *Repository) SetQuantity(ctx context.Context, itemID, userID uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
UPDATE cart_items SET quantity = ?, updated_at = ?
WHERE id = ? AND user_id = ?
  AND (SELECT stock FROM products WHERE id = cart_items.product_id) >= ?`,
		quantity, time.Now().UTC(), itemID, userID, quantity,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindItemByIDAndUser loads one user-scoped cart line with its product.
func (r *Repository) FindItemByIDAndUser(ctx context.Context, itemID, userID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		First(&item, "id = ? AND user_id = ?", itemID, userID).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItemsWithProducts returns every cart line for the user, oldest first,
// with the live product and its gallery joined in.
func (r *Repository) ListItemsWithProducts(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteItem removes one user-scoped line. Returns false when no row matched.
func (r *Repository) DeleteItem(ctx context.Context, itemID, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteAllForUser clears the user's cart.
func (r *Repository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).
		Error
}
