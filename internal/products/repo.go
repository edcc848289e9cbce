package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/db/models"
	"github.com/stellarmarket/stellarmarket-backend/pkg/enums"
)

// Repository encapsulates catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a product with its category and ordered images.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads a product by its unique slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		First(&product, "slug = ?", strings.TrimSpace(slug)).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Search applies the catalog filters in a fixed order and returns the matching
// page plus the exact total. Predicate order: category, min price, max price,
// min rating, featured, free-text query.
func (r *Repository) Search(ctx context.Context, params SearchParams, offset, limit int) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)

	if category := strings.TrimSpace(params.Category); category != "" {
		if id, err := uuid.Parse(category); err == nil {
			query = query.Where("category_id = ?", id)
		} else {
			query = query.Where("category_id IN (SELECT id FROM categories WHERE slug = ?)", category)
		}
	}
	if params.MinPrice != nil {
		query = query.Where("price >= ?", params.MinPrice)
	}
	if params.MaxPrice != nil {
		query = query.Where("price <= ?", params.MaxPrice)
	}
	if params.MinRating != nil {
		query = query.Where("rating >= ?", params.MinRating)
	}
	if params.Featured {
		query = query.Where("is_featured = ?", true)
	}
	if text := strings.TrimSpace(params.Query); text != "" {
		pattern := "%" + strings.ToLower(text) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := query.
		Order(orderClause(params.Sort, params.Direction)).
		Offset(offset).
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// orderClause maps the whitelisted sort column and direction to SQL. Unknown
// columns fall back to newest-first.
func orderClause(sort enums.ProductSort, direction enums.SortDirection) string {
	if !sort.IsValid() {
		return "created_at DESC"
	}
	dir := "DESC"
	if direction == enums.SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s", sort, dir)
}

// Featured returns the top featured products by rating.
func (r *Repository) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("is_featured = ? AND is_active = ?", true, true).
		Order("rating DESC, rating_count DESC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// Related returns same-category products excluding the source, rated best
// first.
func (r *Repository) Related(ctx context.Context, productID, categoryID uuid.UUID, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND id <> ? AND is_active = ?", categoryID, productID, true).
		Order("rating DESC, rating_count DESC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// ImagesByProduct returns the gallery rows for a product, ordered.
func (r *Repository) ImagesByProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductImage, error) {
	var rows []models.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("position ASC, created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// SetImagePosition moves one gallery image and keeps the primary flag on the
// first slot. Returns gorm.ErrRecordNotFound when the image does not belong
// to the product.
func (r *Repository) SetImagePosition(ctx context.Context, productID, imageID uuid.UUID, position int) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductImage{}).
		Where("id = ? AND product_id = ?", imageID, productID).
		Updates(map[string]any{
			"position":   position,
			"is_primary": position == 0,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
