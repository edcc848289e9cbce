package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/db/models"
	pkgerrors "github.com/stellarmarket/stellarmarket-backend/pkg/errors"
	"github.com/stellarmarket/stellarmarket-backend/pkg/pagination"
)

const (
	searchDefaultLimit  = 20
	searchMaxLimit      = 100
	featuredLimitCap    = 50
	relatedDefaultLimit = 8
)

type catalogRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	Search(ctx context.Context, params SearchParams, offset, limit int) ([]models.Product, int64, error)
	Featured(ctx context.Context, limit int) ([]models.Product, error)
	Related(ctx context.Context, productID, categoryID uuid.UUID, limit int) ([]models.Product, error)
	SetImagePosition(ctx context.Context, productID, imageID uuid.UUID, position int) error
}

// Service exposes catalog reads and seller gallery management.
type Service interface {
	Search(ctx context.Context, params SearchParams) (SearchPageDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	GetBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	Featured(ctx context.Context, limit int) ([]ProductSummary, error)
	Related(ctx context.Context, productID uuid.UUID, limit int) ([]ProductSummary, error)
	ReorderImages(ctx context.Context, storeID, productID uuid.UUID, imageIDs []uuid.UUID) error
}

type service struct {
	repo catalogRepo
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo catalogRepo) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{repo: repo}, nil
}

// Search validates the filters, then delegates to the repository.
func (s *service) Search(ctx context.Context, params SearchParams) (SearchPageDTO, error) {
	if err := validateSearchParams(params); err != nil {
		return SearchPageDTO{}, err
	}

	page := pagination.Params{Page: params.Page, Limit: params.Limit}.
		NormalizeWith(searchDefaultLimit, searchMaxLimit)

	rows, total, err := s.repo.Search(ctx, params, page.Offset(), page.Limit)
	if err != nil {
		return SearchPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}

	items := make([]ProductSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, toSummary(row))
	}

	return SearchPageDTO{
		Items:      items,
		Pagination: pagination.NewMeta(page, total),
	}, nil
}

func validateSearchParams(params SearchParams) error {
	if params.MinPrice != nil && params.MinPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum price must not be negative")
	}
	if params.MaxPrice != nil && params.MaxPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "maximum price must not be negative")
	}
	if params.MinPrice != nil && params.MaxPrice != nil && params.MinPrice.GreaterThan(*params.MaxPrice) {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum price must not exceed maximum price")
	}
	if params.MinRating != nil && (*params.MinRating < 1 || *params.MinRating > 5) {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum rating must be between 1 and 5")
	}
	return nil
}

// GetByID returns the full detail view for one product.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := toDetail(*product)
	return &dto, nil
}

// GetBySlug returns the full detail view addressed by slug.
func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := toDetail(*product)
	return &dto, nil
}

// Featured returns the best-rated featured products.
func (s *service) Featured(ctx context.Context, limit int) ([]ProductSummary, error) {
	if limit <= 0 || limit > featuredLimitCap {
		limit = relatedDefaultLimit
	}
	rows, err := s.repo.Featured(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load featured products")
	}
	items := make([]ProductSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, toSummary(row))
	}
	return items, nil
}

// Related returns same-category products for the given source product. A
// product without a category has no related set.
func (s *service) Related(ctx context.Context, productID uuid.UUID, limit int) ([]ProductSummary, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if limit <= 0 || limit > featuredLimitCap {
		limit = relatedDefaultLimit
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.CategoryID == nil {
		return []ProductSummary{}, nil
	}

	rows, err := s.repo.Related(ctx, productID, *product.CategoryID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load related products")
	}
	items := make([]ProductSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, toSummary(row))
	}
	return items, nil
}

// ReorderImages moves every listed image to its slot position. Failures are
// collected per image so one bad entry does not hide the rest.
func (s *service) ReorderImages(ctx context.Context, storeID, productID uuid.UUID, imageIDs []uuid.UUID) error {
	if storeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if len(imageIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one image id is required")
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.StoreID != storeID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another store")
	}

	var combined error
	for position, imageID := range imageIDs {
		if err := s.repo.SetImagePosition(ctx, productID, imageID, position); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				combined = multierr.Append(combined,
					pkgerrors.Newf(pkgerrors.CodeNotFound, "image %s not found on product", imageID))
				continue
			}
			combined = multierr.Append(combined,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "move image "+imageID.String()))
		}
	}
	return combined
}

// Summarize maps a product row to its listing shape. Shared with the
// wishlist and cart views so thumbnails resolve the same way everywhere.
func Summarize(product models.Product) ProductSummary {
	return toSummary(product)
}

func toSummary(product models.Product) ProductSummary {
	summary := ProductSummary{
		ID:             product.ID,
		StoreID:        product.StoreID,
		CategoryID:     product.CategoryID,
		Title:          product.Title,
		Slug:           product.Slug,
		Price:          product.Price,
		CompareAtPrice: product.CompareAtPrice,
		Stock:          product.Stock,
		Rating:         product.Rating,
		RatingCount:    product.RatingCount,
		IsFeatured:     product.IsFeatured,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
	for _, image := range product.Images {
		if image.IsPrimary {
			url := image.URL
			summary.ThumbnailURL = &url
			break
		}
	}
	if summary.ThumbnailURL == nil && len(product.Images) > 0 {
		url := product.Images[0].URL
		summary.ThumbnailURL = &url
	}
	return summary
}

func toDetail(product models.Product) ProductDTO {
	dto := ProductDTO{
		ProductSummary: toSummary(product),
		Description:    product.Description,
		Images:         make([]ProductImageDTO, 0, len(product.Images)),
	}
	if product.Category != nil {
		name := product.Category.Name
		slug := product.Category.Slug
		dto.CategoryName = &name
		dto.CategorySlug = &slug
	}
	for _, image := range product.Images {
		dto.Images = append(dto.Images, ProductImageDTO{
			ID:        image.ID,
			URL:       image.URL,
			AltText:   image.AltText,
			IsPrimary: image.IsPrimary,
			Position:  image.Position,
		})
	}
	return dto
}

// DecimalPtr is a small helper for building search filters from parsed input.
func DecimalPtr(value decimal.Decimal) *decimal.Decimal {
	return &value
}
