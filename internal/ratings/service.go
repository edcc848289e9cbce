package ratings

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/db/models"
	pkgerrors "github.com/stellarmarket/stellarmarket-backend/pkg/errors"
	"github.com/stellarmarket/stellarmarket-backend/pkg/pagination"
)

const (
	listDefaultLimit = 10
	listMaxLimit     = 50
	maxCommentLen    = 2000
)

type ratingRepo interface {
	UpsertAndRecompute(ctx context.Context, userID, productID uuid.UUID, rating int, comment *string) (RatingDTO, error)
	DeleteByIDAndUser(ctx context.Context, ratingID, userID uuid.UUID) (uuid.UUID, error)
	RecomputeProductAggregate(ctx context.Context, productID uuid.UUID) error
	ProductAggregate(ctx context.Context, productID uuid.UUID) (ProductAggregateDTO, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, offset, limit int) ([]RatingDTO, int64, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes rating writes and the paginated product rating feed.
type Service interface {
	AddRating(ctx context.Context, userID, productID uuid.UUID, rating int, comment *string) (RatingWriteDTO, error)
	DeleteRating(ctx context.Context, userID, ratingID uuid.UUID) (ProductAggregateDTO, error)
	GetProductRatings(ctx context.Context, productID uuid.UUID, page, limit int) (RatingsPageDTO, error)
}

type service struct {
	repo     ratingRepo
	products productLoader
}

// NewService builds a rating service with the required dependencies.
func NewService(repo ratingRepo, products productLoader) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating repo is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	return &service{repo: repo, products: products}, nil
}

// AddRating upserts the user's score, refreshes the product aggregate in the
// same transaction, and returns the persisted row alongside the aggregate so
// readers see mean and count move together.
func (s *service) AddRating(ctx context.Context, userID, productID uuid.UUID, rating int, comment *string) (RatingWriteDTO, error) {
	if userID == uuid.Nil {
		return RatingWriteDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return RatingWriteDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if rating < 1 || rating > 5 {
		return RatingWriteDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "rating must be an integer between 1 and 5")
	}
	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		if trimmed == "" {
			comment = nil
		} else {
			if len(trimmed) > maxCommentLen {
				return RatingWriteDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "comment is too long")
			}
			comment = &trimmed
		}
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RatingWriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return RatingWriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	row, err := s.repo.UpsertAndRecompute(ctx, userID, productID, rating, comment)
	if err != nil {
		return RatingWriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save rating")
	}

	aggregate, err := s.repo.ProductAggregate(ctx, productID)
	if err != nil {
		return RatingWriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read product rating")
	}
	return RatingWriteDTO{Rating: row, Aggregate: aggregate}, nil
}

// DeleteRating removes the user's rating and refreshes the product aggregate.
func (s *service) DeleteRating(ctx context.Context, userID, ratingID uuid.UUID) (ProductAggregateDTO, error) {
	if userID == uuid.Nil {
		return ProductAggregateDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if ratingID == uuid.Nil {
		return ProductAggregateDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "rating id is required")
	}

	productID, err := s.repo.DeleteByIDAndUser(ctx, ratingID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductAggregateDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "rating not found")
		}
		return ProductAggregateDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete rating")
	}

	if err := s.repo.RecomputeProductAggregate(ctx, productID); err != nil {
		return ProductAggregateDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh product rating")
	}
	aggregate, err := s.repo.ProductAggregate(ctx, productID)
	if err != nil {
		return ProductAggregateDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read product rating")
	}
	return aggregate, nil
}

// GetProductRatings returns a newest-first page. Page floors to 1, limit
// clamps to [1,50] with a default of 10.
func (s *service) GetProductRatings(ctx context.Context, productID uuid.UUID, page, limit int) (RatingsPageDTO, error) {
	if productID == uuid.Nil {
		return RatingsPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	params := pagination.Params{Page: page, Limit: limit}.
		NormalizeWith(listDefaultLimit, listMaxLimit)

	rows, total, err := s.repo.ListByProduct(ctx, productID, params.Offset(), params.Limit)
	if err != nil {
		return RatingsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product ratings")
	}
	if rows == nil {
		rows = []RatingDTO{}
	}

	return RatingsPageDTO{
		Items:      rows,
		Pagination: pagination.NewMeta(params, total),
	}, nil
}
