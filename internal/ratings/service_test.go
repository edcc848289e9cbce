package ratings

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/db/models"
	pkgerrors "github.com/stellarmarket/stellarmarket-backend/pkg/errors"
)

type stubRatingRepo struct {
	upsertRow     RatingDTO
	upsertRating  int
	upsertComment *string
	upsertCalls   int
	recomputes    int
	aggregate     ProductAggregateDTO
	deleteProduct uuid.UUID
	deleteErr     error
	listRows      []RatingDTO
	listTotal     int64
	listOffset    int
	listLimit     int
}

func (s *stubRatingRepo) UpsertAndRecompute(_ context.Context, userID, productID uuid.UUID, rating int, comment *string) (RatingDTO, error) {
	s.upsertCalls++
	s.upsertRating = rating
	s.upsertComment = comment
	row := s.upsertRow
	row.UserID = userID
	row.ProductID = productID
	row.Rating = rating
	row.Comment = comment
	return row, nil
}

func (s *stubRatingRepo) DeleteByIDAndUser(_ context.Context, _, _ uuid.UUID) (uuid.UUID, error) {
	if s.deleteErr != nil {
		return uuid.Nil, s.deleteErr
	}
	return s.deleteProduct, nil
}

func (s *stubRatingRepo) RecomputeProductAggregate(_ context.Context, _ uuid.UUID) error {
	s.recomputes++
	return nil
}

func (s *stubRatingRepo) ProductAggregate(_ context.Context, productID uuid.UUID) (ProductAggregateDTO, error) {
	out := s.aggregate
	out.ProductID = productID
	return out, nil
}

func (s *stubRatingRepo) ListByProduct(_ context.Context, _ uuid.UUID, offset, limit int) ([]RatingDTO, int64, error) {
	s.listOffset = offset
	s.listLimit = limit
	return s.listRows, s.listTotal, nil
}

type stubProductLoader struct {
	product *models.Product
	err     error
}

func (s *stubProductLoader) FindByID(_ context.Context, _ uuid.UUID) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func newTestService(t *testing.T, repo *stubRatingRepo, products *stubProductLoader) Service {
	t.Helper()
	svc, err := NewService(repo, products)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", want)
	}
	if got := pkgerrors.CodeOf(err); got != want {
		t.Fatalf("expected code %s, got %s (%v)", want, got, err)
	}
}

func TestAddRatingRejectsOutOfRangeScores(t *testing.T) {
	repo := &stubRatingRepo{}
	svc := newTestService(t, repo, &stubProductLoader{product: &models.Product{}})

	for _, score := range []int{0, -1, 6} {
		_, err := svc.AddRating(context.Background(), uuid.New(), uuid.New(), score, nil)
		assertCode(t, err, pkgerrors.CodeValidation)
	}
	if repo.upsertCalls != 0 {
		t.Fatalf("expected no writes for invalid scores, got %d", repo.upsertCalls)
	}
}

func TestAddRatingRejectsMissingProduct(t *testing.T) {
	repo := &stubRatingRepo{}
	svc := newTestService(t, repo, &stubProductLoader{err: gorm.ErrRecordNotFound})

	_, err := svc.AddRating(context.Background(), uuid.New(), uuid.New(), 4, nil)
	assertCode(t, err, pkgerrors.CodeNotFound)
	if repo.upsertCalls != 0 {
		t.Fatal("expected no write when product is missing")
	}
}

func TestAddRatingNormalizesComment(t *testing.T) {
	repo := &stubRatingRepo{aggregate: ProductAggregateDTO{Rating: 4, RatingCount: 1}}
	svc := newTestService(t, repo, &stubProductLoader{product: &models.Product{}})

	blank := "   "
	_, err := svc.AddRating(context.Background(), uuid.New(), uuid.New(), 4, &blank)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.upsertComment != nil {
		t.Fatalf("expected blank comment to be dropped, got %q", *repo.upsertComment)
	}

	padded := "  great value  "
	_, err = svc.AddRating(context.Background(), uuid.New(), uuid.New(), 4, &padded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.upsertComment == nil || *repo.upsertComment != "great value" {
		t.Fatalf("expected trimmed comment, got %v", repo.upsertComment)
	}

	long := strings.Repeat("x", maxCommentLen+1)
	_, err = svc.AddRating(context.Background(), uuid.New(), uuid.New(), 4, &long)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestAddRatingReturnsPersistedRowAndAggregate(t *testing.T) {
	ratingID := uuid.New()
	repo := &stubRatingRepo{
		upsertRow: RatingDTO{ID: ratingID},
		aggregate: ProductAggregateDTO{Rating: 4.5, RatingCount: 2},
	}
	svc := newTestService(t, repo, &stubProductLoader{product: &models.Product{}})

	userID := uuid.New()
	productID := uuid.New()
	result, err := svc.AddRating(context.Background(), userID, productID, 5, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.upsertCalls != 1 {
		t.Fatalf("expected one upsert, got %d", repo.upsertCalls)
	}
	if result.Rating.ID != ratingID {
		t.Fatalf("expected the persisted rating id, got %s", result.Rating.ID)
	}
	if result.Rating.UserID != userID || result.Rating.ProductID != productID || result.Rating.Rating != 5 {
		t.Fatalf("unexpected rating row: %+v", result.Rating)
	}
	if result.Aggregate.ProductID != productID || result.Aggregate.Rating != 4.5 || result.Aggregate.RatingCount != 2 {
		t.Fatalf("unexpected aggregate: %+v", result.Aggregate)
	}
}

func TestDeleteRatingNotFound(t *testing.T) {
	repo := &stubRatingRepo{deleteErr: gorm.ErrRecordNotFound}
	svc := newTestService(t, repo, &stubProductLoader{product: &models.Product{}})

	_, err := svc.DeleteRating(context.Background(), uuid.New(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
	if repo.recomputes != 0 {
		t.Fatal("expected no recompute when delete misses")
	}
}

func TestDeleteRatingRefreshesAggregate(t *testing.T) {
	productID := uuid.New()
	repo := &stubRatingRepo{deleteProduct: productID, aggregate: ProductAggregateDTO{Rating: 0, RatingCount: 0}}
	svc := newTestService(t, repo, &stubProductLoader{product: &models.Product{}})

	aggregate, err := svc.DeleteRating(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.recomputes != 1 {
		t.Fatalf("expected one recompute, got %d", repo.recomputes)
	}
	if aggregate.ProductID != productID {
		t.Fatalf("expected aggregate for deleted rating's product, got %s", aggregate.ProductID)
	}
}

func TestGetProductRatingsClampsPagination(t *testing.T) {
	repo := &stubRatingRepo{listTotal: 120}
	svc := newTestService(t, repo, &stubProductLoader{product: &models.Product{}})

	page, err := svc.GetProductRatings(context.Background(), uuid.New(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listLimit != listDefaultLimit || repo.listOffset != 0 {
		t.Fatalf("expected default limit %d at offset 0, got %d/%d", listDefaultLimit, repo.listLimit, repo.listOffset)
	}
	if page.Items == nil {
		t.Fatal("expected non-nil items slice for empty result")
	}

	_, err = svc.GetProductRatings(context.Background(), uuid.New(), 3, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listLimit != listMaxLimit {
		t.Fatalf("expected limit clamped to %d, got %d", listMaxLimit, repo.listLimit)
	}
	if repo.listOffset != 2*listMaxLimit {
		t.Fatalf("expected offset %d, got %d", 2*listMaxLimit, repo.listOffset)
	}
}
