package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/db/models"
	pkgerrors "github.com/stellarmarket/stellarmarket-backend/pkg/errors"
)

type stubCatalogRepo struct {
	product       *models.Product
	findErr       error
	searchRows    []models.Product
	searchTotal   int64
	searchOffset  int
	searchLimit   int
	featuredLimit int
	relatedLimit  int
	missingImages map[uuid.UUID]bool
	positions     map[uuid.UUID]int
}

func (s *stubCatalogRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.product, nil
}

func (s *stubCatalogRepo) FindBySlug(_ context.Context, _ string) (*models.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.product, nil
}

func (s *stubCatalogRepo) Search(_ context.Context, _ SearchParams, offset, limit int) ([]models.Product, int64, error) {
	s.searchOffset = offset
	s.searchLimit = limit
	return s.searchRows, s.searchTotal, nil
}

func (s *stubCatalogRepo) Featured(_ context.Context, limit int) ([]models.Product, error) {
	s.featuredLimit = limit
	return nil, nil
}

func (s *stubCatalogRepo) Related(_ context.Context, _, _ uuid.UUID, limit int) ([]models.Product, error) {
	s.relatedLimit = limit
	return nil, nil
}

func (s *stubCatalogRepo) SetImagePosition(_ context.Context, _, imageID uuid.UUID, position int) error {
	if s.missingImages[imageID] {
		return gorm.ErrRecordNotFound
	}
	if s.positions == nil {
		s.positions = map[uuid.UUID]int{}
	}
	s.positions[imageID] = position
	return nil
}

func newTestService(t *testing.T, repo *stubCatalogRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
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

func TestSearchValidatesFilters(t *testing.T) {
	svc := newTestService(t, &stubCatalogRepo{})
	ctx := context.Background()

	neg := decimal.NewFromInt(-1)
	_, err := svc.Search(ctx, SearchParams{MinPrice: &neg})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Search(ctx, SearchParams{MaxPrice: &neg})
	assertCode(t, err, pkgerrors.CodeValidation)

	low := decimal.NewFromInt(10)
	high := decimal.NewFromInt(5)
	_, err = svc.Search(ctx, SearchParams{MinPrice: &low, MaxPrice: &high})
	assertCode(t, err, pkgerrors.CodeValidation)

	badRating := 5.5
	_, err = svc.Search(ctx, SearchParams{MinRating: &badRating})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestSearchClampsPagination(t *testing.T) {
	repo := &stubCatalogRepo{searchTotal: 300}
	svc := newTestService(t, repo)

	page, err := svc.Search(context.Background(), SearchParams{Page: 0, Limit: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.searchLimit != searchDefaultLimit || repo.searchOffset != 0 {
		t.Fatalf("expected defaults %d/0, got %d/%d", searchDefaultLimit, repo.searchLimit, repo.searchOffset)
	}
	if page.Items == nil {
		t.Fatal("expected non-nil items for empty page")
	}

	_, err = svc.Search(context.Background(), SearchParams{Page: 2, Limit: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.searchLimit != searchMaxLimit || repo.searchOffset != searchMaxLimit {
		t.Fatalf("expected clamp %d at offset %d, got %d/%d", searchMaxLimit, searchMaxLimit, repo.searchLimit, repo.searchOffset)
	}
}

func TestGetByIDMapsNotFound(t *testing.T) {
	svc := newTestService(t, &stubCatalogRepo{findErr: gorm.ErrRecordNotFound})

	_, err := svc.GetByID(context.Background(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.GetByID(context.Background(), uuid.Nil)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestFeaturedAndRelatedClampLimits(t *testing.T) {
	categoryID := uuid.New()
	repo := &stubCatalogRepo{product: &models.Product{CategoryID: &categoryID}}
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Featured(ctx, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.featuredLimit != relatedDefaultLimit {
		t.Fatalf("expected default limit %d, got %d", relatedDefaultLimit, repo.featuredLimit)
	}

	if _, err := svc.Featured(ctx, featuredLimitCap+1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.featuredLimit != relatedDefaultLimit {
		t.Fatalf("expected oversized limit to reset to %d, got %d", relatedDefaultLimit, repo.featuredLimit)
	}

	if _, err := svc.Related(ctx, uuid.New(), 12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.relatedLimit != 12 {
		t.Fatalf("expected limit 12 passed through, got %d", repo.relatedLimit)
	}
}

func TestRelatedWithoutCategoryIsEmpty(t *testing.T) {
	repo := &stubCatalogRepo{product: &models.Product{}}
	svc := newTestService(t, repo)

	items, err := svc.Related(context.Background(), uuid.New(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty slice, got %v", items)
	}
	if repo.relatedLimit != 0 {
		t.Fatal("expected no repository call for an uncategorized product")
	}
}

func TestReorderImagesChecksOwnership(t *testing.T) {
	storeID := uuid.New()
	repo := &stubCatalogRepo{product: &models.Product{StoreID: storeID}}
	svc := newTestService(t, repo)

	err := svc.ReorderImages(context.Background(), uuid.New(), uuid.New(), []uuid.UUID{uuid.New()})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestReorderImagesCollectsPerImageFailures(t *testing.T) {
	storeID := uuid.New()
	good := uuid.New()
	missing := uuid.New()
	repo := &stubCatalogRepo{
		product:       &models.Product{StoreID: storeID},
		missingImages: map[uuid.UUID]bool{missing: true},
	}
	svc := newTestService(t, repo)

	err := svc.ReorderImages(context.Background(), storeID, uuid.New(), []uuid.UUID{good, missing})
	if err == nil {
		t.Fatal("expected an error for the missing image")
	}
	errs := multierr.Errors(err)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one collected error, got %d: %v", len(errs), errs)
	}
	assertCode(t, errs[0], pkgerrors.CodeNotFound)
	if got := repo.positions[good]; got != 0 {
		t.Fatalf("expected surviving image at position 0, got %d", got)
	}
	if _, moved := repo.positions[missing]; moved {
		t.Fatal("missing image must not be repositioned")
	}
}

func TestSummarizePicksPrimaryThumbnail(t *testing.T) {
	product := models.Product{
		Images: []models.ProductImage{
			{URL: "https://cdn.example.com/a.jpg"},
			{URL: "https://cdn.example.com/b.jpg", IsPrimary: true},
		},
	}
	summary := Summarize(product)
	if summary.ThumbnailURL == nil || *summary.ThumbnailURL != "https://cdn.example.com/b.jpg" {
		t.Fatalf("expected primary image as thumbnail, got %v", summary.ThumbnailURL)
	}

	product.Images[1].IsPrimary = false
	summary = Summarize(product)
	if summary.ThumbnailURL == nil || *summary.ThumbnailURL != "https://cdn.example.com/a.jpg" {
		t.Fatalf("expected first image fallback, got %v", summary.ThumbnailURL)
	}

	summary = Summarize(models.Product{})
	if summary.ThumbnailURL != nil {
		t.Fatal("expected nil thumbnail without images")
	}
}
