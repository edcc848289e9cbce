package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stellarmarket/stellarmarket-backend/pkg/db/models"
	pkgerrors "github.com/stellarmarket/stellarmarket-backend/pkg/errors"
)

type stubWishlistRepo struct {
	items    []models.WishlistItem
	added    []uuid.UUID
	removed  []uuid.UUID
	contains bool
}

func (s *stubWishlistRepo) AddItem(_ context.Context, _, productID uuid.UUID) error {
	s.added = append(s.added, productID)
	return nil
}

func (s *stubWishlistRepo) RemoveItem(_ context.Context, _, productID uuid.UUID) error {
	s.removed = append(s.removed, productID)
	return nil
}

func (s *stubWishlistRepo) ListItems(_ context.Context, _ uuid.UUID) ([]models.WishlistItem, error) {
	return s.items, nil
}

func (s *stubWishlistRepo) Contains(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return s.contains, nil
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

func newTestService(t *testing.T, repo *stubWishlistRepo, loader *stubProductLoader) Service {
	t.Helper()
	svc, err := NewService(repo, loader)
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

func TestAddRejectsMissingProduct(t *testing.T) {
	repo := &stubWishlistRepo{}
	svc := newTestService(t, repo, &stubProductLoader{err: gorm.ErrRecordNotFound})

	err := svc.Add(context.Background(), uuid.New(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
	if len(repo.added) != 0 {
		t.Fatal("expected no write for a missing product")
	}
}

func TestAddSavesExistingProduct(t *testing.T) {
	repo := &stubWishlistRepo{}
	svc := newTestService(t, repo, &stubProductLoader{product: &models.Product{}})

	productID := uuid.New()
	if err := svc.Add(context.Background(), uuid.New(), productID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.added) != 1 || repo.added[0] != productID {
		t.Fatalf("expected one save of %s, got %v", productID, repo.added)
	}
}

func TestGetSkipsOrphanedItems(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Title: "Kept"}
	repo := &stubWishlistRepo{
		items: []models.WishlistItem{
			{ID: uuid.New(), Product: product},
			{ID: uuid.New(), Product: nil},
		},
	}
	svc := newTestService(t, repo, &stubProductLoader{product: product})

	wishlist, err := svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wishlist.Total != 1 || len(wishlist.Items) != 1 {
		t.Fatalf("expected the orphan dropped, got %+v", wishlist)
	}
	if wishlist.Items[0].Product.Title != "Kept" {
		t.Fatalf("unexpected product: %+v", wishlist.Items[0].Product)
	}
}

func TestGetReturnsEmptySlice(t *testing.T) {
	svc := newTestService(t, &stubWishlistRepo{}, &stubProductLoader{})

	wishlist, err := svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wishlist.Items == nil || wishlist.Total != 0 {
		t.Fatalf("expected canonical empty wishlist, got %+v", wishlist)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	repo := &stubWishlistRepo{}
	svc := newTestService(t, repo, &stubProductLoader{})
	ctx := context.Background()
	productID := uuid.New()
	userID := uuid.New()

	if err := svc.Remove(ctx, userID, productID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Remove(ctx, userID, productID); err != nil {
		t.Fatalf("second remove must also succeed: %v", err)
	}
	if len(repo.removed) != 2 {
		t.Fatalf("expected two delete calls, got %d", len(repo.removed))
	}
}

func TestContainsRequiresIDs(t *testing.T) {
	repo := &stubWishlistRepo{contains: true}
	svc := newTestService(t, repo, &stubProductLoader{})

	_, err := svc.Contains(context.Background(), uuid.Nil, uuid.New())
	assertCode(t, err, pkgerrors.CodeValidation)

	saved, err := svc.Contains(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !saved {
		t.Fatal("expected contains true")
	}
}
