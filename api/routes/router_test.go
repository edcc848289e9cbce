package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stellarmarket/stellarmarket-backend/internal/cart"
	"github.com/stellarmarket/stellarmarket-backend/internal/dashboard"
	"github.com/stellarmarket/stellarmarket-backend/internal/orders"
	"github.com/stellarmarket/stellarmarket-backend/internal/products"
	"github.com/stellarmarket/stellarmarket-backend/internal/ratings"
	"github.com/stellarmarket/stellarmarket-backend/internal/wishlist"
	pkgauth "github.com/stellarmarket/stellarmarket-backend/pkg/auth"
	"github.com/stellarmarket/stellarmarket-backend/pkg/config"
	"github.com/stellarmarket/stellarmarket-backend/pkg/enums"
	"github.com/stellarmarket/stellarmarket-backend/pkg/logger"
)

type stubProductService struct{}

func (stubProductService) Search(ctx context.Context, params products.SearchParams) (products.SearchPageDTO, error) {
	return products.SearchPageDTO{Items: []products.ProductSummary{}}, nil
}

func (stubProductService) GetByID(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) GetBySlug(ctx context.Context, slug string) (*products.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) Featured(ctx context.Context, limit int) ([]products.ProductSummary, error) {
	panic("unimplemented")
}

func (stubProductService) Related(ctx context.Context, productID uuid.UUID, limit int) ([]products.ProductSummary, error) {
	panic("unimplemented")
}

func (stubProductService) ReorderImages(ctx context.Context, storeID, productID uuid.UUID, imageIDs []uuid.UUID) error {
	return nil
}

type stubRatingService struct{}

func (stubRatingService) AddRating(ctx context.Context, userID, productID uuid.UUID, rating int, comment *string) (ratings.RatingWriteDTO, error) {
	panic("unimplemented")
}

func (stubRatingService) DeleteRating(ctx context.Context, userID, ratingID uuid.UUID) (ratings.ProductAggregateDTO, error) {
	panic("unimplemented")
}

func (stubRatingService) GetProductRatings(ctx context.Context, productID uuid.UUID, page, limit int) (ratings.RatingsPageDTO, error) {
	return ratings.RatingsPageDTO{Items: []ratings.RatingDTO{}}, nil
}

type stubCartService struct{}

func (stubCartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) UpdateCartItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) (cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) ClearCart(ctx context.Context, userID uuid.UUID) (cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (cart.CartDTO, error) {
	return cart.CartDTO{Items: []cart.CartItemDTO{}}, nil
}

func (stubCartService) ApplyPromoCode(ctx context.Context, userID uuid.UUID, code string) (cart.PromoResultDTO, error) {
	panic("unimplemented")
}

type stubWishlistService struct{}

func (stubWishlistService) Get(ctx context.Context, userID uuid.UUID) (wishlist.WishlistDTO, error) {
	panic("unimplemented")
}

func (stubWishlistService) Add(ctx context.Context, userID, productID uuid.UUID) error {
	panic("unimplemented")
}

func (stubWishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	panic("unimplemented")
}

func (stubWishlistService) Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	panic("unimplemented")
}

type stubOrderService struct{}

func (stubOrderService) GetOrder(ctx context.Context, orderID uuid.UUID, requesterID uuid.UUID, requesterStoreID *uuid.UUID) (orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) ListStoreOrders(ctx context.Context, storeID uuid.UUID, filters orders.ListFilters, page, limit int) (orders.OrdersPageDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) OrderItems(ctx context.Context, orderID uuid.UUID) ([]orders.OrderItemDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) UpdateStatus(ctx context.Context, orderID, storeID uuid.UUID, status enums.OrderStatus) (orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) Cancel(ctx context.Context, orderID, userID uuid.UUID) (orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) Refund(ctx context.Context, orderID, storeID uuid.UUID) (orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) Analytics(ctx context.Context, storeID uuid.UUID, from, to time.Time) (orders.AnalyticsDTO, error) {
	panic("unimplemented")
}

type stubDashboardService struct{}

func (stubDashboardService) Overview(ctx context.Context, storeID uuid.UUID) (dashboard.OverviewDTO, error) {
	return dashboard.OverviewDTO{}, nil
}

func (stubDashboardService) DailySummary(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]dashboard.DailySummaryRow, error) {
	panic("unimplemented")
}

func (stubDashboardService) CreateGoal(ctx context.Context, storeID uuid.UUID, input dashboard.GoalInput) (dashboard.GoalDTO, error) {
	panic("unimplemented")
}

func (stubDashboardService) ListGoals(ctx context.Context, storeID uuid.UUID) ([]dashboard.GoalDTO, error) {
	panic("unimplemented")
}

func (stubDashboardService) UpdateGoal(ctx context.Context, storeID, goalID uuid.UUID, input dashboard.GoalInput) (dashboard.GoalDTO, error) {
	panic("unimplemented")
}

func (stubDashboardService) DeleteGoal(ctx context.Context, storeID, goalID uuid.UUID) error {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:           cfg,
		Logger:           logg,
		ProductService:   stubProductService{},
		RatingService:    stubRatingService{},
		CartService:      stubCartService{},
		WishlistService:  stubWishlistService{},
		OrderService:     stubOrderService{},
		DashboardService: stubDashboardService{},
	})
}

func buyerToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Name:   "Test Buyer",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func sellerToken(t *testing.T, cfg *config.Config, storeID uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:  uuid.New(),
		StoreID: &storeID,
		Name:    "Test Seller",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestCatalogIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public search got %d", resp.Code)
	}
}

func TestCartRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCartSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buyerToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for authed cart fetch got %d", resp.Code)
	}
}

func TestImageReorderRequiresStoreContext(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/v1/products/" + uuid.NewString() + "/images/reorder"
	body := `{"image_ids":["` + uuid.NewString() + `"]}`

	buyer := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	buyer.Header.Set("Authorization", "Bearer "+buyerToken(t, cfg))
	buyer.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer token got %d", resp.Code)
	}

	seller := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	seller.Header.Set("Authorization", "Bearer "+sellerToken(t, cfg, uuid.New()))
	seller.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, seller)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for seller reorder got %d", resp.Code)
	}
}

func TestStoreRoutesRejectForeignStore(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	tokenStore := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/"+uuid.NewString()+"/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+sellerToken(t, cfg, tokenStore))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign store got %d", resp.Code)
	}

	own := httptest.NewRequest(http.MethodGet, "/api/v1/stores/"+tokenStore.String()+"/dashboard", nil)
	own.Header.Set("Authorization", "Bearer "+sellerToken(t, cfg, tokenStore))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, own)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for own store dashboard got %d", resp.Code)
	}
}

func TestCartAddRejectsBadJSON(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+buyerToken(t, cfg))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}
