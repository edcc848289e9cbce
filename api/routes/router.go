package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stellarmarket/stellarmarket-backend/api/controllers"
	"github.com/stellarmarket/stellarmarket-backend/api/middleware"
	"github.com/stellarmarket/stellarmarket-backend/internal/cart"
	"github.com/stellarmarket/stellarmarket-backend/internal/dashboard"
	"github.com/stellarmarket/stellarmarket-backend/internal/orders"
	"github.com/stellarmarket/stellarmarket-backend/internal/products"
	"github.com/stellarmarket/stellarmarket-backend/internal/ratings"
	"github.com/stellarmarket/stellarmarket-backend/internal/wishlist"
	"github.com/stellarmarket/stellarmarket-backend/pkg/config"
	"github.com/stellarmarket/stellarmarket-backend/pkg/db"
	"github.com/stellarmarket/stellarmarket-backend/pkg/logger"
	"github.com/stellarmarket/stellarmarket-backend/pkg/metrics"
	"github.com/stellarmarket/stellarmarket-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *redis.Client
	Registry *prometheus.Registry

	ProductService   products.Service
	RatingService    ratings.Service
	CartService      cart.Service
	WishlistService  wishlist.Service
	OrderService     orders.Service
	DashboardService dashboard.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	httpMetrics := metrics.NewHTTPMetrics(registry)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		if deps.Redis != nil {
			r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
		} else {
			r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB))
		}
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		// public catalog
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductSearch(deps.ProductService, logg))
			r.Get("/featured", controllers.ProductFeatured(deps.ProductService, logg))
			r.Get("/{productID}", controllers.ProductFetch(deps.ProductService, logg))
			r.Get("/{productID}/related", controllers.ProductRelated(deps.ProductService, logg))
			r.Get("/{productID}/ratings", controllers.ProductRatingsList(deps.RatingService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg), middleware.RequireStore(logg))
				r.Post("/{productID}/images/reorder", controllers.ProductImagesReorder(deps.ProductService, logg))
			})
		})

		// buyer surfaces
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/ratings", func(r chi.Router) {
				r.Post("/", controllers.RatingCreate(deps.RatingService, logg))
				r.Delete("/{ratingID}", controllers.RatingDelete(deps.RatingService, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.CartService, logg))
				r.Delete("/", controllers.CartClear(deps.CartService, logg))
				r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
				r.Patch("/items/{itemID}", controllers.CartUpdateItem(deps.CartService, logg))
				r.Delete("/items/{itemID}", controllers.CartRemoveItem(deps.CartService, logg))
				r.With(middleware.PromoRateLimit(cfg.PromoLimit, promoLimiter(deps.Redis), logg)).
					Post("/promo", controllers.CartApplyPromo(deps.CartService, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistFetch(deps.WishlistService, logg))
				r.Post("/", controllers.WishlistAdd(deps.WishlistService, logg))
				r.Delete("/{productID}", controllers.WishlistRemove(deps.WishlistService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/{orderID}", controllers.OrderFetch(deps.OrderService, logg))
				r.Get("/{orderID}/items", controllers.OrderItemsFetch(deps.OrderService, logg))
				r.Post("/{orderID}/cancel", controllers.OrderCancel(deps.OrderService, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireStore(logg))
					r.Post("/{orderID}/refund", controllers.OrderRefund(deps.OrderService, logg))
					r.Patch("/{orderID}/status", controllers.OrderStatusUpdate(deps.OrderService, logg))
				})
			})
		})

		// seller surfaces
		r.Route("/stores/{storeID}", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg), middleware.RequireStore(logg))

			r.Get("/orders", controllers.StoreOrdersList(deps.OrderService, logg))
			r.Get("/analytics", controllers.StoreOrderAnalytics(deps.OrderService, logg))
			r.Get("/analytics/daily", controllers.DashboardDailySummary(deps.DashboardService, logg))
			r.Get("/dashboard", controllers.DashboardOverview(deps.DashboardService, logg))

			r.Route("/goals", func(r chi.Router) {
				r.Get("/", controllers.GoalsList(deps.DashboardService, logg))
				r.Post("/", controllers.GoalCreate(deps.DashboardService, logg))
				r.Put("/{goalID}", controllers.GoalUpdate(deps.DashboardService, logg))
				r.Delete("/{goalID}", controllers.GoalDelete(deps.DashboardService, logg))
			})
		})
	})

	return r
}

// promoLimiter keeps the middleware nil-safe when Redis is not configured.
func promoLimiter(client *redis.Client) redis.RateLimiter {
	if client == nil {
		return nil
	}
	return client
}
