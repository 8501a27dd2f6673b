package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

// RoleAdmin unlocks catalog management endpoints.
const RoleAdmin = "admin"

// catalogMaxAge is how long clients may cache public catalog reads, in seconds.
const catalogMaxAge = 60

// RouterConfig collects everything NewRouter wires together.
type RouterConfig struct {
	ServiceName string

	Catalog  *service.CatalogService
	Cart     *service.CartService
	Wishlist *service.WishlistService
	Orders   *service.OrderService
	Health   *health.Handler

	// VerifyToken resolves a bearer token into the caller's identity.
	VerifyToken middleware.TokenValidator

	CORSOrigins    []string
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int

	PprofEnabled      bool
	PprofAllowedCIDRs []string
}

// NewRouter creates a chi router with all storefront routes registered. ctx
// bounds background work such as rate limiter cleanup.
func NewRouter(ctx context.Context, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chimw.Compress(5))

	// Health check and metrics endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	if cfg.PprofEnabled {
		middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)
	}

	catalog := NewCatalogHandler(cfg.Catalog, logger)
	cart := NewCartHandler(cfg.Cart, logger)
	wishlist := NewWishlistHandler(cfg.Wishlist, logger)
	orders := NewOrderHandler(cfg.Orders, cfg.Cart, logger)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(chimw.Timeout(cfg.RequestTimeout))
		}
		r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger))

		// Public catalog reads
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(catalogMaxAge))

			r.Get("/products", catalog.ListProducts)
			r.Get("/products/{id}", catalog.GetProduct)
			r.Get("/categories", catalog.ListCategories)
			r.Get("/categories/{id}", catalog.GetCategory)
		})

		// Everything below requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.VerifyToken))
			r.Use(middleware.NoStore)

			r.Get("/auth/user", CurrentUser)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cart.GetCart)
				r.Post("/", cart.AddItem)
				r.Delete("/", cart.Clear)
				r.Put("/{id}", cart.UpdateItem)
				r.Delete("/{id}", cart.RemoveItem)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", wishlist.List)
				r.Post("/", wishlist.Add)
				r.Post("/toggle", wishlist.Toggle)
				r.Get("/check/{productId}", wishlist.Check)
				r.Delete("/{productId}", wishlist.Remove)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orders.List)
				r.Post("/", orders.Create)
				r.Post("/checkout", orders.Checkout)
				r.Get("/{id}", orders.Get)
			})

			// Catalog management
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(RoleAdmin))

				r.Post("/products", catalog.CreateProduct)
				r.Put("/products/{id}", catalog.UpdateProduct)
				r.Delete("/products/{id}", catalog.DeleteProduct)
				r.Post("/categories", catalog.CreateCategory)
				r.Delete("/categories/{id}", catalog.DeleteCategory)
			})
		})
	})

	return r
}
