package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swaritsharma001/welness-studio/pkg/health"
	"github.com/swaritsharma001/welness-studio/pkg/middleware"
)

// RouterConfig holds the dependencies and settings for the HTTP router.
type RouterConfig struct {
	AuthHandler    *AuthHandler
	UserHandler    *UserHandler
	StoreHandler   *StoreHandler
	BookingHandler *BookingHandler
	Guard          *Guard
	Health         *health.Handler
	Logger         *slog.Logger

	CORS           middleware.CORSConfig
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter assembles the complete HTTP routing tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("studio"))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	rateLimit := middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(rateLimit)
			r.Use(ContentTypeJSON)
			r.Post("/signup", cfg.AuthHandler.Signup)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/logout", cfg.AuthHandler.Logout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(cfg.Guard.Authenticate)
			r.Get("/me", cfg.UserHandler.Me)

			r.Group(func(r chi.Router) {
				r.Use(cfg.Guard.RequireElevated)
				r.Get("/all", cfg.UserHandler.All)
			})
		})

		r.Route("/store", func(r chi.Router) {
			r.Get("/items", cfg.StoreHandler.ListItems)

			r.Group(func(r chi.Router) {
				r.Use(cfg.Guard.Authenticate)
				r.Use(cfg.Guard.RequireElevated)
				r.With(ContentTypeJSON).Post("/items", cfg.StoreHandler.CreateItem)
				r.Delete("/items/{id}", cfg.StoreHandler.DeleteItem)
			})

			r.Group(func(r chi.Router) {
				r.Use(cfg.Guard.Authenticate)
				r.Get("/cart", cfg.StoreHandler.GetCart)
				r.With(ContentTypeJSON).Post("/cart/items", cfg.StoreHandler.AddCartItem)
				r.Delete("/cart/items/{productID}", cfg.StoreHandler.RemoveCartItem)
				r.With(ContentTypeJSON).Post("/pay", cfg.StoreHandler.Pay)
				r.Get("/orders", cfg.StoreHandler.ListOrders)
			})
		})

		r.Route("/yoga", func(r chi.Router) {
			r.Get("/instructors", cfg.BookingHandler.ListInstructors)

			r.Group(func(r chi.Router) {
				r.Use(cfg.Guard.Authenticate)
				r.Use(cfg.Guard.RequireElevated)
				r.With(ContentTypeJSON).Post("/instructors", cfg.BookingHandler.CreateInstructor)
				r.Delete("/instructors/{id}", cfg.BookingHandler.DeleteInstructor)
				r.Get("/sessions/all", cfg.BookingHandler.ListAllSessions)
				r.With(ContentTypeJSON).Patch("/sessions/{id}/status", cfg.BookingHandler.UpdateSessionStatus)
			})

			r.Group(func(r chi.Router) {
				r.Use(cfg.Guard.Authenticate)
				r.With(ContentTypeJSON).Post("/sessions", cfg.BookingHandler.BookSession)
				r.Get("/sessions", cfg.BookingHandler.ListOwnSessions)
				r.Delete("/sessions/{id}", cfg.BookingHandler.DeleteSession)
			})
		})
	})

	return r
}
