package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/storefront/docs"
	"github.com/rogerio-castellano/storefront/internal/http/handlers"
	mw "github.com/rogerio-castellano/storefront/internal/http/middleware"
	rl "github.com/rogerio-castellano/storefront/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront/internal/session"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type Options struct {
	Logger      *zap.Logger
	Limiter     *rl.Limiter
	Sessions    *session.Issuer
	CORSOrigins []string
}

func NewRouter(h *handlers.Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", mw.CartTokenHeader},
	}).Handler)

	limited := mw.RateLimit(opts.Limiter)

	r.Get("/healthz", h.HealthHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.GetProductsHandler)
			r.Get("/search", h.SearchProductsHandler)
			r.Get("/{id}", h.GetProductByIDHandler)

			r.With(limited).Post("/", h.CreateProductHandler)
			r.With(limited).Post("/import", h.ImportProductsHandler)
			r.With(limited).Put("/{id}", h.UpdateProductHandler)
			r.With(limited).Delete("/{id}", h.DeleteProductHandler)
		})

		r.Route("/cart", func(r chi.Router) {
			r.With(limited).Post("/session", h.CreateCartSessionHandler)

			r.Group(func(r chi.Router) {
				r.Use(mw.CartSession(opts.Sessions))
				r.Get("/", h.GetCartHandler)
				r.Delete("/", h.ClearCartHandler)
				r.Post("/items", h.AddCartItemHandler)
				r.Post("/items/{id}/increment", h.IncrementCartItemHandler)
				r.Post("/items/{id}/decrement", h.DecrementCartItemHandler)
				r.Delete("/items/{id}", h.RemoveCartItemHandler)
			})
		})

		r.Get("/messages", h.GetMessagesHandler)
		r.With(limited).Post("/messages", h.CreateMessageHandler)
		r.Get("/stats", h.GetDashboardStatsHandler)
	})

	return r
}
