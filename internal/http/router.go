package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/media"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/store"
)

type Deps struct {
	Logger   *zap.Logger
	Store    *store.Store
	Checkout *checkout.Service
	Feed     *notify.Feed
	Images   media.Encoder

	AdminUsername      string
	LoginRatePerMinute int
	CORSAllowOrigins   []string
}

func NewRouter(d Deps) http.Handler {
	h := NewHandler(d)
	limiter := newLoginLimiter(d.LoginRatePerMinute)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(correlationID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: d.CORSAllowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", HeaderCorrelationID},
		ExposedHeaders: []string{HeaderCorrelationID},
	}).Handler)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{productId}", h.GetProduct)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddCartItem)
			r.Put("/items/{productId}", h.UpdateCartItem)
			r.Delete("/items/{productId}", h.RemoveCartItem)
		})

		r.Post("/checkout", h.Checkout)
		r.Get("/notifications", h.Notifications)

		r.Route("/admin", func(r chi.Router) {
			r.With(limiter.middleware).Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Get("/session", h.Session)

			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)
				r.Post("/products", h.CreateProduct)
				r.Put("/products/{productId}", h.UpdateProduct)
				r.Delete("/products/{productId}", h.DeleteProduct)
				r.Post("/products/{productId}/image", h.UploadProductImage)
			})
		})
	})

	return r
}
