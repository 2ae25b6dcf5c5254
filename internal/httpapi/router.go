package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	Cart           *CartHandler
	Orders         *OrderHandler
	Wellness       *WellnessHandler
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter wires the API the storefront frontend consumes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.Compress(5))
	r.Use(CORSMiddleware(cfg.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Post("/", cfg.Cart.AddItem)
			r.Get("/{sessionID}", cfg.Cart.GetCart)
			r.Delete("/{sessionID}", cfg.Cart.ClearCart)
			r.Put("/{sessionID}/item/{productID}", cfg.Cart.UpdateQuantity)
			r.Delete("/{sessionID}/item/{productID}", cfg.Cart.RemoveItem)
		})

		r.Post("/create-order", cfg.Orders.CreateOrder)
		r.Post("/verify-payment", cfg.Orders.VerifyPayment)

		r.Get("/services", cfg.Wellness.ListServices)
		r.Post("/contact", cfg.Wellness.CreateInquiry)
		r.Get("/contact", cfg.Wellness.ListInquiries)
	})

	return otelhttp.NewHandler(r, "mystic-prana-api")
}
