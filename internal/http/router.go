package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	JWTSecret      string
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

func NewRouter(cfg RouterConfig, cartHandler *CartHandler, orderHandler *OrderHandler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Group(func(r chi.Router) {
			r.Use(WaiterMiddleware(cfg.JWTSecret))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Delete("/items/{variant_id}", cartHandler.RemoveItem)
				r.Post("/items/{variant_id}/increase", cartHandler.IncreaseQty)
				r.Post("/items/{variant_id}/decrease", cartHandler.DecreaseQty)
				r.Put("/items/{variant_id}/note", cartHandler.UpdateNote)
			})

			r.Get("/discounts", orderHandler.ListDiscounts)

			r.Route("/order", func(r chi.Router) {
				r.Get("/summary", orderHandler.GetSummary)
				r.Put("/discount", orderHandler.SelectDiscount)
				r.Delete("/discount", orderHandler.ClearDiscount)
				r.Put("/customer", orderHandler.SetCustomer)
				r.Put("/type", orderHandler.SetOrderType)
				r.Post("/checkout", orderHandler.Checkout)
				r.Post("/reset", orderHandler.Reset)
			})
		})
	})

	return otelhttp.NewHandler(r, "pos-terminal")
}
