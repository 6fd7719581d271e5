// Package router wires the storefront HTTP API.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/YusovID/storefront/internal/cart"
	"github.com/YusovID/storefront/internal/http-server/handlers/carts"
	"github.com/YusovID/storefront/internal/http-server/handlers/orders"
	"github.com/YusovID/storefront/internal/http-server/handlers/products"
	mwLogger "github.com/YusovID/storefront/internal/http-server/middleware/logger"
	mwMetrics "github.com/YusovID/storefront/internal/http-server/middleware/metrics"
)

type Checkout interface {
	orders.Placer
	orders.OrderGetter
}

type Deps struct {
	Sessions *cart.Sessions
	Catalog  products.Catalog
	Checkout Checkout
}

func New(log *slog.Logger, deps Deps) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mwLogger.New(log))
	router.Use(mwMetrics.New())
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "ok")
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/products", func(r chi.Router) {
		r.Get("/", products.List(log, deps.Catalog))
		r.Get("/{id}", products.Get(log, deps.Catalog))
	})

	router.Route("/carts/{sessionID}", func(r chi.Router) {
		r.Get("/", carts.Get(deps.Sessions))
		r.Delete("/", carts.Clear(log, deps.Sessions))
		r.Post("/items", carts.AddItem(log, deps.Sessions, deps.Catalog))
		r.Put("/items/{id}", carts.UpdateItem(log, deps.Sessions))
		r.Delete("/items/{id}", carts.RemoveItem(log, deps.Sessions))
		r.Post("/checkout", orders.Checkout(log, deps.Checkout))
	})

	router.Post("/checkout/buy-now", orders.BuyNow(log, deps.Checkout))
	router.Get("/orders/{orderID}", orders.Get(log, deps.Checkout))

	return router
}
