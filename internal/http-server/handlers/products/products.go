// Package products serves the catalog: filtered listing and product pages.
package products

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/YusovID/storefront/internal/catalog"
	"github.com/YusovID/storefront/internal/models"
	"github.com/YusovID/storefront/internal/pricing"
	"github.com/YusovID/storefront/internal/storage"
	"github.com/YusovID/storefront/lib/api/request"
	resp "github.com/YusovID/storefront/lib/api/response"
	"github.com/YusovID/storefront/lib/logger/sl"
)

type Catalog interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, f catalog.Filter) ([]models.Product, error)
}

// Product is a catalog entry with its discount badge precomputed.
type Product struct {
	models.Product
	Discount int `json:"discount,omitempty"`
}

type ListResponse struct {
	resp.Response
	Products []Product `json:"products"`
	Count    int       `json:"count"`
}

type GetResponse struct {
	resp.Response
	Product Product `json:"product"`
}

func view(p models.Product) Product {
	return Product{Product: p, Discount: pricing.ProductDiscount(p)}
}

func List(log *slog.Logger, products Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const fn = "handlers.products.List"

		log := log.With(
			slog.String("fn", fn),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		filter, err := catalog.FromQuery(r.URL.Query())
		if err != nil {
			log.Info("invalid filter", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error(err.Error()))

			return
		}

		if !request.Validate(w, r, log, filter) {
			return
		}

		found, err := products.ListProducts(r.Context(), filter)
		if err != nil {
			log.Error("failed to list products", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to list products"))

			return
		}

		out := make([]Product, 0, len(found))
		for _, p := range found {
			out = append(out, view(p))
		}

		render.JSON(w, r, ListResponse{
			Response: resp.OK(),
			Products: out,
			Count:    len(out),
		})
	}
}

func Get(log *slog.Logger, products Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const fn = "handlers.products.Get"

		log := log.With(
			slog.String("fn", fn),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid product id"))

			return
		}

		product, err := products.GetProduct(r.Context(), id)
		if errors.Is(err, storage.ErrNoProduct) {
			log.Info("product not found", slog.Int64("product_id", id))

			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Error("product not found"))

			return
		}
		if err != nil {
			log.Error("failed to get product", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to get product"))

			return
		}

		render.JSON(w, r, GetResponse{
			Response: resp.OK(),
			Product:  view(*product),
		})
	}
}
