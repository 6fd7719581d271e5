// Package carts exposes the session carts: every mutating endpoint maps to
// exactly one cart action and answers with the resulting cart.
package carts

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/YusovID/storefront/internal/cart"
	"github.com/YusovID/storefront/internal/metrics"
	"github.com/YusovID/storefront/internal/models"
	"github.com/YusovID/storefront/internal/storage"
	"github.com/YusovID/storefront/lib/api/request"
	resp "github.com/YusovID/storefront/lib/api/response"
	"github.com/YusovID/storefront/lib/logger/sl"
)

type ProductGetter interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type AddRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

type UpdateRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type Response struct {
	resp.Response
	Items     []models.CartItem `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"itemCount"`
}

func response(state models.CartState) Response {
	items := state.Items
	if items == nil {
		items = []models.CartItem{}
	}

	return Response{
		Response:  resp.OK(),
		Items:     items,
		Total:     state.Total,
		ItemCount: state.ItemCount(),
	}
}

func scoped(log *slog.Logger, fn string, r *http.Request) *slog.Logger {
	return log.With(
		slog.String("fn", fn),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("session_id", chi.URLParam(r, "sessionID")),
	)
}

func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Error("invalid item id"))

		return 0, false
	}

	return id, true
}

// dispatch applies action to an existing cart only. A session without a
// cart has nothing to remove, update or clear.
func dispatch(sessions *cart.Sessions, id string, action cart.Action) models.CartState {
	store, ok := sessions.Lookup(id)
	if !ok {
		return models.CartState{}
	}

	metrics.RecordCartOperation(action.Kind())

	return store.Dispatch(action)
}

func Get(sessions *cart.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.SessionID(w, r)
		if !ok {
			return
		}

		var state models.CartState
		if store, ok := sessions.Lookup(id); ok {
			state = store.Snapshot()
		}

		render.JSON(w, r, response(state))
	}
}

func AddItem(log *slog.Logger, sessions *cart.Sessions, products ProductGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := scoped(log, "handlers.carts.AddItem", r)

		id, ok := request.SessionID(w, r)
		if !ok {
			return
		}

		var req AddRequest
		if !request.Decode(w, r, log, &req) {
			return
		}

		product, err := products.GetProduct(r.Context(), req.ProductID)
		if errors.Is(err, storage.ErrNoProduct) {
			log.Info("product not found", slog.Int64("product_id", req.ProductID))

			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Error("product not found"))

			return
		}
		if err != nil {
			log.Error("failed to get product", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to add item"))

			return
		}

		action := cart.AddProduct(*product)
		state := sessions.Get(id).Dispatch(action)
		metrics.RecordCartOperation(action.Kind())

		log.Debug("item added", slog.Int64("product_id", product.ID), slog.Int("item_count", state.ItemCount()))

		render.JSON(w, r, response(state))
	}
}

func UpdateItem(log *slog.Logger, sessions *cart.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := scoped(log, "handlers.carts.UpdateItem", r)

		id, ok := request.SessionID(w, r)
		if !ok {
			return
		}

		productID, ok := itemID(w, r)
		if !ok {
			return
		}

		var req UpdateRequest
		if !request.Decode(w, r, log, &req) {
			return
		}

		state := dispatch(sessions, id, cart.UpdateQuantity{ID: productID, Quantity: *req.Quantity})

		render.JSON(w, r, response(state))
	}
}

func RemoveItem(log *slog.Logger, sessions *cart.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.SessionID(w, r)
		if !ok {
			return
		}

		productID, ok := itemID(w, r)
		if !ok {
			return
		}

		state := dispatch(sessions, id, cart.RemoveItem{ID: productID})

		scoped(log, "handlers.carts.RemoveItem", r).Debug("item removed", slog.Int64("product_id", productID))

		render.JSON(w, r, response(state))
	}
}

func Clear(log *slog.Logger, sessions *cart.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.SessionID(w, r)
		if !ok {
			return
		}

		state := dispatch(sessions, id, cart.ClearCart{})

		scoped(log, "handlers.carts.Clear", r).Debug("cart cleared")

		render.JSON(w, r, response(state))
	}
}
