// Package orders places orders and serves receipts.
package orders

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/YusovID/storefront/internal/invoice"
	"github.com/YusovID/storefront/internal/models"
	"github.com/YusovID/storefront/internal/order"
	"github.com/YusovID/storefront/internal/pricing"
	"github.com/YusovID/storefront/internal/storage"
	"github.com/YusovID/storefront/lib/api/request"
	resp "github.com/YusovID/storefront/lib/api/response"
	"github.com/YusovID/storefront/lib/logger/sl"
)

type Placer interface {
	CheckoutCart(ctx context.Context, sessionID string, customer models.CustomerInfo) (*models.OrderData, error)
	BuyNow(ctx context.Context, productID int64, quantity int, customer models.CustomerInfo) (*models.OrderData, error)
}

type OrderGetter interface {
	Order(ctx context.Context, orderID string) (*models.OrderData, error)
}

type CheckoutRequest struct {
	Customer models.CustomerInfo `json:"customer"`
}

type BuyNowRequest struct {
	ProductID int64               `json:"productId" validate:"required,gt=0"`
	Quantity  int                 `json:"quantity" validate:"gte=1"`
	Customer  models.CustomerInfo `json:"customer"`
}

// Receipt is the confirmation page payload.
type Receipt struct {
	resp.Response
	Order   *models.OrderData `json:"order"`
	Invoice invoice.Invoice   `json:"invoice"`
}

func receipt(o *models.OrderData) Receipt {
	return Receipt{
		Response: resp.OK(),
		Order:    o,
		Invoice:  invoice.Build(*o, invoice.DefaultSeller),
	}
}

func scoped(log *slog.Logger, fn string, r *http.Request) *slog.Logger {
	return log.With(
		slog.String("fn", fn),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// placeFailed maps checkout errors to statuses. Anything unexpected is a
// 500 and is logged.
func placeFailed(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var (
		status = http.StatusInternalServerError
		msg    = "failed to place order"
	)

	switch {
	case errors.Is(err, order.ErrEmptyCart):
		status, msg = http.StatusConflict, "cart is empty"
	case errors.Is(err, order.ErrInvalidQuantity):
		status, msg = http.StatusBadRequest, "quantity must be at least 1"
	case errors.Is(err, storage.ErrNoProduct):
		status, msg = http.StatusNotFound, "product not found"
	case errors.Is(err, pricing.ErrInvalidSubtotal):
		status, msg = http.StatusUnprocessableEntity, "order total is invalid"
	default:
		log.Error("failed to place order", sl.Err(err))
	}

	if status != http.StatusInternalServerError {
		log.Info("order rejected", sl.Err(err))
	}

	render.Status(r, status)
	render.JSON(w, r, resp.Error(msg))
}

func Checkout(log *slog.Logger, placer Placer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := scoped(log, "handlers.orders.Checkout", r)

		sessionID, ok := request.SessionID(w, r)
		if !ok {
			return
		}

		var req CheckoutRequest
		if !request.Decode(w, r, log, &req) {
			return
		}

		placed, err := placer.CheckoutCart(r.Context(), sessionID, req.Customer)
		if err != nil {
			placeFailed(w, r, log, err)

			return
		}

		log.Info("cart checked out", slog.String("order_id", placed.OrderID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, receipt(placed))
	}
}

func BuyNow(log *slog.Logger, placer Placer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := scoped(log, "handlers.orders.BuyNow", r)

		var req BuyNowRequest
		if !request.Decode(w, r, log, &req) {
			return
		}

		placed, err := placer.BuyNow(r.Context(), req.ProductID, req.Quantity, req.Customer)
		if err != nil {
			placeFailed(w, r, log, err)

			return
		}

		log.Info("bought now", slog.String("order_id", placed.OrderID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, receipt(placed))
	}
}

func Get(log *slog.Logger, orders OrderGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := scoped(log, "handlers.orders.Get", r)

		orderID := chi.URLParam(r, "orderID")

		placed, err := orders.Order(r.Context(), orderID)
		if errors.Is(err, storage.ErrNoOrder) {
			log.Info("order not found", slog.String("order_id", orderID))

			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Error("order not found"))

			return
		}
		if errors.Is(err, storage.ErrEmptyOrder) {
			log.Warn("empty order", slog.String("order_id", orderID))

			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Error("empty order"))

			return
		}
		if err != nil {
			log.Error("failed to get order", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to get order"))

			return
		}

		render.JSON(w, r, receipt(placed))
	}
}
