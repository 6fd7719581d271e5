// Package checkout places orders: it snapshots a session cart or loads a
// single product, assembles the receipt, publishes the order event and
// caches the receipt for the confirmation page.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/YusovID/storefront/internal/cart"
	"github.com/YusovID/storefront/internal/metrics"
	"github.com/YusovID/storefront/internal/models"
	"github.com/YusovID/storefront/internal/order"
	"github.com/YusovID/storefront/internal/storage"
	"github.com/YusovID/storefront/lib/logger/sl"
)

type ProductGetter interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type Publisher interface {
	PublishOrder(ctx context.Context, order *models.OrderData) error
}

type OrderSaver interface {
	SaveOrder(ctx context.Context, order *models.OrderData) error
}

type OrderGetter interface {
	GetOrder(ctx context.Context, orderID string) (*models.OrderData, error)
}

type Cache interface {
	OrderSaver
	OrderGetter
}

type Options struct {
	// ClearCart empties the session cart once a cart order is published.
	ClearCart bool
}

type Service struct {
	sessions  *cart.Sessions
	products  ProductGetter
	assembler *order.Assembler
	publisher Publisher
	cache     Cache
	orders    OrderGetter
	opts      Options
	log       *slog.Logger
}

func New(
	sessions *cart.Sessions,
	products ProductGetter,
	assembler *order.Assembler,
	publisher Publisher,
	cache Cache,
	orders OrderGetter,
	opts Options,
	log *slog.Logger,
) *Service {
	return &Service{
		sessions:  sessions,
		products:  products,
		assembler: assembler,
		publisher: publisher,
		cache:     cache,
		orders:    orders,
		opts:      opts,
		log:       log,
	}
}

// CheckoutCart places an order for everything in the session cart. The
// cart is left untouched if the order can't be published.
func (s *Service) CheckoutCart(ctx context.Context, sessionID string, customer models.CustomerInfo) (*models.OrderData, error) {
	const fn = "checkout.CheckoutCart"

	store, ok := s.sessions.Lookup(sessionID)
	if !ok {
		metrics.RecordOrder(true, false, 0)
		return nil, order.ErrEmptyCart
	}

	var placed *models.OrderData

	err := store.Checkout(func(snapshot models.CartState) error {
		var err error
		placed, err = s.place(ctx, order.CartCheckout{Cart: snapshot}, customer)
		return err
	}, s.opts.ClearCart)
	if err != nil {
		metrics.RecordOrder(true, false, 0)
		return nil, fmt.Errorf("%s: %w", fn, err)
	}

	if s.opts.ClearCart {
		metrics.RecordCartOperation(cart.ClearCart{}.Kind())
	}

	metrics.RecordOrder(true, true, placed.GrandTotal)

	return placed, nil
}

// BuyNow places an order for quantity units of one product. The session
// cart is not involved.
func (s *Service) BuyNow(ctx context.Context, productID int64, quantity int, customer models.CustomerInfo) (*models.OrderData, error) {
	const fn = "checkout.BuyNow"

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		metrics.RecordOrder(false, false, 0)
		return nil, fmt.Errorf("%s: %w", fn, err)
	}

	placed, err := s.place(ctx, order.BuyNow{Product: *product, Quantity: quantity}, customer)
	if err != nil {
		metrics.RecordOrder(false, false, 0)
		return nil, fmt.Errorf("%s: %w", fn, err)
	}

	metrics.RecordOrder(false, true, placed.GrandTotal)

	return placed, nil
}

func (s *Service) place(ctx context.Context, source order.Source, customer models.CustomerInfo) (*models.OrderData, error) {
	placed, err := s.assembler.Assemble(source, customer.Redacted())
	if err != nil {
		return nil, err
	}

	log := s.log.With(
		slog.String("order_id", placed.OrderID),
		slog.Bool("cart_order", placed.IsCartOrder),
	)

	if err := s.publisher.PublishOrder(ctx, &placed); err != nil {
		return nil, fmt.Errorf("can't publish order: %w", err)
	}

	// the receipt is also readable from storage once the event is processed
	if err := s.cache.SaveOrder(ctx, &placed); err != nil {
		log.Warn("failed to cache order", sl.Err(err))
	}

	log.Info("order placed", slog.Float64("grand_total", placed.GrandTotal))

	return &placed, nil
}

// Order returns a receipt from the cache, falling back to storage.
func (s *Service) Order(ctx context.Context, orderID string) (*models.OrderData, error) {
	const fn = "checkout.Order"

	placed, err := s.cache.GetOrder(ctx, orderID)
	if err == nil {
		return placed, nil
	}

	if !errors.Is(err, storage.ErrNoOrder) {
		s.log.Warn("order cache unavailable", slog.String("fn", fn), sl.Err(err))
	}

	placed, err = s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}

	return placed, nil
}
