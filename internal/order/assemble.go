// Package order turns a checkout context and the customer's form into an
// immutable receipt.
package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/YusovID/storefront/internal/models"
	"github.com/YusovID/storefront/internal/pricing"
)

const (
	orderIDPrefix       = "ORD-"
	transactionIDPrefix = "TXN-"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrEmptyCart       = errors.New("cart is empty")
)

// Source is what is being bought: BuyNow or CartCheckout.
type Source interface {
	subtotal() float64
	fill(o *models.OrderData)
	validate() error
}

// BuyNow orders a single product straight from its page.
type BuyNow struct {
	Product  models.Product
	Quantity int
}

// CartCheckout orders everything in a cart snapshot.
type CartCheckout struct {
	Cart models.CartState
}

func (b BuyNow) subtotal() float64 {
	return b.Product.Price * float64(b.Quantity)
}

func (b BuyNow) validate() error {
	if b.Quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, b.Quantity)
	}

	return nil
}

func (b BuyNow) fill(o *models.OrderData) {
	product := b.Product
	if b.Product.OriginalPrice != nil {
		original := *b.Product.OriginalPrice
		product.OriginalPrice = &original
	}

	o.Product = &product
	o.Quantity = b.Quantity
	o.IsCartOrder = false
}

func (c CartCheckout) subtotal() float64 {
	return c.Cart.Total
}

func (c CartCheckout) validate() error {
	if len(c.Cart.Items) == 0 {
		return ErrEmptyCart
	}

	return nil
}

func (c CartCheckout) fill(o *models.OrderData) {
	o.Items = c.Cart.Clone().Items
	o.IsCartOrder = true
}

// Assembler stamps IDs and dates on orders and prices them with Policy.
type Assembler struct {
	Policy pricing.Policy
	Now    func() time.Time
	NewID  func() string
}

func NewAssembler(policy pricing.Policy) *Assembler {
	return &Assembler{
		Policy: policy,
		Now:    time.Now,
		NewID:  uuid.NewString,
	}
}

// Assemble builds the receipt for source. The result shares no memory with
// source, so later cart changes do not reach it.
func (a *Assembler) Assemble(source Source, customer models.CustomerInfo) (models.OrderData, error) {
	const fn = "order.Assembler.Assemble"

	if source == nil {
		return models.OrderData{}, fmt.Errorf("%s: no order source", fn)
	}

	if err := source.validate(); err != nil {
		return models.OrderData{}, fmt.Errorf("%s: %w", fn, err)
	}

	totals, err := a.Policy.Totals(source.subtotal())
	if err != nil {
		return models.OrderData{}, fmt.Errorf("%s: can't calculate totals: %w", fn, err)
	}

	order := models.OrderData{
		OrderID:       orderIDPrefix + a.NewID(),
		TransactionID: transactionIDPrefix + a.NewID(),
		CustomerInfo:  customer,
		OrderDate:     a.Now().UTC(),
		OrderTotals:   totals,
	}

	source.fill(&order)

	return order, nil
}
