// Package pricing derives tax, shipping and grand total from a subtotal and
// computes list-price discounts. All functions are pure.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/YusovID/storefront/internal/models"
)

const (
	DefaultTaxRate               = 0.08
	DefaultFreeShippingThreshold = 50
	DefaultShippingCost          = 9.99
)

var (
	ErrInvalidSubtotal = errors.New("subtotal must be a finite non-negative number")
	ErrInvalidPolicy   = errors.New("invalid pricing policy")
)

// Policy is the flat tax and shipping policy applied to every order.
type Policy struct {
	TaxRate               float64
	FreeShippingThreshold float64
	ShippingCost          float64
}

func DefaultPolicy() Policy {
	return Policy{
		TaxRate:               DefaultTaxRate,
		FreeShippingThreshold: DefaultFreeShippingThreshold,
		ShippingCost:          DefaultShippingCost,
	}
}

// Validate reports whether every field of p is finite and non-negative.
func (p Policy) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"tax rate", p.TaxRate},
		{"free shipping threshold", p.FreeShippingThreshold},
		{"shipping cost", p.ShippingCost},
	}

	for _, f := range fields {
		if !isValidAmount(f.value) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidPolicy, f.name, f.value)
		}
	}

	return nil
}

// Totals applies p to subtotal. Tax is not rounded here; rounding is a
// display concern. Shipping is waived only when subtotal is strictly
// greater than the threshold.
func (p Policy) Totals(subtotal float64) (models.OrderTotals, error) {
	if !isValidAmount(subtotal) {
		return models.OrderTotals{}, fmt.Errorf("%w: got %v", ErrInvalidSubtotal, subtotal)
	}

	tax := subtotal * p.TaxRate

	shipping := p.ShippingCost
	if subtotal > p.FreeShippingThreshold {
		shipping = 0
	}

	return models.OrderTotals{
		Subtotal:   subtotal,
		Tax:        tax,
		Shipping:   shipping,
		GrandTotal: subtotal + tax + shipping,
	}, nil
}

// CalculateOrderTotals is Totals under DefaultPolicy.
func CalculateOrderTotals(subtotal float64) (models.OrderTotals, error) {
	return DefaultPolicy().Totals(subtotal)
}

// DiscountPercent returns the whole-number discount of currentPrice against
// originalPrice. Missing, zero or non-discounting list prices give 0.
func DiscountPercent(originalPrice, currentPrice float64) int {
	if !(originalPrice > 0) || math.IsInf(originalPrice, 0) || math.IsNaN(currentPrice) {
		return 0
	}
	if originalPrice <= currentPrice {
		return 0
	}

	percent := math.Round((originalPrice - currentPrice) / originalPrice * 100)

	return int(min(percent, 100))
}

// ProductDiscount is DiscountPercent for a catalog entry.
func ProductDiscount(p models.Product) int {
	return DiscountPercent(p.ListPrice(), p.Price)
}

func isValidAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
