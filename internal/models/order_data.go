package models

import (
	"strings"
	"time"
)

// OrderData is a receipt. Exactly one of Product/Quantity or Items is set,
// IsCartOrder tells which. It is never mutated after assembly.
type OrderData struct {
	OrderID       string       `json:"orderId"`
	TransactionID string       `json:"transactionId"`
	IsCartOrder   bool         `json:"isCartOrder"`
	Product       *Product     `json:"product,omitempty"`
	Quantity      int          `json:"quantity,omitempty"`
	Items         []CartItem   `json:"items,omitempty"`
	CustomerInfo  CustomerInfo `json:"customerInfo"`
	OrderDate     time.Time    `json:"orderDate"`

	OrderTotals
}

// OrderTotals is derived from a subtotal by the pricing policy.
type OrderTotals struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	Shipping   float64 `json:"shipping"`
	GrandTotal float64 `json:"grandTotal"`
}

// CustomerInfo is the checkout form: shipping, contact and payment details.
type CustomerInfo struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	ZipCode    string `json:"zipCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
	CardNumber string `json:"cardNumber" validate:"required"`
	ExpiryDate string `json:"expiryDate" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
	CardName   string `json:"cardName" validate:"required"`
}

// Redacted returns a copy with the card number reduced to its digits, all
// but the last four masked, and the CVV dropped. Receipts leave the
// process only in this form.
func (c CustomerInfo) Redacted() CustomerInfo {
	const visible = 4

	digits := make([]byte, 0, len(c.CardNumber))
	for _, r := range c.CardNumber {
		if r >= '0' && r <= '9' {
			digits = append(digits, byte(r))
		}
	}

	if n := len(digits); n > visible {
		c.CardNumber = strings.Repeat("*", n-visible) + string(digits[n-visible:])
	} else {
		c.CardNumber = string(digits)
	}

	c.CVV = ""

	return c
}
