// Package invoice turns a receipt into the display-ready invoice shown on
// the confirmation page: formatted amounts, one line per product and the
// seller's details. Rendering it to a document is left to the client.
package invoice

import (
	"github.com/YusovID/storefront/internal/models"
	"github.com/YusovID/storefront/lib/money"
)

const freeShipping = "FREE"

// Seller is printed in the invoice header.
type Seller struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

var DefaultSeller = Seller{
	Name:    "ShopNext",
	Address: "123 Commerce Street",
	City:    "New York",
	State:   "NY",
	ZipCode: "10001",
	Phone:   "1-800-SHOP-NEXT",
	Email:   "support@shopnext.com",
}

type Line struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Amount    string `json:"amount"`
}

type Invoice struct {
	Number        string  `json:"number"`
	TransactionID string  `json:"transactionId"`
	Date          string  `json:"date"`
	Seller        Seller  `json:"seller"`
	BillTo        string  `json:"billTo"`
	Email         string  `json:"email"`
	ShipTo        string  `json:"shipTo"`
	PaidWith      string  `json:"paidWith"`
	Lines         []Line  `json:"lines"`
	Subtotal      string  `json:"subtotal"`
	Tax           string  `json:"tax"`
	Shipping      string  `json:"shipping"`
	GrandTotal    string  `json:"grandTotal"`
	FileName      string  `json:"fileName"`
	Amount        float64 `json:"amount"`
}

// Build lays out o for display. Amounts are rounded to cents here and
// nowhere else.
func Build(o models.OrderData, seller Seller) Invoice {
	c := o.CustomerInfo

	inv := Invoice{
		Number:        o.OrderID,
		TransactionID: o.TransactionID,
		Date:          o.OrderDate.Format("January 2, 2006 at 03:04 PM"),
		Seller:        seller,
		BillTo:        c.FirstName + " " + c.LastName,
		Email:         c.Email,
		ShipTo:        c.Address + ", " + c.City + ", " + c.State + " " + c.ZipCode + ", " + c.Country,
		PaidWith:      c.CardNumber,
		Lines:         lines(o),
		Subtotal:      money.Format(o.Subtotal),
		Tax:           money.Format(o.Tax),
		Shipping:      freeShipping,
		GrandTotal:    money.Format(o.GrandTotal),
		FileName:      "Invoice-" + o.OrderID + ".pdf",
		Amount:        money.Cents(o.GrandTotal).InexactFloat64(),
	}

	if o.Shipping > 0 {
		inv.Shipping = money.Format(o.Shipping)
	}

	return inv
}

func lines(o models.OrderData) []Line {
	if !o.IsCartOrder {
		if o.Product == nil {
			return nil
		}

		return []Line{line(o.Product.ID, o.Product.Name, o.Product.Price, o.Quantity)}
	}

	out := make([]Line, 0, len(o.Items))
	for _, item := range o.Items {
		out = append(out, line(item.ID, item.Name, item.Price, item.Quantity))
	}

	return out
}

func line(id int64, name string, price float64, quantity int) Line {
	return Line{
		ProductID: id,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: money.Format(price),
		Amount:    money.Format(price * float64(quantity)),
	}
}
