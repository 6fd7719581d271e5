// Package orderGen produces random but well-formed checkout input: catalog
// products, customer forms and carts. The order generator uses it to push
// realistic load through the real assembly path. Fake data comes from
// gofakeit.
package orderGen

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/YusovID/storefront/internal/cart"
	"github.com/YusovID/storefront/internal/models"
	"github.com/YusovID/storefront/internal/order"
)

var (
	categories = []string{"Electronics", "Fashion", "Home", "Sports"}
	badges     = []string{"", "", "Best Seller", "New", "Sale"}
)

// Product returns a random catalog entry with the given id. About half of
// the products carry a list price above the sale price.
func Product(id int64) models.Product {
	price := gofakeit.Price(5, 400)

	p := models.Product{
		ID:       id,
		Name:     gofakeit.ProductName(),
		Price:    price,
		Image:    fmt.Sprintf("https://picsum.photos/seed/%d/600/600", id),
		Rating:   float64(gofakeit.Number(30, 50)) / 10,
		Reviews:  gofakeit.Number(0, 1000),
		Category: gofakeit.RandomString(categories),
		Brand:    gofakeit.Company(),
		Badge:    gofakeit.RandomString(badges),
	}

	if gofakeit.Bool() {
		original := price + gofakeit.Price(1, 100)
		p.OriginalPrice = &original
	}

	return p
}

// Catalog returns n products with ids 1..n.
func Catalog(n int) []models.Product {
	products := make([]models.Product, n)
	for i := range products {
		products[i] = Product(int64(i + 1))
	}

	return products
}

// Customer returns a fully populated checkout form.
func Customer() models.CustomerInfo {
	person := gofakeit.Person()
	address := gofakeit.Address()
	card := gofakeit.CreditCard()

	return models.CustomerInfo{
		FirstName:  person.FirstName,
		LastName:   person.LastName,
		Email:      gofakeit.Email(),
		Phone:      gofakeit.Phone(),
		Address:    address.Street,
		City:       address.City,
		State:      address.State,
		ZipCode:    address.Zip,
		Country:    address.Country,
		CardNumber: card.Number,
		ExpiryDate: card.Exp,
		CVV:        card.Cvv,
		CardName:   person.FirstName + " " + person.LastName,
	}
}

// Cart fills a cart from products the way a shopper would: between one and
// five add-to-cart clicks, with repeats.
func Cart(products []models.Product) models.CartState {
	state := models.CartState{}
	if len(products) == 0 {
		return state
	}

	clicks := gofakeit.Number(1, 5)
	for range clicks {
		p := products[gofakeit.Number(0, len(products)-1)]
		state = cart.Reduce(state, cart.AddProduct(p))
	}

	return state
}

// Source picks either a buy-now or a cart checkout over products.
func Source(products []models.Product) order.Source {
	if len(products) > 0 && gofakeit.Number(0, 3) == 0 {
		return order.BuyNow{
			Product:  products[gofakeit.Number(0, len(products)-1)],
			Quantity: gofakeit.Number(1, 3),
		}
	}

	return order.CartCheckout{Cart: Cart(products)}
}
