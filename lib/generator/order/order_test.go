package orderGen

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YusovID/storefront/internal/cart"
	"github.com/YusovID/storefront/internal/order"
	"github.com/YusovID/storefront/internal/pricing"
)

func TestCustomerPassesFormValidation(t *testing.T) {
	v := validator.New()

	for range 20 {
		assert.NoError(t, v.Struct(Customer()))
	}
}

func TestCatalog(t *testing.T) {
	products := Catalog(10)
	require.Len(t, products, 10)

	for i, p := range products {
		assert.Equal(t, int64(i+1), p.ID)
		assert.Greater(t, p.Price, 0.0)
		if p.OriginalPrice != nil {
			assert.Greater(t, *p.OriginalPrice, p.Price)
		}
	}
}

func TestCartIsConsistent(t *testing.T) {
	products := Catalog(3)

	for range 20 {
		state := Cart(products)

		assert.NotEmpty(t, state.Items)
		assert.InDelta(t, cart.Total(state.Items), state.Total, 1e-9)
	}

	assert.Empty(t, Cart(nil).Items)
}

func TestSourceAssembles(t *testing.T) {
	products := Catalog(5)
	a := order.NewAssembler(pricing.DefaultPolicy())

	for range 20 {
		_, err := a.Assemble(Source(products), Customer())
		require.NoError(t, err)
	}
}
