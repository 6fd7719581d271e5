package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YusovID/storefront/internal/cart"
	"github.com/YusovID/storefront/internal/catalog"
	"github.com/YusovID/storefront/internal/checkout"
	"github.com/YusovID/storefront/internal/models"
	"github.com/YusovID/storefront/internal/order"
	"github.com/YusovID/storefront/internal/pricing"
	"github.com/YusovID/storefront/internal/storage"
	"github.com/YusovID/storefront/lib/api/request"
	"github.com/YusovID/storefront/lib/logger/handlers/slogdiscard"
)

type memCatalog []models.Product

func (c memCatalog) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	for _, p := range c {
		if p.ID == id {
			return &p, nil
		}
	}

	return nil, storage.ErrNoProduct
}

func (c memCatalog) ListProducts(_ context.Context, f catalog.Filter) ([]models.Product, error) {
	var out []models.Product
	for _, p := range c {
		if f.HasCategory() && p.Category != f.Category {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}

type memOrders struct {
	mu     sync.Mutex
	orders map[string]*models.OrderData
}

func (m *memOrders) PublishOrder(ctx context.Context, o *models.OrderData) error {
	return m.SaveOrder(ctx, o)
}

func (m *memOrders) SaveOrder(_ context.Context, o *models.OrderData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.orders[o.OrderID] = o

	return nil
}

func (m *memOrders) GetOrder(_ context.Context, id string) (*models.OrderData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, storage.ErrNoOrder
	}

	return o, nil
}

var headphonesWas = 199.99

var catalogFixture = memCatalog{
	{ID: 1, Name: "Headphones", Price: 29.99, OriginalPrice: &headphonesWas, Category: "Electronics"},
	{ID: 2, Name: "Watch", Price: 90, Category: "Accessories"},
}

var customer = map[string]string{
	"firstName":  "Jane",
	"lastName":   "Doe",
	"email":      "jane@example.com",
	"phone":      "555-0100",
	"address":    "1 Main St",
	"city":       "Springfield",
	"state":      "IL",
	"zipCode":    "62701",
	"country":    "US",
	"cardNumber": "4111111111111111",
	"expiryDate": "12/30",
	"cvv":        "123",
	"cardName":   "Jane Doe",
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := slogdiscard.NewDiscardLogger()
	sessions := cart.NewSessions()
	orders := &memOrders{orders: make(map[string]*models.OrderData)}

	svc := checkout.New(
		sessions,
		catalogFixture,
		order.NewAssembler(pricing.DefaultPolicy()),
		orders,
		orders,
		orders,
		checkout.Options{ClearCart: true},
		log,
	)

	srv := httptest.NewServer(New(log, Deps{
		Sessions: sessions,
		Catalog:  catalogFixture,
		Checkout: svc,
	}))
	t.Cleanup(srv.Close)

	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req, err := http.NewRequest(method, srv.URL+path, &payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}

	return res.StatusCode
}

type cartBody struct {
	Status    string            `json:"status"`
	Items     []models.CartItem `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"itemCount"`
}

type receiptBody struct {
	Status  string           `json:"status"`
	Error   string           `json:"error"`
	Order   models.OrderData `json:"order"`
	Invoice struct {
		GrandTotal string `json:"grandTotal"`
		Shipping   string `json:"shipping"`
		PaidWith   string `json:"paidWith"`
	} `json:"invoice"`
}

func TestListProducts(t *testing.T) {
	srv := newServer(t)

	var body struct {
		Products []struct {
			ID       int64 `json:"id"`
			Discount int   `json:"discount"`
		} `json:"products"`
		Count int `json:"count"`
	}

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/products?category=Electronics", nil, &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, int64(1), body.Products[0].ID)
	assert.Equal(t, 85, body.Products[0].Discount)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/products?sort=cheapest", nil, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/products?min_rating=6", nil, nil))
}

func TestGetProduct(t *testing.T) {
	srv := newServer(t)

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/products/2", nil, nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/products/42", nil, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/products/abc", nil, nil))
}

func TestCartFlow(t *testing.T) {
	srv := newServer(t)

	var c cartBody

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/carts/s1", nil, &c))
	assert.NotNil(t, c.Items)
	assert.Empty(t, c.Items)

	for _, id := range []int64{1, 1, 2} {
		require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/carts/s1/items", map[string]int64{"productId": id}, &c))
	}
	assert.Equal(t, 3, c.ItemCount)
	assert.InDelta(t, 149.98, c.Total, 1e-9)

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPut, "/carts/s1/items/1", map[string]int{"quantity": 5}, &c))
	assert.Equal(t, 6, c.ItemCount)

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPut, "/carts/s1/items/2", map[string]int{"quantity": 0}, &c))
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(1), c.Items[0].ID)

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodDelete, "/carts/s1/items/1", nil, &c))
	assert.Empty(t, c.Items)
	assert.Zero(t, c.Total)

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/carts/s1/items", map[string]int64{"productId": 2}, &c))
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodDelete, "/carts/s1", nil, &c))
	assert.Empty(t, c.Items)
}

func TestCartRejectsBadInput(t *testing.T) {
	srv := newServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPost, "/carts/s1/items", map[string]int64{"productId": 42}, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/carts/s1/items", map[string]int64{}, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPut, "/carts/s1/items/1", map[string]int{}, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodDelete, "/carts/s1/items/x", nil, nil))
}

func TestCheckoutAndReceipt(t *testing.T) {
	srv := newServer(t)

	for _, id := range []int64{1, 1, 2} {
		require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/carts/s1/items", map[string]int64{"productId": id}, nil))
	}

	var placed receiptBody
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/carts/s1/checkout",
		map[string]any{"customer": customer}, &placed))

	assert.True(t, placed.Order.IsCartOrder)
	assert.InDelta(t, 161.9784, placed.Order.GrandTotal, 1e-9)
	assert.Equal(t, "$161.98", placed.Invoice.GrandTotal)
	assert.Equal(t, "FREE", placed.Invoice.Shipping)
	assert.Equal(t, "************1111", placed.Invoice.PaidWith)
	assert.Empty(t, placed.Order.CustomerInfo.CVV)

	var c cartBody
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/carts/s1", nil, &c))
	assert.Empty(t, c.Items)

	var got receiptBody
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/orders/"+placed.Order.OrderID, nil, &got))
	assert.Equal(t, placed.Order.OrderID, got.Order.OrderID)
	assert.Len(t, got.Order.Items, 2)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/orders/ORD-missing", nil, nil))
}

func TestCheckoutEmptyCart(t *testing.T) {
	srv := newServer(t)

	var body receiptBody
	require.Equal(t, http.StatusConflict, do(t, srv, http.MethodPost, "/carts/nobody/checkout",
		map[string]any{"customer": customer}, &body))
	assert.Equal(t, "cart is empty", body.Error)
}

func TestSessionIDLimitAppliesToEveryCartRoute(t *testing.T) {
	srv := newServer(t)

	long := "/carts/" + strings.Repeat("s", request.MaxSessionIDLen+1)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, long, nil, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, long+"/items", map[string]int64{"productId": 1}, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, long+"/checkout",
		map[string]any{"customer": customer}, nil))
}

func TestCheckoutValidatesCustomer(t *testing.T) {
	srv := newServer(t)

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/carts/s1/items", map[string]int64{"productId": 2}, nil))

	partial := map[string]string{"firstName": "Jane", "email": "not-an-email"}

	var body receiptBody
	require.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/carts/s1/checkout",
		map[string]any{"customer": partial}, &body))
	assert.Contains(t, body.Error, "field Email is not a valid email")

	var c cartBody
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/carts/s1", nil, &c))
	assert.Len(t, c.Items, 1)
}

func TestBuyNow(t *testing.T) {
	srv := newServer(t)

	var placed receiptBody
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/checkout/buy-now",
		map[string]any{"productId": 1, "quantity": 1, "customer": customer}, &placed))

	assert.False(t, placed.Order.IsCartOrder)
	require.NotNil(t, placed.Order.Product)
	assert.Equal(t, 1, placed.Order.Quantity)
	assert.Equal(t, "$9.99", placed.Invoice.Shipping)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/checkout/buy-now",
		map[string]any{"productId": 1, "quantity": 0, "customer": customer}, nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPost, "/checkout/buy-now",
		map[string]any{"productId": 42, "quantity": 1, "customer": customer}, nil))
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newServer(t)

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/healthz", nil, nil))
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/metrics", nil, nil))
}
