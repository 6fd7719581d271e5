package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YusovID/storefront/internal/pricing"
)

const minimal = `
env: local
postgres:
  username: shop
  password: secret
  host: localhost
  port: "5432"
  database: storefront
redis:
  host: localhost
  port: "6379"
kafka:
  bootstrap.servers: ["localhost:9092"]
  consumer:
    group.id: storefront
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, pricing.DefaultPolicy(), cfg.Pricing.Policy())
	assert.True(t, cfg.Checkout.ClearCart())
	assert.Equal(t, 2*time.Hour, cfg.Cart.IdleTTL)
	assert.Equal(t, "orders", cfg.Kafka.Topic)
	assert.Equal(t, 4*time.Second, cfg.HTTPServer.Timeout)
}

func TestLoadPricingOverride(t *testing.T) {
	body := minimal + `
pricing:
  tax_rate: 0.2
  free_shipping_threshold: 100
  shipping_cost: 4.5
checkout:
  keep_cart: true
`

	cfg, err := Load(writeConfig(t, body))
	require.NoError(t, err)

	assert.Equal(t, pricing.Policy{TaxRate: 0.2, FreeShippingThreshold: 100, ShippingCost: 4.5}, cfg.Pricing.Policy())
	assert.False(t, cfg.Checkout.ClearCart())
}

func TestLoadRejectsNegativeTax(t *testing.T) {
	_, err := Load(writeConfig(t, minimal+"\npricing:\n  tax_rate: -1\n"))

	assert.ErrorIs(t, err, pricing.ErrInvalidPolicy)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}
