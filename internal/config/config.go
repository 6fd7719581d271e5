// Package config describes the service configuration and loads it from a
// YAML file with environment variable overrides (cleanenv), so the same
// binary runs locally and in containers.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/YusovID/storefront/internal/pricing"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-required:"true"`
	Postgres   Postgres   `yaml:"postgres" env-required:"true"`
	Redis      Redis      `yaml:"redis" env-required:"true"`
	Kafka      Kafka      `yaml:"kafka" env-required:"true"`
	HTTPServer HTTPServer `yaml:"http_server" env-required:"true"`
	Pricing    Pricing    `yaml:"pricing"`
	Cart       Cart       `yaml:"cart"`
	Checkout   Checkout   `yaml:"checkout"`
}

type Postgres struct {
	Username string `yaml:"username" env:"POSTGRES_USER" env-required:"true"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-required:"true"`
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-required:"true"`
	Port     string `yaml:"port" env:"POSTGRES_PORT" env-required:"true"`
	Database string `yaml:"database" env:"POSTGRES_DB" env-required:"true"`
}

type Redis struct {
	Host     string        `yaml:"host" env:"REDIS_HOST" env-required:"true"`
	Port     string        `yaml:"port" env:"REDIS_PORT" env-required:"true"`
	DB       int           `yaml:"db" env:"REDIS_DB"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	OrderTTL time.Duration `yaml:"order_ttl" env:"REDIS_ORDER_TTL" env-default:"168h"`
}

// Kafka carries the order-event topic and the producer and consumer
// settings.
type Kafka struct {
	BootstrapServers []string `yaml:"bootstrap.servers" env:"KAFKA_BOOTSTRAP_SERVERS" env-required:"true"`
	Topic            string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"orders"`
	Producer         Producer `yaml:"producer"`
	Consumer         Consumer `yaml:"consumer" env-required:"true"`
}

type Producer struct {
	Acks              int  `yaml:"acks" env-default:"-1"`
	EnableIdempotence bool `yaml:"enable.idempotence"`
	Retries           int  `yaml:"retries" env-default:"3"`
}

type Consumer struct {
	GroupId string `yaml:"group.id" env-required:"true"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Pricing struct {
	TaxRate               float64 `yaml:"tax_rate" env:"PRICING_TAX_RATE" env-default:"0.08"`
	FreeShippingThreshold float64 `yaml:"free_shipping_threshold" env:"PRICING_FREE_SHIPPING_THRESHOLD" env-default:"50"`
	ShippingCost          float64 `yaml:"shipping_cost" env:"PRICING_SHIPPING_COST" env-default:"9.99"`
}

// Policy converts the section into the pricing policy.
func (p Pricing) Policy() pricing.Policy {
	return pricing.Policy{
		TaxRate:               p.TaxRate,
		FreeShippingThreshold: p.FreeShippingThreshold,
		ShippingCost:          p.ShippingCost,
	}
}

type Cart struct {
	IdleTTL       time.Duration `yaml:"idle_ttl" env-default:"2h"`
	SweepInterval time.Duration `yaml:"sweep_interval" env-default:"5m"`
}

// Checkout sets what happens to the cart after a cart order is placed.
// The cart is cleared unless KeepCart is set.
type Checkout struct {
	KeepCart bool `yaml:"keep_cart" env:"CHECKOUT_KEEP_CART"`
}

func (c Checkout) ClearCart() bool {
	return !c.KeepCart
}

// MustLoad reads the file named by CONFIG_PATH and the environment.
// It exits the process on any error: the service can't run without config.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

// Load reads configPath and the environment into a Config and checks the
// pricing policy.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, err
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Pricing.Policy().Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
