// Package redis is the receipt cache in front of PostgreSQL. Checkout
// writes every new receipt here so the confirmation page can read it before
// the order event has been persisted.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/YusovID/storefront/internal/config"
	"github.com/YusovID/storefront/internal/models"
	"github.com/YusovID/storefront/internal/storage"
)

const (
	keyPrefix  = "order:"
	warmLimit  = 1000
	defaultTTL = 7 * 24 * time.Hour
)

// Client wraps redis.Client with the order cache operations.
type Client struct {
	*redis.Client
	ttl time.Duration
}

// Storage is the source the cache is warmed from.
type Storage interface {
	GetOrders(ctx context.Context, limit int) ([]*models.OrderData, error)
}

// New connects to Redis and pings it.
func New(ctx context.Context, cfg config.Redis) (*Client, error) {
	address := net.JoinHostPort(cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("can't ping redis: %w", err)
	}

	return NewWithClient(client, cfg.OrderTTL), nil
}

// NewWithClient wraps an existing client. A zero ttl means one week.
func NewWithClient(client *redis.Client, ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Client{Client: client, ttl: ttl}
}

func key(orderID string) string {
	return keyPrefix + orderID
}

// SaveOrder stores the receipt as JSON under its order ID.
func (c *Client) SaveOrder(ctx context.Context, orderData *models.OrderData) error {
	const fn = "storage.redis.SaveOrder"

	orderBytes, err := json.Marshal(orderData)
	if err != nil {
		return fmt.Errorf("%s: can't marshal order data: %w", fn, err)
	}

	if err := c.Set(ctx, key(orderData.OrderID), orderBytes, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: can't set order: %w", fn, err)
	}

	return nil
}

// GetOrder returns storage.ErrNoOrder on a cache miss so callers can fall
// back to PostgreSQL.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*models.OrderData, error) {
	const fn = "storage.redis.GetOrder"

	orderJSON, err := c.Get(ctx, key(orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNoOrder
	}
	if err != nil {
		return nil, fmt.Errorf("%s: can't get order: %w", fn, err)
	}

	orderData := &models.OrderData{}
	if err := json.Unmarshal(orderJSON, orderData); err != nil {
		return nil, fmt.Errorf("%s: can't unmarshal order json: %w", fn, err)
	}

	return orderData, nil
}

// Warm loads the most recent orders from storage into the cache in one
// pipeline. It runs once at startup.
func (c *Client) Warm(ctx context.Context, storage Storage) (int, error) {
	const fn = "storage.redis.Warm"

	orders, err := storage.GetOrders(ctx, warmLimit)
	if err != nil {
		return 0, fmt.Errorf("%s: can't get orders: %w", fn, err)
	}

	if len(orders) == 0 {
		return 0, nil
	}

	pipe := c.Pipeline()

	for _, order := range orders {
		orderJSON, err := json.Marshal(order)
		if err != nil {
			return 0, fmt.Errorf("%s: can't marshal order: %w", fn, err)
		}

		pipe.Set(ctx, key(order.OrderID), orderJSON, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%s: can't set orders: %w", fn, err)
	}

	return len(orders), nil
}
