// Package processor stores order events read from Kafka. Messages are
// collected into batches and each batch is handled by the worker pool;
// only stored orders are sent back for offset commit.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/IBM/sarama"

	"github.com/YusovID/storefront/internal/models"
	"github.com/YusovID/storefront/lib/logger/sl"
	wp "github.com/YusovID/storefront/lib/workerpool"
)

type Storage interface {
	SaveOrder(ctx context.Context, orderData *models.OrderData) error
}

type IPool interface {
	Create()
	Handle(context.Context, *sarama.ConsumerMessage) error
	Wait()
}

type Processor struct {
	Storage    Storage
	Cache      Storage
	orderChan  <-chan *sarama.ConsumerMessage
	commitChan chan<- *sarama.ConsumerMessage
	log        *slog.Logger
}

func New(
	storage Storage,
	cache Storage,
	orderChan <-chan *sarama.ConsumerMessage,
	commitChan chan<- *sarama.ConsumerMessage,
	log *slog.Logger,
) *Processor {
	return &Processor{
		Storage:    storage,
		Cache:      cache,
		orderChan:  orderChan,
		commitChan: commitChan,
		log:        log,
	}
}

// ProcessOrders batches incoming messages until ctx is done. A partial
// batch is flushed on shutdown.
func (p *Processor) ProcessOrders(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	const fn = "processor.order.ProcessOrders"
	log := p.log.With(slog.String("fn", fn))

	orders := make([]*sarama.ConsumerMessage, 0, wp.MaxWorkersCount)

	pool := wp.New(p.processOrder)

	for {
		select {
		case <-ctx.Done():
			// stored orders that miss the commit are redelivered; saving is idempotent
			if len(orders) != 0 {
				for _, msg := range p.processBatch(context.WithoutCancel(ctx), orders, pool) {
					select {
					case p.commitChan <- msg:
					default:
					}
				}
			}

			log.Info("stopping order processing")
			return

		case order := <-p.orderChan:
			orders = append(orders, order)

			if len(orders) == wp.MaxWorkersCount || len(p.orderChan) == 0 {
				for _, msg := range p.processBatch(ctx, orders, pool) {
					select {
					case p.commitChan <- msg:
					case <-ctx.Done():
					}
				}

				orders = make([]*sarama.ConsumerMessage, 0, wp.MaxWorkersCount)
			}
		}
	}
}

// processBatch handles orders concurrently and returns the messages whose
// orders were stored.
func (p *Processor) processBatch(ctx context.Context, orders []*sarama.ConsumerMessage, pool IPool) []*sarama.ConsumerMessage {
	pool.Create()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		stored = make([]*sarama.ConsumerMessage, 0, len(orders))
	)

	for _, order := range orders {
		wg.Add(1)

		go func(currentOrder *sarama.ConsumerMessage) {
			defer wg.Done()

			if err := pool.Handle(ctx, currentOrder); err != nil {
				p.log.Error("failed to handle order message", sl.Err(err))
				return
			}

			mu.Lock()
			stored = append(stored, currentOrder)
			mu.Unlock()
		}(order)
	}

	wg.Wait()
	pool.Wait()

	return stored
}

func (p *Processor) processOrder(ctx context.Context, order *sarama.ConsumerMessage) error {
	var orderData models.OrderData
	if err := json.Unmarshal(order.Value, &orderData); err != nil {
		return fmt.Errorf("can't unmarshal order event: %w", err)
	}

	log := p.log.With(slog.String("order_id", orderData.OrderID))

	if err := p.Storage.SaveOrder(ctx, &orderData); err != nil {
		return fmt.Errorf("failed to save order %s: %w", orderData.OrderID, err)
	}

	// the cache is refilled from storage on the next warm-up
	if p.Cache != nil {
		if err := p.Cache.SaveOrder(ctx, &orderData); err != nil {
			log.Warn("failed to cache order", sl.Err(err))
		}
	}

	log.Info("order stored")

	return nil
}
