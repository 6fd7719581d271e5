package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/YusovID/storefront/internal/config"
	"github.com/YusovID/storefront/internal/models"
)

// Producer publishes placed orders to the order topic, keyed by order ID
// so every event of one order lands on the same partition. PublishOrder
// returns only once the broker has acknowledged the event.
type Producer struct {
	Producer sarama.SyncProducer
	topic    string
	log      *slog.Logger
}

func NewProducer(cfg config.Kafka, log *slog.Logger) (*Producer, error) {
	config := sarama.NewConfig()

	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	config.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Producer.Acks)
	config.Producer.Idempotent = cfg.Producer.EnableIdempotence
	config.Producer.Retry.Max = cfg.Producer.Retries
	if cfg.Producer.EnableIdempotence {
		config.Net.MaxOpenRequests = 1
	}

	p, err := sarama.NewSyncProducer(cfg.BootstrapServers, config)
	if err != nil {
		return nil, fmt.Errorf("can't create producer: %w", err)
	}

	return NewWithProducer(p, cfg.Topic, log), nil
}

// NewWithProducer wraps an existing sarama producer.
func NewWithProducer(p sarama.SyncProducer, topic string, log *slog.Logger) *Producer {
	return &Producer{
		Producer: p,
		topic:    topic,
		log:      log,
	}
}

// PublishOrder sends the order event and waits for the broker's ack. A nil
// error means the event is durable on the topic.
func (p *Producer) PublishOrder(ctx context.Context, order *models.OrderData) error {
	const fn = "storage.kafka.PublishOrder"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}

	value, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("%s: can't marshal order: %w", fn, err)
	}

	partition, offset, err := p.Producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(order.OrderID),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("%s: can't send order %s: %w", fn, order.OrderID, err)
	}

	p.log.Debug("order event sent",
		slog.String("order_id", order.OrderID),
		slog.Int("partition", int(partition)),
		slog.Int64("offset", offset),
	)

	return nil
}

func (p *Producer) Close() error {
	return p.Producer.Close()
}
