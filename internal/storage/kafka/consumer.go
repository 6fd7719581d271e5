package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/YusovID/storefront/internal/config"
	"github.com/YusovID/storefront/lib/logger/sl"
)

const (
	batchsize      = 100
	commitInterval = 5 * time.Second
)

// Consumer reads order events and hands them to the processor through
// orderChan. Offsets are committed only for messages that come back on
// commitChan, that is, orders that were stored.
type Consumer struct {
	Consumer   sarama.ConsumerGroup
	orderChan  chan<- *sarama.ConsumerMessage
	commitChan <-chan *sarama.ConsumerMessage
	log        *slog.Logger
}

func NewConsumer(
	cfg config.Kafka,
	orderChan chan<- *sarama.ConsumerMessage,
	commitChan <-chan *sarama.ConsumerMessage,
	log *slog.Logger,
) (*Consumer, error) {
	config := sarama.NewConfig()

	config.Consumer.Return.Errors = true
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Consumer.IsolationLevel = sarama.ReadCommitted
	config.Consumer.Offsets.AutoCommit.Enable = false

	cg, err := sarama.NewConsumerGroup(cfg.BootstrapServers, cfg.Consumer.GroupId, config)
	if err != nil {
		return nil, fmt.Errorf("can't create consumer: %w", err)
	}

	return &Consumer{
		Consumer:   cg,
		orderChan:  orderChan,
		commitChan: commitChan,
		log:        log,
	}, nil
}

func (c *Consumer) ProcessMessages(ctx context.Context, topic string, wg *sync.WaitGroup) {
	defer wg.Done()

	const fn = "storage.kafka.ProcessMessages"

	log := c.log.With(slog.String("fn", fn))

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping message processing")
			return

		default:
			err := c.Consumer.Consume(ctx, []string{topic}, &consumerHandler{
				orderChan:  c.orderChan,
				commitChan: c.commitChan,
				log:        c.log,
			})
			if err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					log.Info("consumer group closed, exiting process messages loop")
					return
				}
				log.Error("error from consumer", sl.Err(err))
			}
		}
	}
}

type consumerHandler struct {
	orderChan  chan<- *sarama.ConsumerMessage
	commitChan <-chan *sarama.ConsumerMessage
	log        *slog.Logger
}

func (h *consumerHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	processed := 0

	ticker := time.NewTicker(commitInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			h.log.Debug(
				"received order event",
				slog.Int("partition", int(msg.Partition)),
				slog.Int64("offset", msg.Offset),
			)

			// keep draining commits while the processor is busy, it may be
			// waiting on commitChan before it reads orderChan again
			for sent := false; !sent; {
				select {
				case h.orderChan <- msg:
					sent = true
				case done := <-h.commitChan:
					h.mark(session, done, &processed)
				case <-session.Context().Done():
					session.Commit()
					return nil
				}
			}

		case done := <-h.commitChan:
			h.mark(session, done, &processed)

		case <-ticker.C:
			if processed > 0 {
				session.Commit()
				processed = 0
			}

		case <-session.Context().Done():
			session.Commit()

			return nil
		}
	}
}

func (h *consumerHandler) mark(session sarama.ConsumerGroupSession, msg *sarama.ConsumerMessage, processed *int) {
	session.MarkMessage(msg, "")

	*processed++

	if *processed >= batchsize {
		h.log.Info("committing offsets")
		session.Commit()
		*processed = 0
	}
}
