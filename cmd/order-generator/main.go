// Command order-generator publishes random orders to the order-event topic
// for load testing. Orders go through the real assembler, so totals follow
// the configured pricing policy.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/YusovID/storefront/internal/config"
	"github.com/YusovID/storefront/internal/order"
	"github.com/YusovID/storefront/internal/storage/kafka"
	orderGen "github.com/YusovID/storefront/lib/generator/order"
	"github.com/YusovID/storefront/lib/logger/sl"
	"github.com/YusovID/storefront/lib/logger/slogpretty"
)

const (
	catalogSize = 50
	interval    = time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := config.MustLoad()

	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting order generator", slog.String("env", cfg.Env))

	p, err := kafka.NewProducer(cfg.Kafka, log)
	if err != nil {
		log.Error("failed to init producer", sl.Err(err))
		os.Exit(1)
	}
	log.Info("producer init successful")

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)

	wg := &sync.WaitGroup{}

	wg.Add(1)
	go generate(ctx, p, order.NewAssembler(cfg.Pricing.Policy()), log, wg)

	<-sigchan
	cancel()

	wg.Wait()

	log.Info("stopping producer")
	if err := p.Close(); err != nil {
		log.Error("failed to close producer", sl.Err(err))
	}
}

func generate(ctx context.Context, p *kafka.Producer, assembler *order.Assembler, log *slog.Logger, wg *sync.WaitGroup) {
	defer wg.Done()

	const fn = "order-generator.generate"
	log = log.With(slog.String("fn", fn))

	products := orderGen.Catalog(catalogSize)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping order generation")
			return

		case <-ticker.C:
			placed, err := assembler.Assemble(orderGen.Source(products), orderGen.Customer().Redacted())
			if err != nil {
				log.Error("failed to assemble order", sl.Err(err))
				continue
			}

			if err := p.PublishOrder(ctx, &placed); err != nil {
				log.Error("failed to publish order", sl.Err(err))
				continue
			}

			log.Debug("order generated",
				slog.String("order_id", placed.OrderID),
				slog.Float64("grand_total", placed.GrandTotal),
			)
		}
	}
}
