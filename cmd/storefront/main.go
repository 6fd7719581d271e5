package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/IBM/sarama"

	"github.com/YusovID/storefront/internal/cart"
	"github.com/YusovID/storefront/internal/checkout"
	"github.com/YusovID/storefront/internal/config"
	"github.com/YusovID/storefront/internal/http-server/router"
	"github.com/YusovID/storefront/internal/order"
	orderProcessor "github.com/YusovID/storefront/internal/processor/order"
	"github.com/YusovID/storefront/internal/storage/kafka"
	"github.com/YusovID/storefront/internal/storage/postgres"
	"github.com/YusovID/storefront/internal/storage/redis"
	"github.com/YusovID/storefront/lib/logger/sl"
	"github.com/YusovID/storefront/lib/logger/slogpretty"
	wp "github.com/YusovID/storefront/lib/workerpool"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := &sync.WaitGroup{}

	cfg := config.MustLoad()

	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting storefront", slog.String("env", cfg.Env))

	storage, err := postgres.New(cfg.Postgres, log)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}
	defer storage.Close()

	log.Info("storage init successful")

	cache, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("failed to init cache", sl.Err(err))
		os.Exit(1)
	}
	defer cache.Close()

	warmed, err := cache.Warm(ctx, storage)
	if err != nil {
		log.Warn("failed to warm cache", sl.Err(err))
	}

	log.Info("cache init successful", slog.Int("warmed", warmed))

	producer, err := kafka.NewProducer(cfg.Kafka, log)
	if err != nil {
		log.Error("failed to init producer", sl.Err(err))
		os.Exit(1)
	}

	log.Info("producer init successful")

	orderChan := make(chan *sarama.ConsumerMessage, wp.MaxWorkersCount)
	commitChan := make(chan *sarama.ConsumerMessage, wp.MaxWorkersCount)

	consumer, err := kafka.NewConsumer(cfg.Kafka, orderChan, commitChan, log)
	if err != nil {
		log.Error("failed to init consumer", sl.Err(err))
		os.Exit(1)
	}

	log.Info("consumer init successful")

	processor := orderProcessor.New(storage, cache, orderChan, commitChan, log)

	wg.Add(1)
	go processor.ProcessOrders(ctx, wg)

	wg.Add(1)
	go consumer.ProcessMessages(ctx, cfg.Kafka.Topic, wg)

	sessions := cart.NewSessions()

	wg.Add(1)
	go sessions.RunSweeper(ctx, cfg.Cart.SweepInterval, cfg.Cart.IdleTTL, log, wg)

	svc := checkout.New(
		sessions,
		storage,
		order.NewAssembler(cfg.Pricing.Policy()),
		producer,
		cache,
		storage,
		checkout.Options{ClearCart: cfg.Checkout.ClearCart()},
		log,
	)

	srv := &http.Server{
		Addr: cfg.HTTPServer.Address,
		Handler: router.New(log, router.Deps{
			Sessions: sessions,
			Catalog:  storage,
			Checkout: svc,
		}),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to serve", sl.Err(err))
			cancel()
		}
	}()

	log.Info("server started", slog.String("address", cfg.HTTPServer.Address))

	sigctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-sigctx.Done()

	log.Info("stopping server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.HTTPServer.Timeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", sl.Err(err))
	}

	cancel()

	if err := consumer.Consumer.Close(); err != nil {
		log.Error("failed to close consumer", sl.Err(err))
	}

	wg.Wait()

	if err := producer.Close(); err != nil {
		log.Error("failed to close producer", sl.Err(err))
	}

	log.Info("storefront stopped")
}
