package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-artisan-market/internal/activity"
	"github.com/ariefcatur/go-artisan-market/internal/config"
	kafkax "github.com/ariefcatur/go-artisan-market/internal/kafka"
	"github.com/ariefcatur/go-artisan-market/internal/logging"
	"github.com/ariefcatur/go-artisan-market/internal/market"
	"github.com/ariefcatur/go-artisan-market/internal/postgres"
	"github.com/ariefcatur/go-artisan-market/internal/redisx"
)

// activity consumes product view events and writes them as buyer interactions,
// which feed the recommendation history.
func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if !cfg.Kafka.Enabled() {
		logging.Fatal().Msg("KAFKA_BROKERS is empty; views are written directly by the api and there is nothing to consume")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		logging.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.Redis.Addr)
	defer rdb.Close()

	name := cfg.ServiceName + "-activity"
	svc := &activity.Service{
		Store: &market.Repo{DB: db},
		Dedup: activity.RedisDeduper{RDB: rdb, Service: name},
	}

	// Consumer
	group, workers := cfg.Kafka.ActivityGroup, cfg.Kafka.ActivityWorkers
	cons := kafkax.NewConsumer(cfg.Kafka.Brokers, group, market.TopicProductViewed, workers)

	go func() {
		logging.Info().Str("group", group).Str("topic", market.TopicProductViewed).Int("workers", workers).Msg("activity consumer started")
		if err := cons.Start(ctx, svc.HandleProductViewed); err != nil {
			logging.Error().Err(err).Msg("consumer exit")
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	logging.Info().Msg("shutting down consumer")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
