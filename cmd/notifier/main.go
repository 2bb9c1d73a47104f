package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/alqabandi/burgerhouse/internal/config"
	"github.com/alqabandi/burgerhouse/pkg/idempotency"
	"github.com/alqabandi/burgerhouse/pkg/logging"
	"github.com/alqabandi/burgerhouse/pkg/shutdown"
	"github.com/alqabandi/burgerhouse/pkg/tracing"

	"github.com/alqabandi/burgerhouse/internal/notification/application"
	notifykafka "github.com/alqabandi/burgerhouse/internal/notification/infrastructure/kafka"
	notifypg "github.com/alqabandi/burgerhouse/internal/notification/infrastructure/postgres"
	"github.com/alqabandi/burgerhouse/internal/notification/infrastructure/ultramsg"
)

func main() {
	log := logging.New("notifier")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	tp, err := tracing.Init(ctx, "notifier", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	idem := idempotency.NewStore(rdb, 24*time.Hour)

	sender := ultramsg.NewClient(log, cfg.Ultramsg.BaseURL, cfg.Ultramsg.InstanceID, cfg.Ultramsg.Token)
	repo := notifypg.NewRepository(pool)
	svc := application.NewService(log, sender, repo, cfg.BaseURL)

	consumer := notifykafka.NewConsumer(log, cfg.KafkaBrokers, cfg.OrderEventsTopic, cfg.NotifierGroup, svc, idem)

	log.Info("notifier consuming", "topic", cfg.OrderEventsTopic, "group", cfg.NotifierGroup)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped with error", "err", err)
		os.Exit(1)
	}
	log.Info("notifier shutdown complete")
}
