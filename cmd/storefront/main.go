package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alqabandi/burgerhouse/internal/config"
	"github.com/alqabandi/burgerhouse/pkg/logging"
	"github.com/alqabandi/burgerhouse/pkg/outbox"
	"github.com/alqabandi/burgerhouse/pkg/shutdown"
	"github.com/alqabandi/burgerhouse/pkg/tracing"

	assistantapp "github.com/alqabandi/burgerhouse/internal/assistant/application"
	assistanthttp "github.com/alqabandi/burgerhouse/internal/assistant/infrastructure/http"
	"github.com/alqabandi/burgerhouse/internal/assistant/infrastructure/openai"
	cataloghttp "github.com/alqabandi/burgerhouse/internal/catalog/infrastructure/http"
	catalogpg "github.com/alqabandi/burgerhouse/internal/catalog/infrastructure/postgres"
	notifyapp "github.com/alqabandi/burgerhouse/internal/notification/application"
	notifyhttp "github.com/alqabandi/burgerhouse/internal/notification/infrastructure/http"
	notifypg "github.com/alqabandi/burgerhouse/internal/notification/infrastructure/postgres"
	"github.com/alqabandi/burgerhouse/internal/notification/infrastructure/ultramsg"
	orderapp "github.com/alqabandi/burgerhouse/internal/order/application"
	orderhttp "github.com/alqabandi/burgerhouse/internal/order/infrastructure/http"
	orderkafka "github.com/alqabandi/burgerhouse/internal/order/infrastructure/kafka"
	orderpg "github.com/alqabandi/burgerhouse/internal/order/infrastructure/postgres"
	paymentapp "github.com/alqabandi/burgerhouse/internal/payment/application"
	paymenthttp "github.com/alqabandi/burgerhouse/internal/payment/infrastructure/http"
	paymentpg "github.com/alqabandi/burgerhouse/internal/payment/infrastructure/postgres"
	"github.com/alqabandi/burgerhouse/internal/payment/infrastructure/upayment"
)

func main() {
	log := logging.New("storefront")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	tp, err := tracing.Init(ctx, "storefront", cfg.OTLPEndpoint, log)
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

	// Kafka producer + outbox relay
	writer := orderkafka.NewWriter(cfg.KafkaBrokers)
	defer writer.Close()

	store := orderpg.NewOutboxStore(log, pool)
	dispatch := outbox.NewDispatcher(log, writer, cfg.OrderEventsTopic)
	relay := outbox.NewRelay(log, store, dispatch, "storefront-relay")

	// Catalog
	mealRepo := catalogpg.NewRepository(log, pool)
	catalogHandler := cataloghttp.NewHandler(log, mealRepo)

	// Orders
	orderRepo := orderpg.NewRepository(log, pool)
	checkoutSvc := orderapp.NewCheckoutService(log, orderRepo, mealRepo)
	trackingSvc := orderapp.NewTrackingService(log, orderRepo)
	ratingSvc := orderapp.NewRatingService(log, orderRepo)
	statusSvc := orderapp.NewStatusService(log, orderRepo)
	orderHandler := orderhttp.NewHandler(log, checkoutSvc, trackingSvc, ratingSvc, statusSvc, orderRepo)

	// Payments
	gateway := upayment.NewClient(log, cfg.UPayment.APIURL, cfg.UPayment.APIKey)
	paymentRepo := paymentpg.NewRepository(log, pool)
	paymentSvc := paymentapp.NewService(log, orderRepo, paymentRepo, gateway, paymentapp.GatewayConfig{
		ReturnURL:       cfg.UPayment.ReturnURL,
		CancelURL:       cfg.UPayment.ErrorURL,
		NotificationURL: cfg.UPayment.NotificationURL,
		GatewaySrc:      cfg.UPayment.Gateway,
	})
	paymentHandler := paymenthttp.NewHandler(log, paymentSvc)

	// Inbound webhook (outbound sends live in the notifier binary)
	sender := ultramsg.NewClient(log, cfg.Ultramsg.BaseURL, cfg.Ultramsg.InstanceID, cfg.Ultramsg.Token)
	notifyRepo := notifypg.NewRepository(pool)
	notifySvc := notifyapp.NewService(log, sender, notifyRepo, cfg.BaseURL)
	notifyHandler := notifyhttp.NewHandler(log, notifySvc)

	// Assistant
	completer := openai.NewClient(log, cfg.Assistant.APIURL, cfg.Assistant.APIKey, cfg.Assistant.Model)
	assistantSvc := assistantapp.NewService(log, completer, mealRepo, cfg.Assistant.APIKey != "")
	assistantHandler := assistanthttp.NewHandler(assistantSvc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Route("/api", func(api chi.Router) {
		catalogHandler.Register(api)
		orderHandler.Register(api)
		paymentHandler.Register(api)
		notifyHandler.Register(api)
		assistantHandler.Register(api)
		api.Route("/admin", orderHandler.RegisterAdmin)
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := relay.Run(ctx); err != nil {
			log.Error("relay stopped with error", "err", err)
		}
	}()

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("storefront shutdown complete")
}
