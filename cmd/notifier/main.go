package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/joao-fontenele/ecom-rpc/internal/config"
	"github.com/joao-fontenele/ecom-rpc/internal/messaging"
	"github.com/joao-fontenele/ecom-rpc/internal/notifier"
	"github.com/joao-fontenele/ecom-rpc/internal/telemetry"
)

func main() {
	cfg, err := config.LoadNotifier()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.ParseLevel(cfg.LogLevel)}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, telemetry.TracingOptions{
		ServiceName: "order-notifier",
		Endpoint:    cfg.OTLPEndpoint,
		Enabled:     cfg.TracingEnabled,
	})
	if err != nil {
		logger.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	brokers := config.Brokers(cfg.KafkaBrokers)
	consumer := messaging.NewConsumer(brokers, cfg.OrderEventsTopic, cfg.GroupID, logger)
	defer func() { _ = consumer.Close() }()

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	handler := notifier.NewNotificationHandler(cfg.EmailServiceURL, httpClient, logger)

	logger.Info("starting order notifier", "brokers", brokers, "topic", cfg.OrderEventsTopic, "group_id", cfg.GroupID)

	if err := consumer.ConsumeOrderCheckedOut(ctx, handler.Handle); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("consumer stopped")
			return
		}
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
}
