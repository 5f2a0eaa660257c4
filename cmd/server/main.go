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
	"golang.org/x/sync/errgroup"

	"github.com/joao-fontenele/ecom-rpc/internal/admin"
	"github.com/joao-fontenele/ecom-rpc/internal/auth"
	"github.com/joao-fontenele/ecom-rpc/internal/bootstrap"
	"github.com/joao-fontenele/ecom-rpc/internal/config"
	"github.com/joao-fontenele/ecom-rpc/internal/messaging"
	"github.com/joao-fontenele/ecom-rpc/internal/rpc"
	"github.com/joao-fontenele/ecom-rpc/internal/store"
	"github.com/joao-fontenele/ecom-rpc/internal/storefront"
	"github.com/joao-fontenele/ecom-rpc/internal/telemetry"
	"github.com/joao-fontenele/ecom-rpc/internal/user"
)

const serviceName = "ecom-rpc"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.ParseLevel(cfg.LogLevel)}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	shutdownTracer, err := telemetry.InitTracerProvider(ctx, telemetry.TracingOptions{
		ServiceName:    serviceName,
		ServiceVersion: cfg.ServiceVersion,
		Endpoint:       cfg.OTLPEndpoint,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, cfg.ServiceVersion)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownMeter(context.Background()) }()

	if err := bootstrap.Migrate(cfg.MigrationsPath, cfg.PostgresURL, logger); err != nil {
		return err
	}

	db, err := store.Open(ctx, cfg.PostgresURL, store.PoolOptions{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	gateway := store.NewGateway(db, logger)
	bootstrap.SeedAdmin(ctx, gateway, cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword, cfg.BootstrapAdminEmail, logger)

	var publisher user.EventPublisher
	if brokers := config.Brokers(cfg.KafkaBrokers); len(brokers) > 0 {
		producer := messaging.NewProducer(brokers, cfg.OrderEventsTopic)
		defer func() { _ = producer.Close() }()
		publisher = producer
		logger.Info("publishing order events", "brokers", brokers, "topic", cfg.OrderEventsTopic)
	}

	issuer := auth.NewIssuer(cfg.TokenSecret, cfg.TokenTTL)
	authn := auth.NewAuthenticator(issuer, cfg.TrustIdentityHeaders, logger)

	var limiter *rpc.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = rpc.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	}

	router := newRouter(gateway, issuer, authn, publisher, limiter, logger)
	router.Mount("GET /schema", http.HandlerFunc(router.HandleSchema))
	router.Mount("GET /metrics", metricsHandler)
	router.Mount("GET /healthz", healthHandler(gateway, logger))

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: otelhttp.NewHandler(rpc.RequestID(rpc.Logging(logger)(router)), serviceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", "port", cfg.Port, "operations", len(router.Operations()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if limiter != nil {
		g.Go(func() error {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					limiter.Prune(10000)
				}
			}
		})
	}

	return g.Wait()
}

// newRouter registers every facade. The limiter, when set, guards the public
// Storefront and both login operations.
func newRouter(db store.Querier, issuer *auth.Issuer, authn *auth.Authenticator, publisher user.EventPublisher, limiter *rpc.RateLimiter, logger *slog.Logger) *rpc.Router {
	router := rpc.NewRouter(logger)

	if limiter != nil {
		router.Use("Storefront", limiter.Middleware)
		router.Use("Admin.Login", limiter.Middleware)
	}

	storefront.NewHandler(storefront.NewService(db, issuer), logger).Register(router)
	admin.NewHandler(admin.NewService(db, issuer), logger).Register(router, authn)
	user.NewHandler(user.NewService(db, publisher, logger), logger).Register(router, authn)

	return router
}

type pinger interface {
	Ping(ctx context.Context) error
}

func healthHandler(db pinger, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Error("health check failed", "error", err)
			rpc.WriteJSON(w, logger, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		rpc.WriteJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})
}
