package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/braincreator/flow-masters-access/internal/delivery"
	"github.com/braincreator/flow-masters-access/internal/domain/enrollment"
	"github.com/braincreator/flow-masters-access/internal/domain/notification"
	"github.com/braincreator/flow-masters-access/internal/handler"
	"github.com/braincreator/flow-masters-access/internal/storage/postgres"
	"github.com/braincreator/flow-masters-access/pkg/breaker"
	"github.com/braincreator/flow-masters-access/pkg/health"
	"github.com/braincreator/flow-masters-access/pkg/httpmiddleware"
	"github.com/braincreator/flow-masters-access/pkg/monitor"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, _ *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.SetReady(true)

	// Metrics registry: runtime collectors plus the operation monitor.
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mon := monitor.New(promReg)

	// Repositories.
	orderRepo := postgres.NewOrderRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	enrollmentRepo := postgres.NewEnrollmentRepository(pool)
	waitlistRepo := postgres.NewWaitlistRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)

	// Delivery channels from config: a channel without a target stays off.
	httpClient := delivery.NewHTTPClient(cfg.Delivery.Timeout)
	var channels []notification.Channel
	if cfg.Delivery.Webhook.URL != "" {
		channels = append(channels, delivery.NewWebhook(httpClient, cfg.Delivery.Webhook.URL, cfg.Delivery.Webhook.Secret))
	}
	if cfg.Delivery.Email.Endpoint != "" {
		channels = append(channels, delivery.NewEmail(httpClient, cfg.Delivery.Email.Endpoint, cfg.Delivery.Email.APIKey, cfg.Delivery.Email.From))
	}
	if cfg.Delivery.Telegram.Token != "" {
		channels = append(channels, delivery.NewTelegram(httpClient, "", cfg.Delivery.Telegram.Token, cfg.Delivery.Telegram.ChatID))
	}

	// Domain services: per-channel circuit breakers, notification
	// dispatcher, access grant workflow.
	breakers := breaker.NewRegistry(nil)
	dispatcher := notification.NewDispatcher(notificationRepo, breakers, mon, channels...)
	accessSvc := enrollment.NewService(catalogRepo, enrollmentRepo, waitlistRepo, dispatcher)

	// HTTP surface: trigger endpoints + probes + metrics.
	mux := http.NewServeMux()
	handler.New(orderRepo, accessSvc, dispatcher).Register(mux)
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Recovery(),
			httpmiddleware.LogRequests(),
		),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	g.Go(func() error {
		// Graceful shutdown: flip readiness, drain, then stop.
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		return nil
	})
	return g.Wait()
}
