// Package main is the entry point for the backlog service. It wires all
// dependencies using samber/do v2, starts the HTTP server, and handles
// graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/unbacklog/backlog-service/internal/adapters/http"
	"github.com/unbacklog/backlog-service/internal/adapters/http/handlers"
	"github.com/unbacklog/backlog-service/internal/adapters/http/middleware"

	"github.com/unbacklog/backlog-service/internal/adapters/identity/introspect"
	"github.com/unbacklog/backlog-service/internal/adapters/identity/jwtauth"
	"github.com/unbacklog/backlog-service/internal/adapters/store/memory"
	"github.com/unbacklog/backlog-service/internal/adapters/store/postgres"
	"github.com/unbacklog/backlog-service/internal/app"
	"github.com/unbacklog/backlog-service/internal/platform/config"
	"github.com/unbacklog/backlog-service/internal/platform/health"
	"github.com/unbacklog/backlog-service/internal/platform/httpclient"
	"github.com/unbacklog/backlog-service/internal/platform/logging"
	"github.com/unbacklog/backlog-service/internal/platform/telemetry"
	"github.com/unbacklog/backlog-service/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	registerDependencies(ctx, injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Register health checkers after the graph is wired. The memory store
	// has nothing to probe, so only the postgres pool and the identity
	// provider client participate in readiness.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	store := do.MustInvoke[ports.Store](injector)
	if checker, ok := store.(ports.HealthChecker); ok {
		registry.Register(checker)
	}
	if pg, ok := store.(*postgres.Store); ok {
		defer pg.Close()
	}
	if cfg.Auth.Mode == config.AuthModeIntrospect {
		registry.Register(do.MustInvoke[*httpclient.Client](injector))
	}

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

func registerDependencies(ctx context.Context, injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (ports.Store, error) {
		if cfg.Store.Driver == config.StoreDriverPostgres {
			metrics := do.MustInvoke[*telemetry.Metrics](i)
			return postgres.New(ctx, &cfg.Store, metrics, logger)
		}
		return memory.New(), nil
	})

	// The service signs its own tokens in both auth modes.
	do.Provide(injector, func(_ do.Injector) (*jwtauth.Authority, error) {
		return jwtauth.New([]byte(cfg.Auth.Secret), cfg.Auth.Issuer)
	})

	do.Provide(injector, func(i do.Injector) (ports.TokenIssuer, error) {
		return do.MustInvoke[*jwtauth.Authority](i), nil
	})

	do.Provide(injector, func(i do.Injector) (*httpclient.Client, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Client, "identity-provider", metrics, logger), nil
	})

	// Introspect mode delegates token validation to the identity provider;
	// jwt mode verifies locally against the signing key.
	do.Provide(injector, func(i do.Injector) (ports.IdentityResolver, error) {
		if cfg.Auth.Mode == config.AuthModeIntrospect {
			client := do.MustInvoke[*httpclient.Client](i)
			return introspect.New(client), nil
		}
		return do.MustInvoke[*jwtauth.Authority](i), nil
	})

	do.Provide(injector, func(i do.Injector) (*app.Guard, error) {
		resolver := do.MustInvoke[ports.IdentityResolver](i)
		return app.NewGuard(resolver), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.AuthService, error) {
		store := do.MustInvoke[ports.Store](i)
		issuer := do.MustInvoke[ports.TokenIssuer](i)
		guard := do.MustInvoke[*app.Guard](i)
		return app.NewAuthService(store, issuer, guard, cfg.Auth.TokenTTL, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.ProjectService, error) {
		store := do.MustInvoke[ports.Store](i)
		guard := do.MustInvoke[*app.Guard](i)
		return app.NewProjectService(store, guard, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.StoryService, error) {
		store := do.MustInvoke[ports.Store](i)
		guard := do.MustInvoke[*app.Guard](i)
		return app.NewStoryService(store, guard, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.SprintService, error) {
		store := do.MustInvoke[ports.Store](i)
		guard := do.MustInvoke[*app.Guard](i)
		return app.NewSprintService(store, guard, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.TaskService, error) {
		store := do.MustInvoke[ports.Store](i)
		guard := do.MustInvoke[*app.Guard](i)
		return app.NewTaskService(store, guard, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.AuthHandler, error) {
		return handlers.NewAuthHandler(do.MustInvoke[ports.AuthService](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.ProjectHandler, error) {
		return handlers.NewProjectHandler(do.MustInvoke[ports.ProjectService](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.StoryHandler, error) {
		return handlers.NewStoryHandler(do.MustInvoke[ports.StoryService](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.SprintHandler, error) {
		return handlers.NewSprintHandler(do.MustInvoke[ports.SprintService](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.TaskHandler, error) {
		return handlers.NewTaskHandler(do.MustInvoke[ports.TaskService](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		return handlers.NewHealthHandler(do.MustInvoke[ports.HealthRegistry](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		authH := do.MustInvoke[*handlers.AuthHandler](i)
		projH := do.MustInvoke[*handlers.ProjectHandler](i)
		storyH := do.MustInvoke[*handlers.StoryHandler](i)
		sprintH := do.MustInvoke[*handlers.SprintHandler](i)
		taskH := do.MustInvoke[*handlers.TaskHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(authH, projH, storyH, sprintH, taskH, healthH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
