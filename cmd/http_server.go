package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/application"
	"github.com/frahmantamala/mvd-portal/internal/auth"
	"github.com/frahmantamala/mvd-portal/internal/core/events"
	"github.com/frahmantamala/mvd-portal/internal/datatransfer"
	"github.com/frahmantamala/mvd-portal/internal/employee"
	"github.com/frahmantamala/mvd-portal/internal/fleet"
	"github.com/frahmantamala/mvd-portal/internal/leader"
	"github.com/frahmantamala/mvd-portal/internal/metrics"
	"github.com/frahmantamala/mvd-portal/internal/news"
	"github.com/frahmantamala/mvd-portal/internal/stats"
	"github.com/frahmantamala/mvd-portal/internal/store"
	"github.com/frahmantamala/mvd-portal/internal/transport/rest"
	"github.com/frahmantamala/mvd-portal/internal/transport/swagger"
	"github.com/frahmantamala/mvd-portal/internal/user"
	"github.com/frahmantamala/mvd-portal/internal/violator"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config  *internal.Config
	Store   *store.Store
	Bus     *events.EventBus
	Metrics *metrics.Metrics
	Router  *chi.Mux
	Logger  *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "driver", deps.Config.Database.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := internal.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.Bus.Wait(ctx); err != nil {
			deps.Logger.Warn("Event handlers still running at shutdown", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			_ = deps.Store.Close()
			os.Exit(1)
		}
	}

	if err := deps.Store.Close(); err != nil {
		deps.Logger.Error("Store close error", "error", err)
	}
	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	lg := deps.Logger
	st := deps.Store
	bus := deps.Bus
	cfg := deps.Config

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.JWTAccessSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(st, tokens, cfg.Security.BCryptCost, bus, lg)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authService),
		Users:        user.NewHandler(user.NewService(st, authService, lg)),
		News:         news.NewHandler(news.NewService(st, lg)),
		Applications: application.NewHandler(application.NewService(st, bus, lg)),
		Violators:    violator.NewHandler(violator.NewService(st, lg)),
		Employees:    employee.NewHandler(employee.NewService(st, bus, lg)),
		Leaders:      leader.NewHandler(leader.NewService(st, lg)),
		Fleet:        fleet.NewHandler(fleet.NewService(st, lg)),
		Stats:        stats.NewHandler(stats.NewService(st, lg)),
		Data:         datatransfer.NewHandler(datatransfer.NewService(st, bus, lg)),
	}

	rest.RegisterAllRoutes(deps.Router, st, handlers, authService.RBACAuthorization(), rest.Options{
		AllowedOrigins: cfg.Server.AllowedOriginList(),
		Metrics:        deps.Metrics,
		MetricsPath:    cfg.Observability.Metrics.Path,
		OpenAPIFile:    cfg.Server.OpenAPIFile,
	}, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	initLogger(config)
	lg := slog.Default()

	ctx, cancel := internal.WithTimeout(context.Background(), 0)
	defer cancel()

	if config.Server.OpenAPIFile != "" {
		if _, err := swagger.LoadDocument(ctx, config.Server.OpenAPIFile); err != nil {
			lg.Warn("OpenAPI document unavailable, docs disabled", "error", err)
			config.Server.OpenAPIFile = ""
		}
	}

	var storeOpts []store.Option
	var m *metrics.Metrics
	if config.Observability.Metrics.Enabled {
		m = metrics.New()
		storeOpts = append(storeOpts, store.WithObserver(m))
	}

	st, err := openStore(ctx, config, lg, storeOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	// Materialize the snapshot (seed or mirror) before serving traffic.
	if _, err := st.Load(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	bus := events.NewEventBus(lg)
	events.SubscribeAudit(bus, lg)

	return &Dependencies{
		Config:  config,
		Store:   st,
		Bus:     bus,
		Metrics: m,
		Router:  chi.NewRouter(),
		Logger:  lg,
	}, nil
}
