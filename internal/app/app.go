package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/podium/backend/internal/config"
	"github.com/podium/backend/internal/docstore"
	"github.com/podium/backend/internal/fixtures"
	"github.com/podium/backend/internal/handlers"
	"github.com/podium/backend/internal/httpserver"
	"github.com/podium/backend/internal/logging"
	"github.com/podium/backend/internal/middleware"
	"github.com/podium/backend/internal/report"
)

// Run bootstraps the Podium backend application.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected command: serve, migrate, seed, or report")
	}

	switch args[0] {
	case "serve":
		return serve(ctx)
	case "migrate":
		return runMigrations(ctx, args[1:], os.Stdout)
	case "seed":
		return runSeed(ctx, args[1:], os.Stdout)
	case "report":
		return runReport(ctx, os.Stdout)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// bootstrap loads configuration and installs the process logger writing to logOut.
func bootstrap(logOut io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := logging.New(logOut, config.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func serve(ctx context.Context) error {
	cfg, logger, err := bootstrap(os.Stdout)
	if err != nil {
		return err
	}

	database := docstore.Open(ctx, cfg.Store, logger)
	defer closeStore(database, logger)

	if _, err := fixtures.Seed(ctx, database, fixtures.Baseline, logger); err != nil {
		logger.Error("baseline seeding failed", "error", err)
	}

	deps, err := buildDependencies(ctx, database, cfg, logger)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, deps)

	handler := middleware.RequestLogger(logger)(
		middleware.CORS(middleware.LimitBody(cfg.MaxUploadBytes)(mux)),
	)

	srv := httpserver.New(cfg.AppPort, handler)

	logger.Info("starting http server", "addr", srv.Addr(), "store", database.Backend())

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	select {
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func closeStore(database docstore.Database, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Close(ctx); err != nil {
		logger.Warn("closing document store", "error", err)
	}
}

// runSeed loads a named fixture set, "demo" by default, into the configured store.
func runSeed(ctx context.Context, args []string, out io.Writer) error {
	name := fixtures.Demo
	if len(args) > 0 {
		name = args[0]
	}

	cfg, logger, err := bootstrap(os.Stderr)
	if err != nil {
		return err
	}

	database := docstore.Open(ctx, cfg.Store, logger)
	defer closeStore(database, logger)

	return seedInto(ctx, database, name, logger, out)
}

func seedInto(ctx context.Context, database docstore.Database, name string, logger *slog.Logger, out io.Writer) error {
	summary, err := fixtures.Seed(ctx, database, name, logger)
	if err != nil {
		return err
	}

	collections := make([]string, 0, len(summary))
	for coll := range summary {
		collections = append(collections, coll)
	}
	sort.Strings(collections)
	for _, coll := range collections {
		fmt.Fprintf(out, "seeded %d %s\n", summary[coll], coll)
	}
	fmt.Fprintf(out, "applied fixture set %s to %s store\n", name, database.Backend())
	return nil
}

func runReport(ctx context.Context, out io.Writer) error {
	cfg, logger, err := bootstrap(os.Stderr)
	if err != nil {
		return err
	}

	database := docstore.Open(ctx, cfg.Store, logger)
	defer closeStore(database, logger)

	rep, err := report.Build(ctx, database)
	if err != nil {
		return err
	}
	return report.Write(out, rep)
}
