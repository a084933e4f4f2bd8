package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"beautylist/internal/catalog"
	catalogMetrics "beautylist/internal/catalog/metrics"
	"beautylist/internal/catalog/models"
	"beautylist/internal/catalog/service"
	"beautylist/internal/catalog/transfer"
	"beautylist/internal/platform/config"
	"beautylist/internal/platform/httpserver"
	"beautylist/internal/platform/logger"
	"beautylist/internal/platform/metrics"
	"beautylist/internal/platform/middleware"
	"beautylist/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/catalog.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "beautylist: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log, err := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	defaultTab, err := models.ParseTab(cfg.DefaultTab)
	if err != nil {
		return fmt.Errorf("default tab: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc, err := catalog.NewService(
		service.WithLogger(log),
		service.WithMetrics(catalogMetrics.New(registry)),
		service.WithDefaultTab(defaultTab),
		service.WithExportPrefix(cfg.ExportPrefix),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedFile != "" {
		if err := seed(ctx, svc, cfg.SeedFile); err != nil {
			return err
		}
		log.InfoContext(ctx, "seeded catalog", "file", cfg.SeedFile)
	}

	h := catalog.NewHandler(svc, log).WithMaxImportBytes(cfg.MaxImportBytes)
	router := newRouter(h, log, metrics.New(registry), registry, cfg)
	srv := httpserver.New(cfg.Addr, router, cfg.RequestTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting beautylist", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func newRouter(h *catalog.Handler, log *slog.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer, cfg config.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.LatencyMiddleware(m))

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	h.Register(r)
	return r
}

// seed imports the store from a previously exported document. The format is
// taken from the file extension.
func seed(ctx context.Context, svc *catalog.Service, path string) error {
	format, err := transfer.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return fmt.Errorf("seed file %s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	if _, err := svc.Import(ctx, f, format, nil); err != nil {
		return fmt.Errorf("seed file %s: %w", path, err)
	}
	return nil
}
