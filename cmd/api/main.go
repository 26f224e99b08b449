package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"transitgeo.cartes.app/internal/app"
	"transitgeo.cartes.app/internal/appconf"
	"transitgeo.cartes.app/internal/gtfs"
	"transitgeo.cartes.app/internal/logging"
	"transitgeo.cartes.app/internal/report"
	"transitgeo.cartes.app/internal/restapi"
	"transitgeo.cartes.app/internal/webui"
)

const version = "1.0.0"

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, gtfsCfg, logLevel, err := parseConfig(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(logLevel))
	slog.SetDefault(logger)

	if err := report.SetupSentry(os.Getenv("SENTRY_DSN"), cfg.Env.String()); err != nil {
		logging.LogError(logger, "failed to initialize sentry", err)
	}
	defer report.FlushSentry()
	report.ConfigureScope(cfg.Env.String(), version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gtfsManager, err := gtfs.InitGTFSManager(ctx, gtfsCfg, logger)
	if err != nil {
		report.ReportError(err, report.SentryReportOptions{
			Level:        sentry.LevelFatal,
			ExtraContext: map[string]interface{}{"gtfs_source": gtfsCfg.GtfsURL},
		})
		logging.LogError(logger, "failed to initialize GTFS manager", err)
		report.FlushSentry()
		os.Exit(1)
	}
	defer gtfsManager.Shutdown()
	gtfsManager.LogStatistics(ctx)

	application := &app.Application{
		Config:      cfg,
		GtfsConfig:  gtfsCfg,
		Logger:      logger,
		GtfsManager: gtfsManager,
	}
	api := restapi.NewRestAPI(application)
	defer api.Shutdown()

	var extraRoutes []func(*httprouter.Router)
	if cfg.Env != appconf.Production {
		extraRoutes = append(extraRoutes, webui.New(application).SetWebUIRoutes)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Handler(extraRoutes...),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 2 * time.Minute,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	if err := serve(ctx, srv, logger); err != nil {
		report.ReportError(err, report.SentryReportOptions{Level: sentry.LevelFatal})
		logging.LogError(logger, "server stopped", err)
		report.FlushSentry()
		os.Exit(1)
	}
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
