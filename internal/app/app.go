package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"weblog-analytics/internal/ingestors"
	"weblog-analytics/internal/jobs"
	"weblog-analytics/internal/ops"
	"weblog-analytics/internal/parsers"
	"weblog-analytics/internal/reports"
	"weblog-analytics/internal/shared/configs"
	"weblog-analytics/internal/shared/filestorages"
	"weblog-analytics/internal/shared/loggers"
	"weblog-analytics/internal/stores"
)

const appName = "weblog-analytics"

const opsShutdownTimeout = 5 * time.Second

// App holds all application dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	runner    jobs.Runner
	opsServer *http.Server
}

// New creates and initializes a new App instance.
func New(config *configs.Config) (*App, error) {
	appLogger, err := loggers.New(config.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, appName).
		Logger()

	// Initialize blob store
	fileStorage, err := newFileStorage(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize ingestion
	store := stores.NewRecordStore()
	parser := parsers.NewLineParser(config.Input.FieldDelimiter)
	ingestionService := ingestors.NewIngestionService(
		fileStorage,
		store,
		parser,
		config.Input.Prefix,
		config.Ingest.Workers,
	)

	// Initialize report publishing
	reportStore := stores.NewReportStore(fileStorage, config.Output.Prefix)
	var archiveStore stores.PartitionArchiveStore
	if config.Output.PersistPartitions {
		archiveStore = stores.NewPartitionArchiveStore(
			fileStorage,
			config.Output.PartitionsPrefix,
			config.Input.FieldDelimiter,
		)
	}
	definitions := reports.Definitions(reports.Options{
		TopPagesN:             config.Reports.TopPagesN,
		SuspiciousStatusCodes: config.Reports.SuspiciousStatusCodes,
		SuspiciousMinFailures: config.Reports.SuspiciousMinFailures,
		TimeBucketPrecision:   config.Reports.TimeBucketPrecision,
		NormalizeUserAgents:   config.Reports.NormalizeUserAgents,
	})

	runner := jobs.NewRunner(ingestionService, store, reportStore, archiveStore, definitions)

	// Initialize the optional ops listener
	var opsServer *http.Server
	if config.Ops.Enabled {
		opsLogger := appLogger.With().Str(loggers.FieldComponent, "ops").Logger()
		opsServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", config.Ops.Port),
			Handler:           ops.NewRouter(appName, opsLogger),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return &App{
		config:    config,
		appLogger: appLogger,
		runner:    runner,
		opsServer: opsServer,
	}, nil
}

func newFileStorage(config *configs.Config) (filestorages.FileStorage, error) {
	switch config.FileStorage.Backend {
	case configs.BackendS3:
		return filestorages.NewS3Storage(config.FileStorage.S3Region, config.FileStorage.S3Bucket)
	case configs.BackendLocal:
		return filestorages.NewLocalStorage(config.FileStorage.RootDir)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", config.FileStorage.Backend)
	}
}

// Run executes one analysis job. The ops listener, when enabled, serves
// health and metrics for the duration of the run and is shut down before
// returning.
func (app *App) Run(ctx context.Context) (*jobs.RunSummary, error) {
	app.appLogger.Info().
		Msgf("Starting %s job (log_level=%s, backend=%s, input_prefix=%s)",
			appName,
			app.config.Log.Level,
			app.config.FileStorage.Backend,
			app.config.Input.Prefix)

	app.startOpsServer()
	defer app.stopOpsServer()

	ctx = app.appLogger.WithContext(ctx)
	return app.runner.Run(ctx)
}

func (app *App) startOpsServer() {
	if app.opsServer == nil {
		return
	}
	go func() {
		app.appLogger.Info().Msgf("ops listener on %s", app.opsServer.Addr)
		if err := app.opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.appLogger.Error().Err(err).Msg("ops listener failed")
		}
	}()
}

func (app *App) stopOpsServer() {
	if app.opsServer == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), opsShutdownTimeout)
	defer cancel()

	if err := app.opsServer.Shutdown(shutdownCtx); err != nil {
		app.appLogger.Error().Err(err).Msg("ops listener shutdown failed")
		return
	}
	app.appLogger.Info().Msg("ops listener stopped")
}
