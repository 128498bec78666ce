package jobs

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"weblog-analytics/internal/ingestors"
	"weblog-analytics/internal/reports"
	"weblog-analytics/internal/shared/loggers"
	"weblog-analytics/internal/shared/metrics"
	"weblog-analytics/internal/shared/svcerrors"
	"weblog-analytics/internal/shared/ulid"
	"weblog-analytics/internal/stores"

	"github.com/dustin/go-humanize"
)

// Runner drives one end-to-end analysis run: ingest every input source into
// the partitioned store, evaluate the report set against the sealed store,
// then publish the formatted reports.
//
//go:generate mockgen -source=runner.go -destination=./mocks/runner_mock.go -package=mocks
type Runner interface {
	Run(ctx context.Context) (*RunSummary, error)
}

// RunSummary reports what one run did.
type RunSummary struct {
	RunID             string
	Duration          time.Duration
	Ingest            *ingestors.IngestStats
	ReportsWritten    []string
	ReportsFailed     []string
	PartitionsWritten []string
}

type runner struct {
	ingestionService ingestors.IngestionService
	store            stores.RecordStore
	reportStore      stores.ReportStore
	archiveStore     stores.PartitionArchiveStore
	definitions      []reports.Definition
}

// NewRunner assembles the job driver. archiveStore may be nil to skip the
// partition export phase.
func NewRunner(
	ingestionService ingestors.IngestionService,
	store stores.RecordStore,
	reportStore stores.ReportStore,
	archiveStore stores.PartitionArchiveStore,
	definitions []reports.Definition,
) Runner {
	return &runner{
		ingestionService: ingestionService,
		store:            store,
		reportStore:      reportStore,
		archiveStore:     archiveStore,
		definitions:      definitions,
	}
}

func (r *runner) Run(ctx context.Context) (summary *RunSummary, err error) {
	runID := ulid.NewULID()
	startedAt := time.Now()

	logger := loggers.Ctx(ctx).With().Str(loggers.FieldRunID, runID).Logger()
	ctx = logger.WithContext(ctx)

	defer func() {
		errorCode := metrics.ValueNoError
		if err != nil {
			svcErr, ok := svcerrors.AsServiceError(err)
			if !ok {
				svcErr = svcerrors.NewInternalErrorUndefined(err)
			}
			errorCode = svcErr.Code
		}
		metricRunCompletedTotal.WithLabelValues(errorCode).Inc()
		metricRunDuration.WithLabelValues(errorCode).Observe(time.Since(startedAt).Seconds())
	}()

	logger.Info().Msg("starting analysis run")

	stats, err := r.ingestionService.Ingest(ctx)
	if err != nil {
		return nil, errStoreUnavailable(err)
	}

	results := r.runQueries(ctx)

	// Every query has finished; nothing was written before this point.
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	summary = &RunSummary{RunID: runID, Ingest: stats}
	for _, result := range results {
		if result.err != nil {
			summary.ReportsFailed = append(summary.ReportsFailed, result.name)
			continue
		}
		var key string
		key, err = r.reportStore.Put(ctx, result.name, result.text)
		if err != nil {
			return nil, errStoreUnavailable(err)
		}
		metricReportWrittenTotal.WithLabelValues(result.name).Inc()
		summary.ReportsWritten = append(summary.ReportsWritten, key)
	}

	if r.archiveStore != nil {
		var keys []string
		keys, err = r.archiveStore.Archive(ctx, r.store)
		if err != nil {
			return nil, errStoreUnavailable(err)
		}
		summary.PartitionsWritten = keys
	}

	summary.Duration = time.Since(startedAt)

	logger.Info().
		Int64("lines", stats.Lines).
		Int64("ingested", stats.Ingested).
		Int64("rejected", stats.Rejected).
		Str("bytes_read", humanize.Bytes(uint64(stats.BytesRead))).
		Int("reports_written", len(summary.ReportsWritten)).
		Int("reports_failed", len(summary.ReportsFailed)).
		Int64(loggers.FieldDuration, summary.Duration.Milliseconds()).
		Msg("analysis run completed")

	return summary, nil
}

type queryResult struct {
	name string
	text string
	err  error
}

// runQueries evaluates every report definition in parallel against the
// sealed store and joins before returning.
func (r *runner) runQueries(ctx context.Context) []queryResult {
	results := make([]queryResult, len(r.definitions))
	var wg sync.WaitGroup
	for i, definition := range r.definitions {
		wg.Add(1)
		go func() {
			defer wg.Done()

			results[i] = r.runQuery(ctx, definition)
		}()
	}
	wg.Wait()
	return results
}

func (r *runner) runQuery(ctx context.Context, definition reports.Definition) (out queryResult) {
	out.name = definition.Name

	// Panic recovery keeps one bad query from taking the run down with it.
	defer func() {
		if p := recover(); p != nil {
			loggers.Ctx(ctx).Error().
				Str(loggers.FieldReport, definition.Name).
				Bytes(loggers.FieldErrorStack, debug.Stack()).
				Msg("query panic recovered")

			var panicErr error
			if err, ok := p.(error); ok {
				panicErr = err
			} else {
				panicErr = fmt.Errorf("%v", p)
			}
			svcErr := svcerrors.NewInternalErrorPanic(panicErr)
			metricQueryExecutedTotal.WithLabelValues(definition.Name, svcErr.Code).Inc()
			out.err = svcErr
		}
	}()

	result, err := definition.Query(r.store)
	if err != nil {
		out.err = r.failQuery(ctx, definition.Name, err)
		return out
	}

	text, err := reports.Format(result, definition.Labels)
	if err != nil {
		out.err = r.failQuery(ctx, definition.Name, err)
		return out
	}

	out.text = text
	metricQueryExecutedTotal.WithLabelValues(definition.Name, metrics.ValueNoError).Inc()
	return out
}

// failQuery logs and counts one failed report query. The run carries on
// without that report.
func (r *runner) failQuery(ctx context.Context, name string, err error) error {
	svcErr, ok := svcerrors.AsServiceError(err)
	if !ok {
		svcErr = svcerrors.NewInternalErrorUndefined(err)
	}
	loggers.Ctx(ctx).Warn().
		Err(err).
		Str(loggers.FieldReport, name).
		Msg("report query failed")
	metricQueryExecutedTotal.WithLabelValues(name, svcErr.Code).Inc()
	return svcErr
}
