package jobs

import (
	"weblog-analytics/internal/shared/metrics"
)

var (
	metricQueryExecutedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "query_executed_total",
		},
		[]string{metrics.FieldReport, metrics.FieldErrorCode},
	)

	metricReportWrittenTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubReport,
			Name:      "report_written_total",
		},
		[]string{metrics.FieldReport},
	)

	metricRunCompletedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubJob,
			Name:      "run_completed_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	metricRunDuration = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubJob,
			Name:      "run_duration",
			Buckets:   metrics.DefBuckets,
		},
		[]string{metrics.FieldErrorCode},
	)
)
