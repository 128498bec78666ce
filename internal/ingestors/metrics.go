package ingestors

import (
	"weblog-analytics/internal/shared/metrics"
)

var (
	metricSourceIngestedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngest,
			Name:      "source_ingested_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	metricRecordPublishedTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngest,
			Name:      "record_published_total",
		},
	)

	metricLineRejectedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngest,
			Name:      "line_rejected_total",
		},
		[]string{metrics.FieldReason},
	)
)
