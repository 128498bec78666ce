package streams

import (
	"weblog-analytics/internal/shared/metrics"
)

var (
	streamRecords = "records"

	metricRecordConsumedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStream,
			Name:      "record_consumed_total",
		},
		[]string{"stream_id", metrics.FieldErrorCode},
	)
)
