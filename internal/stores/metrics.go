package stores

import (
	"weblog-analytics/internal/shared/metrics"
)

const (
	outcomeScanned = "scanned"
	outcomePruned  = "pruned"
)

var (
	metricPartitionsCreatedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStore,
			Name:      "partitions_created_total",
		},
		[]string{"partition"},
	)

	// metricScanPartitionsTotal counts partition visits per scan outcome.
	// A predicate scan reports one "pruned" increment for every partition it
	// skipped without reading records.
	metricScanPartitionsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStore,
			Name:      "scan_partitions_total",
		},
		[]string{"outcome"},
	)
)
