package reports

import (
	"weblog-analytics/internal/aggregators"
	"weblog-analytics/internal/models"
	"weblog-analytics/internal/stores"
)

// Definition binds one report artifact to the query producing it. The Name
// doubles as the artifact file name stem.
type Definition struct {
	Name   string
	Labels []string
	Query  func(store stores.RecordStore) (*models.AggregationResult, error)
}

// Options carries the per-run report tuning from configuration.
type Options struct {
	TopPagesN             int
	SuspiciousStatusCodes []int
	SuspiciousMinFailures int
	TimeBucketPrecision   int
	NormalizeUserAgents   bool
}

// Definitions returns the full report set in its fixed artifact order. Every
// query reads a fresh scan of the sealed store, so the definitions may be
// evaluated concurrently.
func Definitions(opts Options) []Definition {
	userAgentKey := aggregators.KeyUserAgent
	if opts.NormalizeUserAgents {
		userAgentKey = aggregators.KeyUserAgentFamily
	}
	suspicious := models.NewStatusSet(opts.SuspiciousStatusCodes...)

	return []Definition{
		{
			Name:   "total_requests",
			Labels: []string{"total_requests"},
			Query: func(store stores.RecordStore) (*models.AggregationResult, error) {
				return aggregators.TotalCount(store.FullScan()), nil
			},
		},
		{
			Name:   "status_code_counts",
			Labels: []string{"status_code", "request_count"},
			Query: func(store stores.RecordStore) (*models.AggregationResult, error) {
				return aggregators.GroupCount(store.FullScan(), aggregators.KeyStatusCode), nil
			},
		},
		{
			Name:   "top_pages",
			Labels: []string{"path", "request_count"},
			Query: func(store stores.RecordStore) (*models.AggregationResult, error) {
				return aggregators.TopN(store.FullScan(), aggregators.KeyPath, opts.TopPagesN)
			},
		},
		{
			Name:   "user_agent_counts",
			Labels: []string{"user_agent", "request_count"},
			Query: func(store stores.RecordStore) (*models.AggregationResult, error) {
				return aggregators.GroupCount(store.FullScan(), userAgentKey), nil
			},
		},
		{
			// The pruned scan only ever reads the suspicious partitions;
			// the predicate repeated here keeps the query honest for any
			// other sequence it might be fed.
			Name:   "suspicious_ips",
			Labels: []string{"client_address", "failure_count"},
			Query: func(store stores.RecordStore) (*models.AggregationResult, error) {
				result := aggregators.ThresholdFilteredGroupCount(
					store.Scan(suspicious),
					aggregators.KeyClientAddress,
					suspicious,
					int64(opts.SuspiciousMinFailures),
				)
				return result, nil
			},
		},
		{
			Name:   "traffic_trends",
			Labels: []string{"time_bucket", "request_count"},
			Query: func(store stores.RecordStore) (*models.AggregationResult, error) {
				return aggregators.TimeBucketedCount(store.FullScan(), opts.TimeBucketPrecision)
			},
		},
	}
}
