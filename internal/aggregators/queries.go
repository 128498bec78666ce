package aggregators

import (
	"cmp"
	"iter"
	"slices"

	"weblog-analytics/internal/models"
)

// The query set. Every query is a pure function over a record sequence,
// typically a store scan: it consumes the sequence once, never mutates
// anything, and tolerates empty input by returning an empty result. Queries
// share no state, so any number of them may run concurrently against the
// same sealed store.

// TotalCount counts every record in the sequence. The result is always a
// single keyless row, zero on empty input.
func TotalCount(records iter.Seq[*models.LogRecord]) *models.AggregationResult {
	var total int64
	for range records {
		total++
	}
	return &models.AggregationResult{Rows: []models.ResultRow{{Key: []string{}, Count: total}}}
}

// GroupCount counts records per key. Rows are ordered by descending count,
// ties by ascending key, so equal inputs always render identically.
func GroupCount(records iter.Seq[*models.LogRecord], key KeyFunc) *models.AggregationResult {
	counts := make(map[string]int64)
	for record := range records {
		counts[key(record)]++
	}
	return &models.AggregationResult{Rows: rankedRows(counts)}
}

// TopN truncates GroupCount's ranking to its first n rows. Fewer than n
// groups yield fewer rows; n below one is an invalid argument.
func TopN(records iter.Seq[*models.LogRecord], key KeyFunc, n int) (*models.AggregationResult, error) {
	if n < 1 {
		return nil, errInvalidTopN(n)
	}
	result := GroupCount(records, key)
	if len(result.Rows) > n {
		result.Rows = result.Rows[:n]
	}
	return result, nil
}

// ThresholdFilteredGroupCount groups the records whose status code satisfies
// the predicate and keeps only groups with a count strictly greater than
// minCount, ranked like GroupCount. Feeding it a pruned scan for the same
// predicate skips excluded partitions wholesale; the per-record check then
// never fires and merely guards arbitrary sequences. A nil predicate admits
// every record.
func ThresholdFilteredGroupCount(records iter.Seq[*models.LogRecord], key KeyFunc, predicate models.StatusPredicate, minCount int64) *models.AggregationResult {
	counts := make(map[string]int64)
	for record := range records {
		if predicate != nil && !predicate.Matches(record.StatusCode) {
			continue
		}
		counts[key(record)]++
	}
	rows := slices.DeleteFunc(rankedRows(counts), func(row models.ResultRow) bool {
		return row.Count <= minCount
	})
	return &models.AggregationResult{Rows: rows}
}

// TimeBucketedCount groups records by the first precision bytes of their
// timestamp and orders buckets ascending, which for the canonical layout is
// chronological order. Precision 16 buckets by minute, 13 by hour, 10 by
// day. Precision beyond the timestamp length degrades to one bucket per
// distinct timestamp.
func TimeBucketedCount(records iter.Seq[*models.LogRecord], precision int) (*models.AggregationResult, error) {
	if precision < 1 {
		return nil, errInvalidBucketPrecision(precision)
	}
	counts := make(map[string]int64)
	for record := range records {
		bucket := record.Timestamp
		if len(bucket) > precision {
			bucket = bucket[:precision]
		}
		counts[bucket]++
	}

	rows := make([]models.ResultRow, 0, len(counts))
	for bucket, count := range counts {
		rows = append(rows, models.ResultRow{Key: []string{bucket}, Count: count})
	}
	slices.SortFunc(rows, func(a, b models.ResultRow) int {
		return cmp.Compare(a.Key[0], b.Key[0])
	})
	return &models.AggregationResult{Rows: rows}, nil
}

// rankedRows renders a count map ordered by descending count, ascending key
// on ties.
func rankedRows(counts map[string]int64) []models.ResultRow {
	rows := make([]models.ResultRow, 0, len(counts))
	for key, count := range counts {
		rows = append(rows, models.ResultRow{Key: []string{key}, Count: count})
	}
	slices.SortStableFunc(rows, func(a, b models.ResultRow) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Key[0], b.Key[0])
	})
	return rows
}
