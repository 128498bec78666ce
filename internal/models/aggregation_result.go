package models

// ResultRow is one output row of an aggregation query: the grouping key cells
// followed by a count. TotalCount rows have no key cells.
type ResultRow struct {
	Key   []string
	Count int64
}

// Arity returns the number of output columns the row occupies.
func (r ResultRow) Arity() int {
	return len(r.Key) + 1
}

// AggregationResult is an ordered sequence of rows produced by one query.
// Row order is part of the query contract, not incidental: ranked queries sort
// by descending count with ascending-key tie-break, time-bucketed queries sort
// ascending by bucket. Formatters must preserve it.
type AggregationResult struct {
	Rows []ResultRow
}

// Empty reports whether the result carries no rows. Queries over empty input
// produce an empty result, never an error.
func (r *AggregationResult) Empty() bool {
	return len(r.Rows) == 0
}
