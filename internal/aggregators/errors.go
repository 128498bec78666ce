package aggregators

import (
	"fmt"

	"weblog-analytics/internal/shared/svcerrors"
)

const (
	codeInvalidQueryArgument = "AGG_1000"
)

// errInvalidTopN returns an error when TopN is asked for fewer than one row.
func errInvalidTopN(n int) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidQueryArgument, fmt.Sprintf("topN requires n >= 1, got %d", n), nil)
}

// errInvalidBucketPrecision returns an error when a time bucket would be an
// empty prefix.
func errInvalidBucketPrecision(precision int) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidQueryArgument, fmt.Sprintf("timeBucketedCount requires precision >= 1, got %d", precision), nil)
}
