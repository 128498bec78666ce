package parsers

import (
	"errors"
	"fmt"
)

// RejectReason classifies why a raw line could not become a LogRecord.
type RejectReason string

const (
	RejectFieldCount       RejectReason = "field_count_mismatch"
	RejectInvalidStatus    RejectReason = "invalid_status_code"
	RejectInvalidTimestamp RejectReason = "invalid_timestamp"
	RejectEmptyField       RejectReason = "empty_field"
)

// Reasons lists every reject reason in reporting order.
func Reasons() []RejectReason {
	return []RejectReason{
		RejectFieldCount,
		RejectInvalidStatus,
		RejectInvalidTimestamp,
		RejectEmptyField,
	}
}

// RejectError reports a single malformed line. It is recovered per line by
// the ingestor (counted, logged, job continues) and never crosses the driver
// boundary, so it is a plain error rather than a ServiceError.
type RejectError struct {
	Reason RejectReason
	Detail string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// AsRejectError extracts a RejectError from the error chain.
func AsRejectError(err error) (*RejectError, bool) {
	var rejErr *RejectError
	if errors.As(err, &rejErr) {
		return rejErr, true
	}
	return nil, false
}
