package reports

import (
	"fmt"

	"weblog-analytics/internal/shared/svcerrors"
)

const (
	codeSchemaMismatch = "RPT_1000"
)

// errSchemaMismatch returns an error when the column labels cannot describe
// the result rows.
func errSchemaMismatch(labelCount, arity int) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeSchemaMismatch, fmt.Sprintf("schemaMismatch: %d column labels for rows of arity %d", labelCount, arity), nil)
}

// errMalformedTable returns an error when a re-parsed line disagrees with the
// header's cell count.
func errMalformedTable(line, cells, want int) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeSchemaMismatch, fmt.Sprintf("schemaMismatch: line %d has %d cells, header has %d", line, cells, want), nil)
}

// errEmptyTable returns an error when there is no text to parse at all.
func errEmptyTable() *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeSchemaMismatch, "schemaMismatch: empty table", nil)
}
