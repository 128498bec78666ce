package ingestors

import (
	"fmt"

	"weblog-analytics/internal/shared/svcerrors"
)

const (
	codeInputStorageUnavailable = "ING_9000"
)

// errInputStorageUnavailable returns an error when the input side of the
// blob store cannot be listed or read. It aborts the whole run; malformed
// lines never produce it.
func errInputStorageUnavailable(cause error) *svcerrors.ServiceError {
	return svcerrors.NewUnavailableError(codeInputStorageUnavailable, "input storage unreachable", fmt.Errorf("inputStorageFailed: %w", cause))
}
