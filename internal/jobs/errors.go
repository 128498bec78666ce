package jobs

import (
	"fmt"

	"weblog-analytics/internal/shared/svcerrors"
)

const (
	codeStoreUnavailable = "JOB_9000"
)

// errStoreUnavailable returns an error when the blob store fails during a
// run, on the ingest side or the export side. It is fatal to the run.
func errStoreUnavailable(cause error) *svcerrors.ServiceError {
	return svcerrors.NewUnavailableError(codeStoreUnavailable, "blob store unavailable", fmt.Errorf("blobStoreFailed: %w", cause))
}
