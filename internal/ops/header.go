package ops

import (
	"net/http"
	"strings"
)

const headerRequestID = "x-request-id"

func requestID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(headerRequestID))
}

func setRequestID(r *http.Request, requestID string) {
	r.Header.Set(headerRequestID, requestID)
}
