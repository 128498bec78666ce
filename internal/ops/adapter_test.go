package ops

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"weblog-analytics/internal/shared/svcerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// appHandlerFunc adapts a closure to AppHttpHandler for tests.
type appHandlerFunc func(w http.ResponseWriter, r *http.Request) error

func (f appHandlerFunc) Handle(w http.ResponseWriter, r *http.Request) error {
	return f(w, r)
}

func TestErrorHandlingAdapter_Success(t *testing.T) {
	t.Parallel()

	handler := errorHandlingAdapter(appHandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("fine"))
		return nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "fine", rr.Body.String())
}

func TestErrorHandlingAdapter_MapsCategoriesToStatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		handlerErr       error
		expectedStatus   int
		expectedCategory string
		expectedCode     string
	}{
		{
			name:             "invalid argument maps to 400",
			handlerErr:       svcerrors.NewInvalidArgumentError("AGG_1000", "top pages count must be positive", nil),
			expectedStatus:   http.StatusBadRequest,
			expectedCategory: "invalid_argument",
			expectedCode:     "AGG_1000",
		},
		{
			name:             "internal maps to 500",
			handlerErr:       svcerrors.NewInternalErrorUndefined(errors.New("boom")),
			expectedStatus:   http.StatusInternalServerError,
			expectedCategory: "internal",
			expectedCode:     "SYS_9001",
		},
		{
			name:             "unavailable maps to 503",
			handlerErr:       svcerrors.NewUnavailableError("JOB_9000", "blob store unavailable", errors.New("timeout")),
			expectedStatus:   http.StatusServiceUnavailable,
			expectedCategory: "unavailable",
			expectedCode:     "JOB_9000",
		},
		{
			name:             "plain error becomes undefined internal",
			handlerErr:       errors.New("unexpected"),
			expectedStatus:   http.StatusInternalServerError,
			expectedCategory: "internal",
			expectedCode:     "SYS_9001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := errorHandlingAdapter(appHandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
				return tt.handlerErr
			}))

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var errorResponse ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorResponse))
			assert.Equal(t, tt.expectedCategory, errorResponse.ErrorCategory)
			assert.Equal(t, tt.expectedCode, errorResponse.ErrorCode)
		})
	}
}

func TestErrorHandlingAdapter_EchoesRequestID(t *testing.T) {
	t.Parallel()

	handler := errorHandlingAdapter(appHandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		return svcerrors.NewInvalidArgumentError("AGG_1000", "bad", nil)
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(headerRequestID, "req-42")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var errorResponse ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorResponse))
	assert.Equal(t, "req-42", errorResponse.RequestID)
}
