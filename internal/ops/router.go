package ops

import (
	"net/http"

	"weblog-analytics/internal/shared/loggers"
	"weblog-analytics/internal/shared/metrics"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates and configures the ops router. It serves liveness and
// metrics only; the analysis job itself never runs behind HTTP.
func NewRouter(app string, opsLogger loggers.Logger) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, opsLogger)

	statusHandler := NewStatusHandler(app)

	router.Get("/healthz", errorHandlingAdapter(statusHandler))
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	return router
}
