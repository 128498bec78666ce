package ops

import (
	"encoding/json"
	"net/http"
)

type AppHttpHandler interface {
	Handle(w http.ResponseWriter, r *http.Request) error
}

// StatusResponse is the healthz payload.
type StatusResponse struct {
	App    string `json:"app"`
	Status string `json:"status"`
}

type statusHandler struct {
	app string
}

func NewStatusHandler(app string) AppHttpHandler {
	return &statusHandler{app: app}
}

// Handle serves GET /healthz. The listener only runs while a job is in
// flight, so reachable means healthy.
func (h *statusHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	payload, err := json.Marshal(StatusResponse{App: h.app, Status: "ok"})
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
	return nil
}
