package handlers

import "net/http"

// Health implements GET /health. Notir has no downstream process to
// probe, so liveness is simply "the process is answering."
func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("healthy"))
}
