package handlers

import (
	"encoding/json"
	"net/http"

	"notir/internal/hub"
)

// ConnectionsHandler implements GET /single/connections?id=...
type ConnectionsHandler struct {
	Single *hub.SingleRegistry
}

func NewConnectionsHandler(single *hub.SingleRegistry) *ConnectionsHandler {
	return &ConnectionsHandler{Single: single}
}

func (h *ConnectionsHandler) Count(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing 'id' query parameter", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Count int `json:"count"`
	}{Count: h.Single.Count(id)})
}
