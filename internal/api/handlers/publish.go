package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"notir/internal/hub"
	"notir/internal/message"
)

// PublishHandler implements /single/pub and /broad/pub.
type PublishHandler struct {
	Single       *hub.SingleRegistry
	Broadcast    *hub.BroadcastRegistry
	Logger       *slog.Logger
	ReplyTimeout time.Duration
}

func NewPublishHandler(single *hub.SingleRegistry, broadcast *hub.BroadcastRegistry, logger *slog.Logger, replyTimeout time.Duration) *PublishHandler {
	return &PublishHandler{
		Single:       single,
		Broadcast:    broadcast,
		Logger:       logger,
		ReplyTimeout: replyTimeout,
	}
}

// Single handles POST /single/pub?id=...&mode=shot|ping_pong.
func (h *PublishHandler) Single(w http.ResponseWriter, r *http.Request) {
	params, err := parsePublishParams(r)
	if err != nil {
		http.Error(w, "Missing or invalid 'id'/'mode' query parameter", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return
	}

	m, invalidUTF8 := encodeBody(r.Header.Get("Content-Type"), body)
	if invalidUTF8 {
		http.Error(w, "Invalid UTF-8 in body", http.StatusBadRequest)
		return
	}

	if params.Mode == "ping_pong" {
		h.singlePingPong(w, params.ID, m)
		return
	}
	h.singleShot(w, params.ID, m)
}

// singleShot tries each live subscriber under id in turn, lazily pruning
// any whose queue has already closed, until one accepts the message or
// none remain.
func (h *PublishHandler) singleShot(w http.ResponseWriter, id string, m message.Message) {
	for {
		conn, ok := h.Single.PickLive(id)
		if !ok {
			http.Error(w, "No subscriber for id", http.StatusNotFound)
			return
		}
		if err := conn.Queue.Enqueue(m); err != nil {
			h.Single.Remove(id, conn.ID)
			continue
		}
		w.WriteHeader(http.StatusOK)
		return
	}
}

// singlePingPong implements the request/reply path: a slot is pushed
// before the request is sent so the reply can never race ahead of its
// own registration, then the handler blocks up to ReplyTimeout for the
// subscriber's response.
func (h *PublishHandler) singlePingPong(w http.ResponseWriter, id string, m message.Message) {
	conn, ok := h.Single.PickLive(id)
	if !ok {
		http.Error(w, "No subscriber for id", http.StatusNotFound)
		return
	}

	slot := h.Single.PushSlot(id)

	if err := conn.Queue.Enqueue(m); err != nil {
		h.Single.Remove(id, conn.ID)
		h.Single.PopSlotByID(id, slot.ID)
		http.Error(w, "No subscriber for id", http.StatusNotFound)
		return
	}

	payload, delivered, ok := slot.Await(h.ReplyTimeout)
	switch {
	case !ok:
		h.Single.PopSlotByID(id, slot.ID)
		http.Error(w, fmt.Sprintf("Request timeout after %g seconds", h.ReplyTimeout.Seconds()), http.StatusRequestTimeout)
	case !delivered:
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
	}
}

// Broadcast handles POST /broad/pub?id=...: fan out to every live
// subscriber, lazily pruning any whose queue has closed, and always
// answer 200 on a well-formed request regardless of recipient count.
func (h *PublishHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing 'id' query parameter", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return
	}

	m, invalidUTF8 := encodeBody(r.Header.Get("Content-Type"), body)
	if invalidUTF8 {
		http.Error(w, "Invalid UTF-8 in body", http.StatusBadRequest)
		return
	}

	snapshot := h.Broadcast.Snapshot(id)
	var dead []hub.ConnectionID
	for _, conn := range snapshot {
		if err := conn.Queue.Enqueue(m); err != nil {
			dead = append(dead, conn.ID)
		}
	}
	h.Broadcast.RemoveMany(id, dead)

	w.WriteHeader(http.StatusOK)
}
