package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"notir/internal/hub"
	"notir/internal/message"
	"notir/internal/queue"
)

// ==============================================================================
// WebSocket configuration & constants
// ==============================================================================

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 8192
)

// SubscribeHandler upgrades incoming connections and wires the three
// per-connection tasks (writer, heartbeat, reader) to a registry. One
// instance serves both /single/sub and /broad/sub; which registry a
// given upgrade joins is chosen per-call.
type SubscribeHandler struct {
	Single            *hub.SingleRegistry
	Broadcast         *hub.BroadcastRegistry
	Logger            *slog.Logger
	HeartbeatInterval time.Duration
	upgrader          websocket.Upgrader
}

func NewSubscribeHandler(single *hub.SingleRegistry, broadcast *hub.BroadcastRegistry, logger *slog.Logger, heartbeatInterval time.Duration, allowedOrigins []string) *SubscribeHandler {
	return &SubscribeHandler{
		Single:            single,
		Broadcast:         broadcast,
		Logger:            logger,
		HeartbeatInterval: heartbeatInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		for _, o := range allowedOrigins {
			if o == "*" {
				return true
			}
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowedOrigins {
			if o == origin {
				return true
			}
		}
		return false
	}
}

// Single handles GET /single/sub?id=... — a unicast subscriber joining
// SingleRegistry, whose reader also services reply-slot FIFO delivery.
func (h *SubscribeHandler) Single(w http.ResponseWriter, r *http.Request) {
	params, err := parseSubscribeParams(r)
	if err != nil {
		http.Error(w, "Missing 'id' query parameter", http.StatusBadRequest)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Error("websocket upgrade failed", slog.String("id", params.ID), slog.String("error", err.Error()))
		return
	}

	q := queue.New()
	go hub.RunHeartbeat(q, h.HeartbeatInterval)
	go runWriter(ws, q, h.Logger, params.ID)

	conn := h.Single.Register(params.ID, q)
	h.Logger.Info("single subscriber connected", slog.String("id", params.ID), slog.String("connection_id", string(conn.ID)))

	h.runSingleReader(ws, q, params.ID, conn.ID)
}

// Broadcast handles GET /broad/sub?id=... — a subscriber joining
// BroadcastRegistry; its reader discards every inbound data frame.
func (h *SubscribeHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	params, err := parseSubscribeParams(r)
	if err != nil {
		http.Error(w, "Missing 'id' query parameter", http.StatusBadRequest)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Error("websocket upgrade failed", slog.String("id", params.ID), slog.String("error", err.Error()))
		return
	}

	q := queue.New()
	conn := h.Broadcast.Register(params.ID, q)
	h.Logger.Info("broadcast subscriber connected", slog.String("id", params.ID), slog.String("connection_id", string(conn.ID)))

	go hub.RunHeartbeat(q, h.HeartbeatInterval)
	go runWriter(ws, q, h.Logger, params.ID)

	h.runBroadcastReader(ws, q, params.ID, conn.ID)
}

// ==============================================================================
// Writer task — drains the OutboundQueue to the socket
// ==============================================================================

func runWriter(ws *websocket.Conn, q *queue.Outbound, logger *slog.Logger, id string) {
	defer func() {
		q.Close()
		ws.Close()
	}()

	for {
		m, ok := q.Dequeue()
		if !ok {
			_ = ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}

		_ = ws.SetWriteDeadline(time.Now().Add(writeWait))

		var err error
		switch m.Kind {
		case message.Text:
			err = ws.WriteMessage(websocket.TextMessage, m.Payload)
		case message.Binary:
			err = ws.WriteMessage(websocket.BinaryMessage, m.Payload)
		case message.Ping:
			err = ws.WriteMessage(websocket.PingMessage, m.Payload)
			logger.Debug("sent heartbeat ping", slog.String("id", id))
		case message.Pong:
			err = ws.WriteMessage(websocket.PongMessage, m.Payload)
		case message.Close:
			err = ws.WriteMessage(websocket.CloseMessage, m.Payload)
		}
		if err != nil {
			// The writer observed the failure itself; the reader's next
			// socket read will surface it and drive deregistration. Not
			// logged at error level — this path is expected whenever a
			// peer vanishes mid-write.
			return
		}
	}
}

// ==============================================================================
// Reader tasks — inbound frame loop
// ==============================================================================

func (h *SubscribeHandler) runSingleReader(ws *websocket.Conn, q *queue.Outbound, id string, connID hub.ConnectionID) {
	defer func() {
		q.Close()
		h.disconnectSingle(id, connID)
	}()

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, payload, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.Logger.Warn("single subscriber closed unexpectedly", slog.String("id", id), slog.String("error", err.Error()))
			}
			return
		}
		h.Single.DeliverInbound(id, msgType == websocket.TextMessage, payload)
	}
}

func (h *SubscribeHandler) runBroadcastReader(ws *websocket.Conn, q *queue.Outbound, id string, connID hub.ConnectionID) {
	defer func() {
		q.Close()
		h.disconnectBroadcast(id, connID)
	}()

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.Logger.Warn("broadcast subscriber closed unexpectedly", slog.String("id", id), slog.String("error", err.Error()))
			}
			return
		}
		// Broadcast mode discards every inbound data frame.
	}
}

func (h *SubscribeHandler) disconnectSingle(id string, connID hub.ConnectionID) {
	h.Single.Remove(id, connID)
	h.Logger.Info("single subscriber disconnected", slog.String("id", id), slog.String("connection_id", string(connID)))
}

func (h *SubscribeHandler) disconnectBroadcast(id string, connID hub.ConnectionID) {
	h.Broadcast.Remove(id, connID)
	h.Logger.Info("broadcast subscriber disconnected", slog.String("id", id), slog.String("connection_id", string(connID)))
}
