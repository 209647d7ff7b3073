package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/msto63/glox/foundation/lox"
	"github.com/msto63/glox/internal/history"
	"github.com/msto63/glox/pkg/core/logging"
)

const (
	readTimeout  = 120 * time.Second
	writeTimeout = 10 * time.Second
)

// WebSocket upgrader with permissive settings for local development
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WebSocketHandler evaluates Lox sources sent over WebSocket connections.
// Each connection owns one lox.Session, so diagnostics never leak between
// clients.
type WebSocketHandler struct {
	engine    *lox.Engine
	history   history.Store
	maxSource int
	logger    *logging.Logger
}

// NewWebSocketHandler creates a new WebSocket handler. store may be nil.
func NewWebSocketHandler(engine *lox.Engine, store history.Store, maxSource int) *WebSocketHandler {
	return &WebSocketHandler{
		engine:    engine,
		history:   store,
		maxSource: maxSource,
		logger:    logging.New("glox-websocket"),
	}
}

// WSMessage represents a client request
type WSMessage struct {
	Type   string `json:"type"` // "eval", "parse", "tokens", "ping"
	ID     string `json:"id,omitempty"`
	Source string `json:"source,omitempty"`
}

// WSResponse represents a server reply
type WSResponse struct {
	Type    string      `json:"type"` // "result", "error", "pong"
	ID      string      `json:"id"`
	Payload interface{} `json:"payload,omitempty"`
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

// handleConnection serves one connection until the client goes away
func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	if h.maxSource > 0 {
		// JSON framing around the source
		conn.SetReadLimit(int64(h.maxSource) + 4096)
	}

	session := h.engine.NewSession(nil)
	logger := h.logger.With("conn", session.ID())
	logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error", "error", err)
			} else {
				logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.ID == "" {
			msg.ID = uuid.New().String()
		}

		// One input, one set of diagnostics
		session.Reset()

		switch msg.Type {
		case "ping":
			h.send(conn, WSResponse{Type: "pong", ID: msg.ID})

		case "eval":
			resp, failed := runResponse(session, msg.Source)
			h.record(ctx, session.ID(), msg.Source, resp, failed)
			h.reply(conn, msg.ID, resp, failed)

		case "parse":
			resp, failed := parseResponse(session, msg.Source)
			h.reply(conn, msg.ID, resp, failed)

		case "tokens":
			resp, failed := scanResponse(session, msg.Source)
			h.reply(conn, msg.ID, resp, failed)

		default:
			h.send(conn, WSResponse{
				Type:    "error",
				ID:      msg.ID,
				Payload: ErrorResponse{Code: CodeUnknownType, Error: "Unknown message type: " + msg.Type},
			})
		}
	}
}

func (h *WebSocketHandler) reply(conn *websocket.Conn, id string, payload interface{}, failed *ErrorResponse) {
	if failed != nil {
		h.send(conn, WSResponse{Type: "error", ID: id, Payload: failed})
		return
	}
	h.send(conn, WSResponse{Type: "result", ID: id, Payload: payload})
}

// record appends an evaluated source to the history store, if any
func (h *WebSocketHandler) record(ctx context.Context, sessionID, source string, resp EvalResponse, failed *ErrorResponse) {
	if h.history == nil {
		return
	}

	entry := &history.Entry{SessionID: sessionID, Source: source, Output: resp.Value, ExitCode: resp.ExitCode}
	if failed != nil {
		entry.Output = failed.Error
		entry.ExitCode = failed.ExitCode
	}
	if err := h.history.Append(ctx, entry); err != nil {
		h.logger.Warn("Failed to record history", "error", err)
	}
}

// send sends a response message via WebSocket
func (h *WebSocketHandler) send(conn *websocket.Conn, resp WSResponse) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.Error("WebSocket send error", "error", err)
	}
}
