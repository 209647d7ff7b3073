package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/msto63/glox/internal/history"
	"github.com/msto63/glox/internal/server/handler"
	"github.com/msto63/glox/pkg/core/health"
)

func newTestServer(t *testing.T, store history.Store) *httptest.Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.GRPCPort = 0
	cfg.MaxSourceLength = 512
	cfg.History = store

	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type wsReply struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg handler.WSMessage) wsReply {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var reply wsReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return reply
}

func TestNew_InvalidPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HTTPPort = 70000
	if _, err := New(cfg); err == nil {
		t.Error("New() with invalid port should fail")
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	var report health.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if report.Status != health.StatusHealthy {
		t.Errorf("report.Status = %s, want healthy", report.Status)
	}
	if len(report.Checks) != 1 || report.Checks[0].Name != "engine" {
		t.Errorf("report.Checks = %+v, want only the engine check", report.Checks)
	}
}

func TestEvalEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name       string
		source     string
		wantStatus int
		wantCode   string
		wantValue  string
	}{
		{"arithmetic", "1 + 2 * 3", http.StatusOK, "", "7"},
		{"strings", `"a" + "b"`, http.StatusOK, "", "ab"},
		{"syntax", "(1 + 2", http.StatusUnprocessableEntity, handler.CodeSyntaxError, ""},
		{"runtime", `-"x"`, http.StatusUnprocessableEntity, handler.CodeRuntimeError, ""},
		{"overflow", "1" + strings.Repeat("0", 309), http.StatusOK, "", "Infinity"},
		{"too long", strings.Repeat("1+", 300) + "1", http.StatusRequestEntityTooLarge, handler.CodeInvalidLength, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(handler.SourceRequest{Source: tt.source})
			resp, err := http.Post(ts.URL+"/api/v1/eval", "application/json", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("POST error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			if tt.wantCode != "" {
				var e handler.ErrorResponse
				json.NewDecoder(resp.Body).Decode(&e)
				if e.Code != tt.wantCode {
					t.Errorf("code = %q, want %q", e.Code, tt.wantCode)
				}
				return
			}

			var r handler.EvalResponse
			json.NewDecoder(resp.Body).Decode(&r)
			if r.Value != tt.wantValue {
				t.Errorf("value = %q, want %q", r.Value, tt.wantValue)
			}
		})
	}
}

func TestEvalEndpoint_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/v1/eval")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestWebSocket_Eval(t *testing.T) {
	ts := newTestServer(t, nil)
	conn := dial(t, ts)

	reply := roundTrip(t, conn, handler.WSMessage{Type: "eval", ID: "42", Source: "(1 + 2) * 3"})
	if reply.Type != "result" || reply.ID != "42" {
		t.Fatalf("reply = %+v, want result with id 42", reply)
	}

	var payload handler.EvalResponse
	if err := json.Unmarshal(reply.Payload, &payload); err != nil {
		t.Fatalf("payload error = %v", err)
	}
	if payload.Value != "9" {
		t.Errorf("value = %q, want 9", payload.Value)
	}
	if payload.AST != "(* (group (+ 1 2)) 3)" {
		t.Errorf("ast = %q", payload.AST)
	}
	if payload.Session == "" {
		t.Error("session should be set")
	}
}

func TestWebSocket_ErrorsDoNotLeakBetweenMessages(t *testing.T) {
	ts := newTestServer(t, nil)
	conn := dial(t, ts)

	reply := roundTrip(t, conn, handler.WSMessage{Type: "eval", Source: "+"})
	if reply.Type != "error" {
		t.Fatalf("reply.Type = %q, want error", reply.Type)
	}
	if reply.ID == "" {
		t.Error("reply should carry a generated id")
	}

	var e handler.ErrorResponse
	json.Unmarshal(reply.Payload, &e)
	if e.Code != handler.CodeSyntaxError || len(e.Diagnostics) != 1 {
		t.Errorf("error payload = %+v", e)
	}
	if e.Error != "[line 1] Error at '+': Expect expression." {
		t.Errorf("error message = %q", e.Error)
	}

	reply = roundTrip(t, conn, handler.WSMessage{Type: "eval", Source: "true"})
	if reply.Type != "result" {
		t.Errorf("second reply.Type = %q, want result", reply.Type)
	}
}

func TestWebSocket_ParseTokensPing(t *testing.T) {
	ts := newTestServer(t, nil)
	conn := dial(t, ts)

	reply := roundTrip(t, conn, handler.WSMessage{Type: "parse", Source: "-1"})
	var parsed handler.ParseResponse
	json.Unmarshal(reply.Payload, &parsed)
	if reply.Type != "result" || parsed.AST != "(- 1)" {
		t.Errorf("parse reply = %+v / %+v", reply, parsed)
	}

	reply = roundTrip(t, conn, handler.WSMessage{Type: "tokens", Source: "1 + 2"})
	var toks handler.TokensResponse
	json.Unmarshal(reply.Payload, &toks)
	if toks.Count != 4 || toks.Tokens[3].Kind != "EOF" {
		t.Errorf("tokens = %+v", toks)
	}

	reply = roundTrip(t, conn, handler.WSMessage{Type: "tokens", Source: "1" + strings.Repeat("0", 309)})
	toks = handler.TokensResponse{}
	json.Unmarshal(reply.Payload, &toks)
	if reply.Type != "result" || toks.Count != 2 || toks.Tokens[0].Literal != "Infinity" {
		t.Errorf("overflow tokens reply = %+v / %+v", reply, toks)
	}

	reply = roundTrip(t, conn, handler.WSMessage{Type: "ping", ID: "p"})
	if reply.Type != "pong" || reply.ID != "p" {
		t.Errorf("ping reply = %+v", reply)
	}

	reply = roundTrip(t, conn, handler.WSMessage{Type: "bogus"})
	var e handler.ErrorResponse
	json.Unmarshal(reply.Payload, &e)
	if reply.Type != "error" || e.Code != handler.CodeUnknownType {
		t.Errorf("unknown type reply = %+v / %+v", reply, e)
	}
}

func TestWebSocket_RecordsHistory(t *testing.T) {
	store := history.NewMemoryStore()
	ts := newTestServer(t, store)
	conn := dial(t, ts)

	roundTrip(t, conn, handler.WSMessage{Type: "eval", Source: "1 + 1"})
	roundTrip(t, conn, handler.WSMessage{Type: "eval", Source: "1 / 0"})
	roundTrip(t, conn, handler.WSMessage{Type: "parse", Source: "2"})

	entries, _ := store.Recent(context.Background(), 10)
	if len(entries) != 2 {
		t.Fatalf("history has %d entries, want 2", len(entries))
	}
	if entries[0].Output != "2" || entries[0].ExitCode != 0 {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].ExitCode != 70 {
		t.Errorf("second entry exit code = %d, want 70", entries[1].ExitCode)
	}
	if entries[0].SessionID != entries[1].SessionID {
		t.Error("entries from one connection should share a session id")
	}
}

func TestStartStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HTTPPort = 0
	cfg.GRPCPort = 0

	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := srv.StartAsync(); err != nil {
		t.Fatalf("StartAsync() error = %v", err)
	}

	resp, err := http.Get("http://" + srv.Address() + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if srv.GRPCAddress() != "" {
		t.Errorf("GRPCAddress() = %q, want empty when disabled", srv.GRPCAddress())
	}
}

func TestEvalEndpoint_Cache(t *testing.T) {
	ts := newTestServer(t, nil)

	post := func() (*http.Response, handler.EvalResponse) {
		body, _ := json.Marshal(handler.SourceRequest{Source: "10 / 4"})
		resp, err := http.Post(ts.URL+"/api/v1/eval", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("POST error = %v", err)
		}
		defer resp.Body.Close()
		var r handler.EvalResponse
		json.NewDecoder(resp.Body).Decode(&r)
		return resp, r
	}

	first, r1 := post()
	second, r2 := post()

	if first.Header.Get("X-Cache") != "MISS" || second.Header.Get("X-Cache") != "HIT" {
		t.Errorf("X-Cache = %q then %q, want MISS then HIT", first.Header.Get("X-Cache"), second.Header.Get("X-Cache"))
	}
	if r1.Value != "2.5" || r2.Value != "2.5" {
		t.Errorf("values = %q, %q, want 2.5", r1.Value, r2.Value)
	}
	if r1.Session != "" {
		t.Errorf("REST responses should not carry a session, got %q", r1.Session)
	}
}
