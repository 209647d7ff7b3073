package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/msto63/glox/foundation/lox"
	"github.com/msto63/glox/pkg/core/cache"
	"github.com/msto63/glox/pkg/core/health"
	"github.com/msto63/glox/pkg/core/logging"
)

// InfoResponse describes the server on the root route
type InfoResponse struct {
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Uptime    string   `json:"uptime"`
	Endpoints []string `json:"endpoints"`
}

// Handler handles the HTTP API of the evaluation server
type Handler struct {
	engine    *lox.Engine
	health    *health.Registry
	logger    *logging.Logger
	startTime time.Time
	version   string
	maxBody   int64
	results   *cache.Cache[any] // successful responses by route and source
}

// NewHandler creates a new API handler. maxSource bounds request bodies;
// results may be nil to disable response caching.
func NewHandler(version string, engine *lox.Engine, registry *health.Registry, maxSource int, results *cache.Cache[any]) *Handler {
	return &Handler{
		engine:    engine,
		health:    registry,
		logger:    logging.New("glox-handler"),
		startTime: time.Now(),
		version:   version,
		// JSON framing around the source
		maxBody: int64(maxSource) + 4096,
		results: results,
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	path = strings.Trim(path, "/")

	switch path {
	case "":
		h.handleRoot(w, r)
	case "health":
		h.handleHealth(w, r)
	case "eval":
		h.handleEval(w, r)
	case "parse":
		h.handleParse(w, r)
	case "tokens":
		h.handleTokens(w, r)
	default:
		h.writeError(w, http.StatusNotFound, ErrorResponse{Code: "not_found", Error: "Unknown endpoint: " + r.URL.Path})
	}
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, InfoResponse{
		Service: "glox",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		Endpoints: []string{
			"GET /health",
			"GET /ws",
			"POST /api/v1/eval",
			"POST /api/v1/parse",
			"POST /api/v1/tokens",
		},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, ErrorResponse{Code: "method_not_allowed", Error: "Use GET"})
		return
	}

	report := h.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, report)
}

func (h *Handler) handleEval(w http.ResponseWriter, r *http.Request) {
	req, ok := h.source(w, r)
	if !ok {
		return
	}

	h.cached(w, "eval", req.Source, func() (any, *ErrorResponse) {
		resp, failed := runResponse(h.engine.NewSession(nil), req.Source)
		// Sessions are per request; a cached reply must not claim one
		resp.Session = ""
		return resp, failed
	})
}

func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) {
	req, ok := h.source(w, r)
	if !ok {
		return
	}

	h.cached(w, "parse", req.Source, func() (any, *ErrorResponse) {
		return parseResponse(h.engine.NewSession(nil), req.Source)
	})
}

func (h *Handler) handleTokens(w http.ResponseWriter, r *http.Request) {
	req, ok := h.source(w, r)
	if !ok {
		return
	}

	h.cached(w, "tokens", req.Source, func() (any, *ErrorResponse) {
		return scanResponse(h.engine.NewSession(nil), req.Source)
	})
}

// cached serves a stored response for (kind, src) or computes and stores
// it. Failures are never cached.
func (h *Handler) cached(w http.ResponseWriter, kind, src string, compute func() (any, *ErrorResponse)) {
	key := cache.Key(kind, src)
	if h.results != nil {
		if v, ok := h.results.Get(key); ok {
			w.Header().Set("X-Cache", "HIT")
			h.writeJSON(w, http.StatusOK, v)
			return
		}
		w.Header().Set("X-Cache", "MISS")
	}

	resp, failed := compute()
	if failed != nil {
		h.writeError(w, statusFor(failed), *failed)
		return
	}

	if h.results != nil {
		h.results.Set(key, resp)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// source decodes a POSTed SourceRequest, writing the error response itself
func (h *Handler) source(w http.ResponseWriter, r *http.Request) (SourceRequest, bool) {
	var req SourceRequest
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, ErrorResponse{Code: "method_not_allowed", Error: "Use POST"})
		return req, false
	}

	if err := h.readJSON(w, r, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, ErrorResponse{Code: CodeInvalidLength, Error: "Request body too large"})
			return req, false
		}
		h.writeError(w, http.StatusBadRequest, ErrorResponse{Code: CodeInvalidRequest, Error: "Invalid JSON body"})
		return req, false
	}
	return req, true
}

func statusFor(resp *ErrorResponse) int {
	switch resp.Code {
	case CodeSyntaxError, CodeRuntimeError:
		return http.StatusUnprocessableEntity
	case CodeInvalidLength:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Helper methods

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, resp ErrorResponse) {
	h.writeJSON(w, status, resp)
}
