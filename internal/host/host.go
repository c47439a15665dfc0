// Package host implements the Service Host (C2): each examforge service
// exposes a /.well-known/agent.json descriptor and a single JSON-RPC
// endpoint that parses the envelope, routes on the inner payload's
// "action", executes the matching handler, and returns the handler's JSON
// as the response text (spec.md §4.2). handleRPC logs each of the five
// lifecycle states as it passes through them: submitted when the action
// is resolved, working once the handler starts, and a terminal completed/
// failed/canceled — the last reached by racing the handler against the
// request context so a client disconnect or deadline surfaces as
// StateCanceled instead of hanging or reporting a false failure.
//
// Generalized from the teacher's core.BaseAgent.Start HTTP bootstrapping
// (mux, health endpoint, CORS, middleware chain) and from
// original_source/a2a_local/server.py's BaseAgentExecutor state machine.
package host

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/examforge/examforge/internal/model"
	"github.com/examforge/examforge/internal/platform/logging"
	"github.com/examforge/examforge/internal/platform/telemetry"
)

// ActionHandler processes one action's inner payload (already JSON, with
// the "action" field still present) and returns the JSON payload to send
// back, or an error. Handlers never see the envelope itself.
type ActionHandler func(ctx context.Context, payload json.RawMessage) (interface{}, error)

// Host is a stateless JSON-RPC dispatcher for one service. It MUST be
// safe to invoke concurrently (spec.md §5) — Host holds no per-request
// state, only an immutable action table set up before Start.
type Host struct {
	Name    string
	Version string
	BaseURL string

	logger logging.Logger

	mu         sync.RWMutex
	handlers   map[string]ActionHandler
	skills     []string
	httpRoutes map[string]http.HandlerFunc
	metrics    *telemetry.Metrics

	server *http.Server
}

// New creates a Host for the named service.
func New(name, version, baseURL string, logger logging.Logger) *Host {
	return &Host{
		Name:     name,
		Version:  version,
		BaseURL:  baseURL,
		logger:   logger,
		handlers: make(map[string]ActionHandler),
		metrics:  telemetry.NewMetrics("examforge/" + name),
	}
}

// Register adds an action handler and advertises it as a skill on the
// agent card. Registration happens during setup, before Start — it is
// not safe to call concurrently with request handling.
func (h *Host) Register(action string, handler ActionHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[action] = handler
	h.skills = append(h.skills, action)
}

// RegisterHTTP adds a plain HTTP route alongside the JSON-RPC endpoint,
// for façade-only surfaces like the Orchestrator's GET /agents health
// aggregate and its debug /api/questions/* endpoints (SPEC_FULL.md §C).
// Like Register, this is setup-time only, not safe during request
// handling.
func (h *Host) RegisterHTTP(pattern string, handler http.HandlerFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.httpRoutes == nil {
		h.httpRoutes = make(map[string]http.HandlerFunc)
	}
	h.httpRoutes[pattern] = handler
}

func (h *Host) agentCard() model.AgentCard {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return model.AgentCard{
		Name:    h.Name,
		Version: h.Version,
		BaseURL: h.BaseURL,
		Skills:  append([]string(nil), h.skills...),
	}
}

// ServeHTTP implements http.Handler: it routes GET /.well-known/agent.json
// to the descriptor, and POST / to the JSON-RPC dispatcher.
func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	route, ok := h.httpRoutes[r.URL.Path]
	h.mu.RUnlock()
	if ok {
		route(w, r)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/.well-known/agent.json":
		h.handleAgentCard(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/":
		h.handleRPC(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *Host) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.agentCard())
}

func (h *Host) handleRPC(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeResult(w, 0, model.StateFailed, "Invalid JSON in task message")
		return
	}

	correlationID := req.Params.Message.MessageID
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	ctx = logging.WithCorrelationID(ctx, correlationID)

	text := req.Params.Message.FirstText()
	var payload json.RawMessage
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		if h.logger != nil {
			h.logger.WarnWithContext(ctx, "invalid inner JSON payload", map[string]interface{}{"raw": text})
		}
		h.writeResult(w, req.ID, model.StateFailed, "Invalid JSON in task message")
		return
	}

	var discriminator model.Payload
	if err := json.Unmarshal(payload, &discriminator); err != nil || discriminator.Action == "" {
		h.writeResult(w, req.ID, model.StateFailed, "Invalid JSON in task message")
		return
	}

	h.mu.RLock()
	handler, ok := h.handlers[discriminator.Action]
	h.mu.RUnlock()
	if !ok {
		h.writeResult(w, req.ID, model.StateFailed, fmt.Sprintf("unknown action %q", discriminator.Action))
		return
	}

	if h.logger != nil {
		h.logger.InfoWithContext(ctx, "task submitted", map[string]interface{}{"action": discriminator.Action, "state": model.StateSubmitted})
	}

	start := time.Now()

	type handlerOutcome struct {
		out interface{}
		err error
	}
	done := make(chan handlerOutcome, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- handlerOutcome{nil, fmt.Errorf("panic in handler %q: %v", discriminator.Action, rec)}
			}
		}()
		if h.logger != nil {
			h.logger.InfoWithContext(ctx, "task working", map[string]interface{}{"action": discriminator.Action, "state": model.StateWorking})
		}
		out, err := handler(ctx, payload)
		done <- handlerOutcome{out, err}
	}()

	var out interface{}
	var err error
	select {
	case <-ctx.Done():
		elapsed := time.Since(start)
		if h.logger != nil {
			h.logger.WarnWithContext(ctx, "task canceled", map[string]interface{}{
				"action":     discriminator.Action,
				"elapsed_ms": elapsed.Milliseconds(),
				"error":      ctx.Err().Error(),
			})
		}
		h.metrics.RecordRequest(ctx, discriminator.Action, "canceled", elapsed.Seconds())
		h.writeResult(w, req.ID, model.StateCanceled, "request canceled")
		return
	case outcome := <-done:
		out, err = outcome.out, outcome.err
	}
	elapsed := time.Since(start)

	if err != nil {
		if h.logger != nil {
			h.logger.ErrorWithContext(ctx, "task failed", map[string]interface{}{
				"action":     discriminator.Action,
				"elapsed_ms": elapsed.Milliseconds(),
				"error":      err.Error(),
			})
		}
		h.metrics.RecordRequest(ctx, discriminator.Action, "error", elapsed.Seconds())
		h.writeResult(w, req.ID, model.StateFailed, err.Error())
		return
	}

	data, err := json.Marshal(out)
	if err != nil {
		h.metrics.RecordRequest(ctx, discriminator.Action, "encode_error", elapsed.Seconds())
		h.writeResult(w, req.ID, model.StateFailed, fmt.Sprintf("encode response: %v", err))
		return
	}

	if h.logger != nil {
		h.logger.InfoWithContext(ctx, "task completed", map[string]interface{}{
			"action":     discriminator.Action,
			"elapsed_ms": elapsed.Milliseconds(),
		})
	}

	h.metrics.RecordRequest(ctx, discriminator.Action, "completed", elapsed.Seconds())
	h.writeMessage(w, req.ID, model.StateCompleted, string(data))
}

func (h *Host) writeResult(w http.ResponseWriter, id int, state string, text string) {
	h.writeMessage(w, id, state, fmt.Sprintf(`{"success":false,"error":%q}`, text))
}

func (h *Host) writeMessage(w http.ResponseWriter, id int, state string, text string) {
	resp := model.Response{
		JSONRPC: "2.0",
		ID:      id,
		Result: &model.Result{
			Status: model.Status{
				State: state,
				Message: model.Message{
					Role:      "agent",
					MessageID: uuid.NewString(),
					Parts:     []model.Part{{Text: text}},
				},
			},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// Start binds and serves the host on addr. It blocks until ctx is
// canceled, then shuts down gracefully.
func (h *Host) Start(ctx context.Context, addr string) error {
	h.server = &http.Server{
		Addr:              addr,
		Handler:           RecoveryMiddleware(h.logger)(h),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return h.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// RecoveryMiddleware recovers from panics in the wrapped handler so a
// single bad request never crashes the service, mirroring the teacher's
// core.RecoveryMiddleware.
func RecoveryMiddleware(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if logger != nil {
						logger.Error("recovered from panic", map[string]interface{}{"panic": fmt.Sprintf("%v", rec)})
					}
					http.Error(w, "internal error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
