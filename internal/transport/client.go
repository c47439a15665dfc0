// Package transport implements the JSON-RPC 2.0 envelope exchange
// between examforge services (spec.md §4.1/§6): request/response framing,
// correlation IDs, per-call timeouts, and structured call logging,
// generalized from original_source/a2a_local/client.py's A2AClient.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/examforge/examforge/internal/model"
	"github.com/examforge/examforge/internal/platform/logging"
)

var tracer = otel.Tracer("examforge/transport")

// Endpoint identifies a peer service by name and base URL, matching
// original_source/a2a_local/client.py's AgentEndpoint.
type Endpoint struct {
	Name    string
	BaseURL string
}

// Client sends JSON-RPC envelopes to peer services over a single shared
// HTTP client (spec.md §5: "HTTP client per service: one shared pool").
type Client struct {
	httpClient *http.Client
	callerName string
	logger     logging.Logger
	nextID     int
}

// NewClient builds a Client with the given default timeout.
func NewClient(callerName string, timeout time.Duration, logger logging.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		callerName: callerName,
		logger:     logger,
		nextID:     1,
	}
}

// SendAction marshals body as the inner payload (stamping "action"),
// wraps it in an envelope, posts it to endpoint, and returns the peer's
// decoded inner JSON payload or a transport error. Honors ctx's deadline
// in addition to the client's configured timeout.
func (c *Client) SendAction(ctx context.Context, endpoint Endpoint, action string, body interface{}, out interface{}) error {
	ctx, span := tracer.Start(ctx, "transport.send",
		trace.WithAttributes(
			attribute.String("peer.name", endpoint.Name),
			attribute.String("rpc.method", "message/send"),
			attribute.String("skill", action),
		))
	defer span.End()

	payload, err := mergeAction(action, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("encode payload: %w", err)
	}

	req := model.Request{
		JSONRPC: "2.0",
		ID:      c.nextRequestID(),
		Method:  "message/send",
		Params: model.Params{
			Message: model.Message{
				Role:      "user",
				MessageID: uuid.NewString(),
				Parts:     []model.Part{{Text: string(payload)}},
			},
		},
	}

	start := time.Now()
	respPayload, sendErr := c.do(ctx, endpoint, req)
	elapsed := time.Since(start)

	if c.logger != nil {
		logging.LogCall(ctx, c.logger, c.callerName, endpoint.Name, action, elapsed, body, sendErr)
	}

	if sendErr != nil {
		span.RecordError(sendErr)
		span.SetStatus(codes.Error, sendErr.Error())
		return sendErr
	}

	if out != nil {
		if err := json.Unmarshal(respPayload, out); err != nil {
			return fmt.Errorf("decode response payload: %w", err)
		}
	}
	return nil
}

func (c *Client) nextRequestID() int {
	id := c.nextID
	c.nextID++
	return id
}

func mergeAction(action string, body interface{}) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]interface{}{}
	}
	m["action"] = action
	return json.Marshal(m)
}

// do posts the envelope and returns the inner response payload bytes, or
// a transport-kind error (spec.md §4.1: network failures and non-2xx
// responses surface as {error:<string>}; a JSON-RPC error field surfaces
// identically).
func (c *Client) do(ctx context.Context, endpoint Endpoint, req model.Request) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.BaseURL+"/", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint.Name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", endpoint.Name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s returned HTTP %d: %s", endpoint.Name, resp.StatusCode, string(respBody))
	}

	var env model.Response
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("decode envelope from %s: %w", endpoint.Name, err)
	}

	if env.Error != nil {
		return nil, fmt.Errorf("%s: %s", endpoint.Name, env.Error.Message)
	}
	if env.Result == nil {
		return nil, fmt.Errorf("%s: empty result", endpoint.Name)
	}

	text := env.Result.Status.Message.FirstText()
	return []byte(text), nil
}

// FetchAgentCard retrieves a peer's /.well-known/agent.json descriptor.
func (c *Client) FetchAgentCard(ctx context.Context, endpoint Endpoint) (*model.AgentCard, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.BaseURL+"/.well-known/agent.json", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned HTTP %d", endpoint.Name, resp.StatusCode)
	}
	var card model.AgentCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("decode agent card from %s: %w", endpoint.Name, err)
	}
	return &card, nil
}
