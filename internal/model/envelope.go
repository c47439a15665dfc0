package model

import "encoding/json"

// Message is the JSON-RPC carrier's role+parts body (spec.md §3/§6).
type Message struct {
	Role      string `json:"role"`
	MessageID string `json:"message_id"`
	Parts     []Part `json:"parts"`
}

// Part is one element of a Message's parts array. Only Text is used by
// this system; the wire shape otherwise mirrors the A2A message parts
// convention (image/file parts are not produced by any examforge service).
type Part struct {
	Text string `json:"text"`
}

// FirstText returns the text of Parts[0], or "" if Parts is empty.
func (m Message) FirstText() string {
	if len(m.Parts) == 0 {
		return ""
	}
	return m.Parts[0].Text
}

// Params is the request envelope's params object.
type Params struct {
	Message  Message         `json:"message"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// Request is the outbound JSON-RPC 2.0 envelope (spec.md §6).
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  Params `json:"params"`
}

// Status carries the task lifecycle state and the agent's response
// message (spec.md §4.2: submitted/working/completed/failed/canceled).
type Status struct {
	State   string  `json:"state"`
	Message Message `json:"message"`
}

// Result wraps Status for a successful response.
type Result struct {
	Status Status `json:"status"`
}

// RPCError is the JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// Response is the inbound JSON-RPC 2.0 envelope. Exactly one of Result or
// Error is populated.
type Response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      int       `json:"id"`
	Result  *Result   `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

// Lifecycle states (spec.md §4.2, §6).
const (
	StateSubmitted = "submitted"
	StateWorking   = "working"
	StateCompleted = "completed"
	StateFailed    = "failed"
	StateCanceled  = "canceled"
)

// Payload is the inner UTF-8 JSON object nested in a Part's Text: a
// required "action" discriminator plus an action-specific body. Services
// marshal/unmarshal their own typed variant into this envelope's Text
// field; Payload itself is only used where the action is not yet known
// (e.g. routing in the service host).
type Payload struct {
	Action string `json:"action"`
}

// AgentCard is the /.well-known/agent.json descriptor every service host
// publishes (spec.md §4.2, §6).
type AgentCard struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	BaseURL    string   `json:"base_url"`
	Skills     []string `json:"skills"`
	Capabilities []string `json:"capabilities,omitempty"`
}
