package imagerender

import (
	"context"
	"encoding/json"
)

type generateDiagramRequest struct {
	Description string `json:"description"`
}

// GenerateDiagramHandler adapts Render to host.ActionHandler for the
// "generate_diagram" action (spec.md §4.9, image role).
func (r *StubRenderer) GenerateDiagramHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	var req generateDiagramRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return Result{Success: false, Error: "invalid request"}, nil
	}
	return r.Render(ctx, req.Description)
}
