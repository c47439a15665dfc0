package verifier

import (
	"context"
	"encoding/json"

	"github.com/examforge/examforge/internal/model"
)

type verifyRequest struct {
	Question  model.Question  `json:"question"`
	Blueprint model.Blueprint `json:"blueprint"`
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	model.VerificationResult
}

// VerifyCorrectnessHandler adapts VerifyCorrectness to host.ActionHandler
// for the "verify_correctness" action.
func (v *Verifier) VerifyCorrectnessHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	var req verifyRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return verifyResponse{Success: false, Error: "invalid request"}, nil
	}

	result, err := v.VerifyCorrectness(ctx, req.Question, req.Blueprint)
	if err != nil {
		return verifyResponse{Success: false, Error: err.Error()}, nil
	}
	return verifyResponse{Success: true, VerificationResult: result}, nil
}
