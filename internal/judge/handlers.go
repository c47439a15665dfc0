package judge

import (
	"context"
	"encoding/json"

	"github.com/examforge/examforge/internal/model"
)

type checkQualityRequest struct {
	Question  model.Question  `json:"question"`
	Blueprint model.Blueprint `json:"blueprint"`
}

type checkQualityResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	model.Judgment
}

// CheckQualityHandler adapts CheckQuality to host.ActionHandler for the
// "check_quality" action.
func (j *Judge) CheckQualityHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	var req checkQualityRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return checkQualityResponse{Success: false, Error: "invalid request"}, nil
	}

	judgment, err := j.CheckQuality(ctx, req.Question, req.Blueprint)
	if err != nil {
		return checkQualityResponse{Success: false, Error: err.Error()}, nil
	}
	return checkQualityResponse{Success: true, Judgment: judgment}, nil
}
