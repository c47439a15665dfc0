package orchestrator

import (
	"context"
	"encoding/json"

	"github.com/examforge/examforge/internal/model"
)

type generateExamRequest struct {
	ExamType string         `json:"exam_type"`
	Config   map[string]int `json:"subtopic_questions"`
	Difficulty int          `json:"difficulty"`
}

type generateExamResponse struct {
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	model.BatchResult
}

// GenerateExamHandler adapts RunBatch to host.ActionHandler for the
// "generate_exam" action (spec.md §4.8).
func (o *Orchestrator) GenerateExamHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	var req generateExamRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return generateExamResponse{Success: false, Error: "invalid request"}, nil
	}

	exam := model.ExamThinkingSkills
	if req.ExamType == string(model.ExamMath) {
		exam = model.ExamMath
	}
	difficulty := req.Difficulty
	if difficulty == 0 {
		difficulty = 3
	}
	quota := req.Config
	if len(quota) == 0 {
		quota = o.quotaFor(exam)
	}

	result := o.RunBatch(ctx, exam, quota, difficulty)
	return generateExamResponse{Success: true, BatchResult: result}, nil
}
