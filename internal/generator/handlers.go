package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/examforge/examforge/internal/model"
)

type generateRequest struct {
	Selection model.ConceptSelection `json:"selection"`
	ExamType  model.ExamType         `json:"exam_type"`
}

type reviseRequest struct {
	Question    model.Question `json:"question"`
	Blueprint   model.Blueprint `json:"blueprint"`
	Issues      []string        `json:"issues"`
	Suggestions []string        `json:"suggestions"`
}

type generateResponse struct {
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
	Blueprint model.Blueprint `json:"blueprint,omitempty"`
	Question  model.Question  `json:"question,omitempty"`
}

// GenerateQuestionHandler adapts Generate to host.ActionHandler for the
// "generate_question" action.
func (g *Generator) GenerateQuestionHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	var req generateRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return generateResponse{Success: false, Error: fmt.Sprintf("invalid request: %v", err)}, nil
	}
	exam := req.ExamType
	if exam == "" {
		exam = model.ExamThinkingSkills
	}

	bp, q, err := g.Generate(ctx, req.Selection, exam)
	if err != nil {
		return generateResponse{Success: false, Error: err.Error()}, nil
	}
	return generateResponse{Success: true, Blueprint: bp, Question: q}, nil
}

// ReviseQuestionHandler adapts Revise to host.ActionHandler for the
// "revise_question" action.
func (g *Generator) ReviseQuestionHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	var req reviseRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return generateResponse{Success: false, Error: fmt.Sprintf("invalid request: %v", err)}, nil
	}

	bp, q, err := g.Revise(ctx, req.Question, req.Blueprint, req.Issues, req.Suggestions)
	if err != nil {
		return generateResponse{Success: false, Error: err.Error()}, nil
	}
	return generateResponse{Success: true, Blueprint: bp, Question: q}, nil
}
