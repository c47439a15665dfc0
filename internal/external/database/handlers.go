package database

import (
	"context"
	"encoding/json"

	"github.com/examforge/examforge/internal/model"
)

type insertQuestionsRequest struct {
	Questions []model.Question `json:"questions"`
}

type createExamRequest struct {
	Exam        model.Exam `json:"exam"`
	QuestionIDs []string   `json:"question_ids"`
}

type getSubtopicsRequest struct {
	TopicID string `json:"topic_id"`
}

// InsertQuestionsHandler adapts InsertQuestions to host.ActionHandler for
// the "insert_questions" action (spec.md §4.9).
func (p *Pool) InsertQuestionsHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	var req insertQuestionsRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return InsertResult{Success: false}, nil
	}
	return p.InsertQuestions(ctx, req.Questions), nil
}

// CreateExamHandler adapts CreateExam to host.ActionHandler for the
// "create_exam" action.
func (p *Pool) CreateExamHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	var req createExamRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return CreateExamResult{Success: false, Error: "invalid request"}, nil
	}
	return p.CreateExam(ctx, req.Exam, req.QuestionIDs), nil
}

// GetSubtopicsHandler adapts GetSubtopics to host.ActionHandler for the
// "get_subtopics" action.
func (p *Pool) GetSubtopicsHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	var req getSubtopicsRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, err
	}
	subtopics, err := p.GetSubtopics(ctx, req.TopicID)
	if err != nil {
		return map[string]interface{}{"success": false, "error": err.Error()}, nil
	}
	return map[string]interface{}{"success": true, "subtopics": subtopics, "count": len(subtopics)}, nil
}
