// Package remote implements HTTP-backed adapters for the Pipeline
// Controller's four collaborator interfaces (internal/pipeline), so a
// controller running in one process (typically the orchestrator) can drive
// concept selection, generation, verification, and judgment in separately
// deployed peer processes instead of in-process structs. Grounded on
// original_source/a2a_local/client.py's A2AClient.send_task, which issues
// real HTTP calls to each AgentEndpoint, and built on the same
// transport.Client used by internal/orchestrator/rest.go's health facade.
package remote

import (
	"context"
	"fmt"

	"github.com/examforge/examforge/internal/model"
	"github.com/examforge/examforge/internal/platform/config"
	"github.com/examforge/examforge/internal/transport"
)

// ConceptSelector calls the concept_guide service's select_concept action.
type ConceptSelector struct {
	client   *transport.Client
	endpoint transport.Endpoint
}

// NewConceptSelector builds a ConceptSelector targeting endpoint.
func NewConceptSelector(client *transport.Client, endpoint transport.Endpoint) *ConceptSelector {
	return &ConceptSelector{client: client, endpoint: endpoint}
}

type selectConceptRequest struct {
	Subtopic   string   `json:"subtopic"`
	Difficulty int      `json:"difficulty"`
	ExcludeIDs []string `json:"exclude_ids"`
}

type selectConceptResponse struct {
	Success                bool     `json:"success"`
	Error                  string   `json:"error"`
	ConceptID              string   `json:"concept_id"`
	ConceptName            string   `json:"concept_name"`
	ConceptDescription     string   `json:"concept_description"`
	SubtopicID             string   `json:"subtopic_id"`
	TopicID                string   `json:"topic_id"`
	TargetDifficulty       int      `json:"target_difficulty"`
	TargetBloom            string   `json:"target_bloom"`
	SelectedMisconceptions []string `json:"selected_misconceptions"`
	SelectedPattern        string   `json:"selected_pattern"`
}

// SelectConcept implements pipeline.ConceptSelector over the wire. The
// interface carries no context, so the call is bounded only by the
// client's configured timeout (spec.md §4.1's per-call deadline).
func (c *ConceptSelector) SelectConcept(subtopic string, difficulty int, excludeIDs []string) (model.ConceptSelection, error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.CallTimeout)
	defer cancel()

	var resp selectConceptResponse
	req := selectConceptRequest{Subtopic: subtopic, Difficulty: difficulty, ExcludeIDs: excludeIDs}
	if err := c.client.SendAction(ctx, c.endpoint, "select_concept", req, &resp); err != nil {
		return model.ConceptSelection{}, fmt.Errorf("select_concept: %w", err)
	}
	if !resp.Success {
		return model.ConceptSelection{}, fmt.Errorf("select_concept: %s", resp.Error)
	}
	return model.ConceptSelection{
		Concept: model.Concept{
			ID:          resp.ConceptID,
			Name:        resp.ConceptName,
			Description: resp.ConceptDescription,
			SubtopicID:  resp.SubtopicID,
			TopicID:     resp.TopicID,
		},
		TargetDifficulty:       resp.TargetDifficulty,
		TargetBloom:            resp.TargetBloom,
		SelectedMisconceptions: resp.SelectedMisconceptions,
		SelectedPattern:        resp.SelectedPattern,
	}, nil
}

// QuestionGenerator calls the question_generator service's
// generate_question/revise_question actions.
type QuestionGenerator struct {
	client   *transport.Client
	endpoint transport.Endpoint
}

// NewQuestionGenerator builds a QuestionGenerator targeting endpoint.
func NewQuestionGenerator(client *transport.Client, endpoint transport.Endpoint) *QuestionGenerator {
	return &QuestionGenerator{client: client, endpoint: endpoint}
}

type generateRequest struct {
	Selection model.ConceptSelection `json:"selection"`
	ExamType  model.ExamType         `json:"exam_type"`
}

type reviseRequest struct {
	Question    model.Question  `json:"question"`
	Blueprint   model.Blueprint `json:"blueprint"`
	Issues      []string        `json:"issues"`
	Suggestions []string        `json:"suggestions"`
}

type generateResponse struct {
	Success   bool            `json:"success"`
	Error     string          `json:"error"`
	Blueprint model.Blueprint `json:"blueprint"`
	Question  model.Question  `json:"question"`
}

// Generate implements pipeline.QuestionGenerator over the wire.
func (g *QuestionGenerator) Generate(ctx context.Context, sel model.ConceptSelection, exam model.ExamType) (model.Blueprint, model.Question, error) {
	var resp generateResponse
	req := generateRequest{Selection: sel, ExamType: exam}
	if err := g.client.SendAction(ctx, g.endpoint, "generate_question", req, &resp); err != nil {
		return model.Blueprint{}, model.Question{}, fmt.Errorf("generate_question: %w", err)
	}
	if !resp.Success {
		return model.Blueprint{}, model.Question{}, fmt.Errorf("generate_question: %s", resp.Error)
	}
	return resp.Blueprint, resp.Question, nil
}

// Revise implements pipeline.QuestionGenerator over the wire.
func (g *QuestionGenerator) Revise(ctx context.Context, q model.Question, bp model.Blueprint, issues, suggestions []string) (model.Blueprint, model.Question, error) {
	var resp generateResponse
	req := reviseRequest{Question: q, Blueprint: bp, Issues: issues, Suggestions: suggestions}
	if err := g.client.SendAction(ctx, g.endpoint, "revise_question", req, &resp); err != nil {
		return model.Blueprint{}, model.Question{}, fmt.Errorf("revise_question: %w", err)
	}
	if !resp.Success {
		return model.Blueprint{}, model.Question{}, fmt.Errorf("revise_question: %s", resp.Error)
	}
	return resp.Blueprint, resp.Question, nil
}

// CorrectnessVerifier calls the correctness service's verify_correctness
// action.
type CorrectnessVerifier struct {
	client   *transport.Client
	endpoint transport.Endpoint
}

// NewCorrectnessVerifier builds a CorrectnessVerifier targeting endpoint.
func NewCorrectnessVerifier(client *transport.Client, endpoint transport.Endpoint) *CorrectnessVerifier {
	return &CorrectnessVerifier{client: client, endpoint: endpoint}
}

type verifyRequest struct {
	Question  model.Question  `json:"question"`
	Blueprint model.Blueprint `json:"blueprint"`
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	model.VerificationResult
}

// VerifyCorrectness implements pipeline.CorrectnessVerifier over the wire.
func (v *CorrectnessVerifier) VerifyCorrectness(ctx context.Context, q model.Question, bp model.Blueprint) (model.VerificationResult, error) {
	var resp verifyResponse
	req := verifyRequest{Question: q, Blueprint: bp}
	if err := v.client.SendAction(ctx, v.endpoint, "verify_correctness", req, &resp); err != nil {
		return model.VerificationResult{}, fmt.Errorf("verify_correctness: %w", err)
	}
	if !resp.Success {
		return model.VerificationResult{}, fmt.Errorf("verify_correctness: %s", resp.Error)
	}
	return resp.VerificationResult, nil
}

// QualityChecker calls the quality_checker service's check_quality action.
type QualityChecker struct {
	client   *transport.Client
	endpoint transport.Endpoint
}

// NewQualityChecker builds a QualityChecker targeting endpoint.
func NewQualityChecker(client *transport.Client, endpoint transport.Endpoint) *QualityChecker {
	return &QualityChecker{client: client, endpoint: endpoint}
}

type checkQualityResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	model.Judgment
}

// CheckQuality implements pipeline.QualityChecker over the wire.
func (j *QualityChecker) CheckQuality(ctx context.Context, q model.Question, bp model.Blueprint) (model.Judgment, error) {
	var resp checkQualityResponse
	req := verifyRequest{Question: q, Blueprint: bp}
	if err := j.client.SendAction(ctx, j.endpoint, "check_quality", req, &resp); err != nil {
		return model.Judgment{}, fmt.Errorf("check_quality: %w", err)
	}
	if !resp.Success {
		return model.Judgment{}, fmt.Errorf("check_quality: %s", resp.Error)
	}
	return resp.Judgment, nil
}
