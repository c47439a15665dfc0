package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/examforge/examforge/internal/external/llm"
	"github.com/examforge/examforge/internal/model"
)

// Judge checks a generated question's quality via an LLM client.
type Judge struct {
	client llm.Client
}

// New creates a Judge backed by client.
func New(client llm.Client) *Judge {
	return &Judge{client: client}
}

type rawDifficultyAssessment struct {
	IsTooEasy               bool        `json:"is_too_easy"`
	EstimatedYear6SuccessRate interface{} `json:"estimated_year6_success_rate"`
}

type rawJudgeResponse struct {
	SolvedAnswerID        interface{}             `json:"solved_answer_id"`
	SolutionSteps         []string                `json:"solution_steps"`
	SolveConfidence       float64                 `json:"solve_confidence"`
	DifficultyAssessment  rawDifficultyAssessment `json:"difficulty_assessment"`
	NumReasoningSteps     int                     `json:"num_reasoning_steps"`
	Vulnerabilities       []model.Vulnerability   `json:"vulnerabilities"`
	VulnerabilityScore    float64                 `json:"vulnerability_score"`
	ClarityScore          float64                 `json:"clarity_score"`
	AlignmentScore        float64                 `json:"alignment_score"`
	DifficultyMatch       bool                    `json:"difficulty_match"`
	Issues                []string                `json:"issues"`
	RevisionSuggestions   []string                `json:"revision_suggestions"`
}

// CheckQuality implements check_quality(question, blueprint) (spec.md
// §4.6): one model call is solved, adversarially attacked, and scored,
// then folded through the ordered status waterfall.
func (j *Judge) CheckQuality(ctx context.Context, q model.Question, bp model.Blueprint) (model.Judgment, error) {
	prompt := buildQualityCheckPrompt(q, bp)
	resp, err := j.client.Generate(ctx, prompt, &llm.Options{Temperature: 0.3})
	if err != nil {
		return model.Judgment{}, fmt.Errorf("judge: check quality: %w", err)
	}

	text := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(resp), "```json"), "```")
	text = strings.TrimSuffix(strings.TrimPrefix(text, "```"), "```")
	var raw rawJudgeResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return model.Judgment{}, fmt.Errorf("judge: invalid JSON from model: %w", err)
	}

	solvedID := fmt.Sprintf("%v", raw.SolvedAnswerID)
	successRate := parseSuccessRate(raw.DifficultyAssessment.EstimatedYear6SuccessRate)

	status := determineStatus(rawAssessment{
		SolvedAnswerID:       solvedID,
		IsTooEasy:            raw.DifficultyAssessment.IsTooEasy,
		EstimatedSuccessRate: successRate,
		Vulnerabilities:      raw.Vulnerabilities,
		NumReasoningSteps:    raw.NumReasoningSteps,
		ClarityScore:         raw.ClarityScore,
		VulnerabilityScore:   raw.VulnerabilityScore,
	})

	return model.Judgment{
		Accepted:    status == model.StatusAccepted,
		Status:      status,
		Issues:      raw.Issues,
		Suggestions: raw.RevisionSuggestions,
		Vulnerabilities: raw.Vulnerabilities,
		Scores: model.Scores{
			ClarityScore:       raw.ClarityScore,
			AlignmentScore:     raw.AlignmentScore,
			VulnerabilityScore: raw.VulnerabilityScore,
			DifficultyMatches:  raw.DifficultyMatch,
		},
		Solution:          strings.Join(raw.SolutionSteps, "\n"),
		SolvedAnswer:      solvedID,
		TooEasy:           raw.DifficultyAssessment.IsTooEasy,
		SuccessRate:       successRate,
		NumReasoningSteps: raw.NumReasoningSteps,
	}, nil
}

// parseSuccessRate handles both numeric and "20-30%"/"40%"-style string
// success rates, taking the low end of a range, matching the original's
// tolerant parsing.
func parseSuccessRate(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(val, "%"))
		parts := strings.SplitN(s, "-", 2)
		n, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
