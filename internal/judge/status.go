// Package judge implements the Quality Judge (C6): one model call that
// solves the question, attacks it adversarially, and scores it, collapsed
// into the strict ordered status waterfall of spec.md §4.6. Grounded on
// original_source/agents/quality_checker_agent.py's _determine_status.
package judge

import (
	"github.com/examforge/examforge/internal/model"
)

// rawAssessment is the model's raw judging output before it is folded into
// a model.Judgment.
type rawAssessment struct {
	SolvedAnswerID  string
	SolutionSteps   []string
	SolveConfidence float64

	IsTooEasy             bool
	EstimatedSuccessRate  float64
	Vulnerabilities       []model.Vulnerability
	VulnerabilityScore    float64
	ClarityScore          float64
	AlignmentScore        float64
	DifficultyMatches     bool
	NumReasoningSteps     int
	Issues                []string
	Suggestions           []string
}

// determineStatus runs the ordered waterfall from spec.md §4.6. Each
// branch returns as soon as it fires; later checks never override an
// earlier one.
//
//  1. solved answer != marked answer -> rejected
//  2. too_easy -> rejected; success_rate > 40% -> needs_revision
//  3. vulnerability severity critical -> rejected; major -> needs_revision;
//     type too_easy -> needs_revision
//  4. num_reasoning_steps < 3 -> needs_revision
//  5. clarity_score < 0.5 -> rejected; < 0.7 -> needs_revision
//  6. vulnerability_score > 0.6 -> needs_revision
//  7. else -> accepted
func determineStatus(raw rawAssessment) model.JudgmentStatus {
	if raw.SolvedAnswerID != "1" {
		return model.StatusRejected
	}

	if raw.IsTooEasy {
		return model.StatusRejected
	}
	if raw.EstimatedSuccessRate > 40 {
		return model.StatusNeedsRevision
	}

	for _, v := range raw.Vulnerabilities {
		switch v.Severity {
		case model.SeverityCritical:
			return model.StatusRejected
		case model.SeverityMajor:
			return model.StatusNeedsRevision
		}
		if v.Type == "too_easy" {
			return model.StatusNeedsRevision
		}
	}

	if raw.NumReasoningSteps < 3 {
		return model.StatusNeedsRevision
	}

	if raw.ClarityScore < 0.5 {
		return model.StatusRejected
	}
	if raw.ClarityScore < 0.7 {
		return model.StatusNeedsRevision
	}

	if raw.VulnerabilityScore > 0.6 {
		return model.StatusNeedsRevision
	}

	return model.StatusAccepted
}
