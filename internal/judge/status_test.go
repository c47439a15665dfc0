package judge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/examforge/examforge/internal/model"
)

func baseline() rawAssessment {
	return rawAssessment{
		SolvedAnswerID:       "1",
		EstimatedSuccessRate: 20,
		NumReasoningSteps:    4,
		ClarityScore:         0.9,
		VulnerabilityScore:   0.1,
	}
}

// Covers spec.md §8 property 8: determineStatus is total (every input maps
// to exactly one of the three statuses) and the waterfall fires in order.
func TestDetermineStatusAcceptsBaseline(t *testing.T) {
	assert.Equal(t, model.StatusAccepted, determineStatus(baseline()))
}

func TestDetermineStatusWrongAnswerRejects(t *testing.T) {
	raw := baseline()
	raw.SolvedAnswerID = "2"
	assert.Equal(t, model.StatusRejected, determineStatus(raw))
}

func TestDetermineStatusTooEasyRejectsEvenWithGoodScores(t *testing.T) {
	raw := baseline()
	raw.IsTooEasy = true
	assert.Equal(t, model.StatusRejected, determineStatus(raw))
}

func TestDetermineStatusHighSuccessRateNeedsRevision(t *testing.T) {
	raw := baseline()
	raw.EstimatedSuccessRate = 55
	assert.Equal(t, model.StatusNeedsRevision, determineStatus(raw))
}

func TestDetermineStatusCriticalVulnerabilityRejects(t *testing.T) {
	raw := baseline()
	raw.Vulnerabilities = []model.Vulnerability{{Severity: model.SeverityCritical}}
	assert.Equal(t, model.StatusRejected, determineStatus(raw))
}

func TestDetermineStatusMajorVulnerabilityNeedsRevision(t *testing.T) {
	raw := baseline()
	raw.Vulnerabilities = []model.Vulnerability{{Severity: model.SeverityMajor}}
	assert.Equal(t, model.StatusNeedsRevision, determineStatus(raw))
}

func TestDetermineStatusTooEasyVulnerabilityTypeNeedsRevision(t *testing.T) {
	raw := baseline()
	raw.Vulnerabilities = []model.Vulnerability{{Severity: model.SeverityMinor, Type: "too_easy"}}
	assert.Equal(t, model.StatusNeedsRevision, determineStatus(raw))
}

func TestDetermineStatusFewReasoningStepsNeedsRevision(t *testing.T) {
	raw := baseline()
	raw.NumReasoningSteps = 2
	assert.Equal(t, model.StatusNeedsRevision, determineStatus(raw))
}

func TestDetermineStatusLowClarityRejects(t *testing.T) {
	raw := baseline()
	raw.ClarityScore = 0.4
	assert.Equal(t, model.StatusRejected, determineStatus(raw))
}

func TestDetermineStatusMediumClarityNeedsRevision(t *testing.T) {
	raw := baseline()
	raw.ClarityScore = 0.6
	assert.Equal(t, model.StatusNeedsRevision, determineStatus(raw))
}

func TestDetermineStatusHighVulnerabilityScoreNeedsRevision(t *testing.T) {
	raw := baseline()
	raw.VulnerabilityScore = 0.7
	assert.Equal(t, model.StatusNeedsRevision, determineStatus(raw))
}

// Ordering: a critical vulnerability rejects even when clarity_score would
// only have demanded needs_revision, confirming step 3 fires before step 5.
func TestDetermineStatusVulnerabilityCheckedBeforeClarity(t *testing.T) {
	raw := baseline()
	raw.ClarityScore = 0.6
	raw.Vulnerabilities = []model.Vulnerability{{Severity: model.SeverityCritical}}
	assert.Equal(t, model.StatusRejected, determineStatus(raw))
}

// Ordering: is_too_easy is checked (and rejects) before the success-rate
// needs_revision check, matching spec.md §4.6 points 2's distinct mapping.
func TestDetermineStatusTooEasyBeforeSuccessRate(t *testing.T) {
	raw := baseline()
	raw.IsTooEasy = true
	raw.EstimatedSuccessRate = 10
	assert.Equal(t, model.StatusRejected, determineStatus(raw))
}
