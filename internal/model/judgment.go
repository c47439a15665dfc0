package model

// JudgmentStatus is the Quality Judge's verdict (spec.md §4.6).
type JudgmentStatus string

const (
	StatusAccepted      JudgmentStatus = "accepted"
	StatusRejected      JudgmentStatus = "rejected"
	StatusNeedsRevision JudgmentStatus = "needs_revision"
)

// VulnerabilitySeverity tags an adversarial-attack finding.
type VulnerabilitySeverity string

const (
	SeverityCritical VulnerabilitySeverity = "critical"
	SeverityMajor    VulnerabilitySeverity = "major"
	SeverityMinor    VulnerabilitySeverity = "minor"
)

// Vulnerability is one adversarial-attack finding on a question (spec.md
// §4.6 pass 2: shortcuts, elimination heuristics, weak distractors,
// ambiguity, too-easy signals).
type Vulnerability struct {
	Type        string                `json:"type"`
	Severity    VulnerabilitySeverity `json:"severity"`
	Description string                `json:"description"`
}

// Scores carries the Judge's clarity/alignment/difficulty/vulnerability
// scoring pass. Only ClarityScore and VulnerabilityScore feed the status
// waterfall (spec.md §4.6 points 5-6); the rest is supplementary metadata
// grounded on original_source/models/judgment.py's JudgmentScores, which
// that source never actually consults for its real status derivation
// (see DESIGN.md decision 6).
type Scores struct {
	ClarityScore        float64 `json:"clarity_score"`
	AlignmentScore      float64 `json:"alignment_score"`
	VulnerabilityScore  float64 `json:"vulnerability_score"`
	DifficultyMatches   bool    `json:"difficulty_matches"`
	OverallScore        float64 `json:"overall_score,omitempty"`
}

// Judgment is the Quality Judge's full result for one question (spec.md
// §4.6: "check_quality(question, blueprint) -> {accepted, status, issues,
// suggestions, vulnerabilities, scores, solution}").
type Judgment struct {
	Accepted         bool            `json:"accepted"`
	Status           JudgmentStatus  `json:"status"`
	Issues           []string        `json:"issues"`
	Suggestions      []string        `json:"suggestions"`
	Vulnerabilities  []Vulnerability `json:"vulnerabilities"`
	Scores           Scores          `json:"scores"`
	Solution         string          `json:"solution"`
	SolvedAnswer     string          `json:"solved_answer,omitempty"`
	TooEasy          bool            `json:"too_easy,omitempty"`
	SuccessRate      float64         `json:"estimated_success_rate,omitempty"`
	NumReasoningSteps int            `json:"num_reasoning_steps,omitempty"`
}
