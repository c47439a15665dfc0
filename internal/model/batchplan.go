package model

// BatchPlan is the Orchestrator's per-batch mutable state: a quota map
// decremented as questions are accepted (spec.md §3).
type BatchPlan struct {
	ExamType    ExamType       `json:"exam_type"`
	Quota       map[string]int `json:"quota"`
	Difficulty  int            `json:"difficulty"`
	RetryRounds int            `json:"retry_rounds"`
}

// Remaining returns target - accepted for a subtopic, floored at 0.
func (p BatchPlan) Remaining(subtopic string, accepted int) int {
	target := p.Quota[subtopic]
	if accepted >= target {
		return 0
	}
	return target - accepted
}

// ThinkingSkillsDefaultQuota is the runtime default distribution from
// original_source/agents/orchestrator.py::_generate_thinking_skills
// (totals 40; this is the dict that actually executes, not the
// ThinkingSkillsConfig Pydantic defaults elsewhere — see DESIGN.md
// decision 5).
var ThinkingSkillsDefaultQuota = map[string]int{
	"critical_thinking":   7,
	"deduction":           4,
	"inference":           4,
	"logical_reasoning":   11,
	"spatial_reasoning":   6,
	"numerical_reasoning": 8,
}

// MathDefaultQuota is the runtime default distribution from
// original_source/agents/orchestrator.py::_generate_math (totals 35).
var MathDefaultQuota = map[string]int{
	"math:geometry":           4,
	"math:number_operations":  5,
	"math:measurement":        5,
	"math:algebra_patterns":   5,
	"math:fractions_decimals": 5,
	"math:probability":        3,
	"math:data_statistics":    4,
	"math:number_theory":      4,
}

// DefaultQuota returns a fresh copy of the built-in quota for exam, so
// callers can mutate it without aliasing the package-level map.
func DefaultQuota(exam ExamType) map[string]int {
	src := ThinkingSkillsDefaultQuota
	if exam == ExamMath {
		src = MathDefaultQuota
	}
	out := make(map[string]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Step is one entry in the Orchestrator's aggregated step-log (spec.md
// §4.8, §7: "the orchestrator aggregates errors into a steps log per
// batch").
type Step struct {
	Name   string `json:"step"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// BatchResult is the Orchestrator's aggregated output for one batch run.
type BatchResult struct {
	Success        bool       `json:"success"`
	Questions      []Question `json:"questions"`
	TotalQuestions int        `json:"total_questions"`
	Errors         []string   `json:"errors,omitempty"`
	Steps          []Step     `json:"steps"`
}
