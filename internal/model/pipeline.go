package model

// PipelineState is the per-question ephemeral record owned exclusively by
// the Pipeline Controller for the lifetime of one flight (spec.md §3).
type PipelineState struct {
	Subtopic         string
	Difficulty       int
	ConceptSelection *ConceptSelection
	Blueprint        *Blueprint
	Question         *Question
	LastJudgment     *Judgment
	RevisionCount    int
	Accepted         bool
	Errors           []string
}

// PipelineResult is what a single pipeline flight returns to its caller
// (spec.md §4.7 batch fan-out: "{accepted, question?, concept_id?,
// revision_count, judgment?, errors}").
type PipelineResult struct {
	Accepted      bool      `json:"accepted"`
	Question      *Question `json:"question,omitempty"`
	ConceptID     string    `json:"concept_id,omitempty"`
	RevisionCount int       `json:"revision_count"`
	Judgment      *Judgment `json:"judgment,omitempty"`
	Errors        []string  `json:"errors"`
}

// Success reports whether the pipeline both accepted and produced a
// question, matching original_source/models/judgment.py's PipelineResult
// convenience property.
func (r PipelineResult) Success() bool {
	return r.Accepted && r.Question != nil
}
