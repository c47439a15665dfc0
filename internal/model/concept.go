// Package model defines the wire- and domain-level records shared by
// every examforge service: Concept, ConceptSelection, Blueprint,
// Question, PipelineState, BatchPlan and the Envelope carrier, per
// spec.md §3.
package model

// Concept is an immutable catalog record loaded once by the Concept
// Registry. Invariant: 1 <= DifficultyMin <= DifficultyMax <= 3.
type Concept struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	SubtopicID            string   `json:"subtopic_id"`
	SubtopicName          string   `json:"subtopic_name"`
	TopicID               string   `json:"topic_id"`
	DifficultyMin         int      `json:"difficulty_min"`
	DifficultyMax         int      `json:"difficulty_max"`
	BloomLevels           []string `json:"bloom_levels"`
	CommonMisconceptions  []string `json:"common_misconceptions"`
	QuestionPatterns      []string `json:"question_patterns"`
	TypicallyRequiresImage bool    `json:"typically_requires_image"`
	ImageTypes            []string `json:"image_types,omitempty"`
}

// InDifficultyWindow reports whether difficulty falls within
// [DifficultyMin, DifficultyMax].
func (c Concept) InDifficultyWindow(difficulty int) bool {
	return difficulty >= c.DifficultyMin && difficulty <= c.DifficultyMax
}

// HasBloomLevel reports whether level is one of the concept's declared
// bloom levels.
func (c Concept) HasBloomLevel(level string) bool {
	for _, l := range c.BloomLevels {
		if l == level {
			return true
		}
	}
	return false
}

// ConceptSelection is produced by the Concept Registry's select_concept
// and consumed by the Generator.
type ConceptSelection struct {
	Concept              Concept  `json:"concept"`
	TargetDifficulty     int      `json:"target_difficulty"`
	TargetBloom          string   `json:"target_bloom"`
	SelectedMisconceptions []string `json:"selected_misconceptions"`
	SelectedPattern      string   `json:"selected_pattern,omitempty"`
}
