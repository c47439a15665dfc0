package model

// Distractor is one incorrect choice on a blueprint, carrying the
// misconception it is meant to test (spec.md SPEC_FULL §C).
type Distractor struct {
	Text          string `json:"text"`
	Misconception string `json:"misconception,omitempty"`
}

// Blueprint is the structured plan for a question prior to text
// realization (spec.md §3).
type Blueprint struct {
	ConceptID            string       `json:"concept_id"`
	SubtopicID            string       `json:"subtopic_id"`
	TopicID               string       `json:"topic_id"`
	QuestionType          string       `json:"question_type"`
	TargetSkill           string       `json:"target_skill"`
	DifficultyTarget      int          `json:"difficulty_target"`
	SetupElements         []string     `json:"setup_elements"`
	QuestionStemStructure string       `json:"question_stem_structure"`
	Constraints           []string     `json:"constraints"`
	CorrectAnswerValue    string       `json:"correct_answer_value"`
	CorrectAnswerReasoning string      `json:"correct_answer_reasoning"`
	Distractors           []Distractor `json:"distractors"`
	SolutionSteps         []string     `json:"solution_steps"`
	RequiresImage         bool         `json:"requires_image"`
	ImageSpec             string       `json:"image_spec,omitempty"`
	Tags                  []string     `json:"tags"`
	RevisionCount         int          `json:"revision_count"`
}

// WithRevision returns a copy of b with RevisionCount incremented, per
// spec.md §4.4 ("revision_count on the revised blueprint equals the
// original's + 1").
func (b Blueprint) WithRevision() Blueprint {
	b.RevisionCount = b.RevisionCount + 1
	return b
}
