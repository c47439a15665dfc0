package judge

import (
	"fmt"
	"strings"

	"github.com/examforge/examforge/internal/model"
)

// buildQualityCheckPrompt asks the model to solve, attack, and score the
// question in one call, grounded on _build_mcq_prompt.
func buildQualityCheckPrompt(q model.Question, bp model.Blueprint) string {
	var b strings.Builder
	b.WriteString("You are a STRICT quality checker for a selective academic exam. ")
	b.WriteString("This exam selects the top tier of students - questions must be GENUINELY DIFFICULT.\n")
	if q.Content != "" {
		fmt.Fprintf(&b, "\nContext: %s\n", q.Content)
	}
	fmt.Fprintf(&b, "\nQuestion: %s\n\nOptions:\n", q.Question)
	for i, c := range q.Choices {
		fmt.Fprintf(&b, "  (%d) %s\n", i+1, c.Text)
	}
	fmt.Fprintf(&b, "\nConcept: %s\n\n", bp.ConceptID)
	b.WriteString("Solve the question yourself, then attack it adversarially for shortcuts, elimination heuristics, ")
	b.WriteString("weak distractors, and ambiguity, then score it.\n\n")
	b.WriteString("Output ONLY a JSON object with solved_answer_id (the option number you solved to), solution_steps, ")
	b.WriteString("solve_confidence, difficulty_assessment{is_too_easy,estimated_year6_success_rate}, num_reasoning_steps, ")
	b.WriteString("vulnerabilities (each with type, severity in critical|major|minor, description), vulnerability_score, ")
	b.WriteString("clarity_score, alignment_score, difficulty_match, issues, revision_suggestions.")
	return b.String()
}
