package generator

import (
	"fmt"
	"strings"

	"github.com/examforge/examforge/internal/model"
)

// buildGenerationPrompt asks the model for a complete blueprint+question in
// one call, grounded on _build_generation_prompt/_build_math_prompt.
func buildGenerationPrompt(sel model.ConceptSelection, exam model.ExamType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are writing one %s multiple-choice question.\n", exam)
	fmt.Fprintf(&b, "Concept: %s - %s\n", sel.Concept.Name, sel.Concept.Description)
	fmt.Fprintf(&b, "Target difficulty: %d/3. Target bloom level: %s.\n", sel.TargetDifficulty, sel.TargetBloom)
	if len(sel.SelectedMisconceptions) > 0 {
		fmt.Fprintf(&b, "Build distractors around these misconceptions: %s\n", strings.Join(sel.SelectedMisconceptions, "; "))
	}
	if sel.SelectedPattern != "" {
		fmt.Fprintf(&b, "Favor this question pattern: %s\n", sel.SelectedPattern)
	}
	fmt.Fprintf(&b, "Return exactly %d choices, the first one correct.\n", model.MandatoryChoiceCount(exam))
	b.WriteString("Output ONLY a JSON object with setup_elements, question_stem_structure, constraints, ")
	b.WriteString("correct_answer_reasoning, solution_steps, requires_image, image_spec, question_text, choices, explanation, tags.")
	return b.String()
}

// buildRevisionPrompt asks the model to address judge/verifier feedback on
// an existing question, grounded on _build_revision_prompt.
func buildRevisionPrompt(q model.Question, bp model.Blueprint, issues, suggestions []string) string {
	var b strings.Builder
	b.WriteString("Revise this question to address the feedback below. Keep the same concept and difficulty.\n")
	fmt.Fprintf(&b, "Current question: %s\n", q.Question)
	if len(issues) > 0 {
		fmt.Fprintf(&b, "Issues: %s\n", strings.Join(issues, "; "))
	}
	if len(suggestions) > 0 {
		fmt.Fprintf(&b, "Suggestions: %s\n", strings.Join(suggestions, "; "))
	}
	fmt.Fprintf(&b, "Return exactly %d choices, the first one correct.\n", len(bp.Distractors)+1)
	b.WriteString("Output ONLY a JSON object with the same fields as before: setup_elements, question_stem_structure, ")
	b.WriteString("constraints, correct_answer_reasoning, solution_steps, requires_image, image_spec, question_text, choices, explanation, tags.")
	return b.String()
}
