package verifier

import (
	"fmt"
	"strings"

	"github.com/examforge/examforge/internal/model"
)

// buildVerificationPrompt asks the model to solve the question both
// backwards from the marked answer and forwards from scratch, grounded on
// _build_verification_prompt.
func buildVerificationPrompt(q model.Question, bp model.Blueprint) string {
	var b strings.Builder
	b.WriteString("You are a verification expert. Verify this question has the correct answer.\n\n")
	if q.Content != "" {
		fmt.Fprintf(&b, "Context: %s\n", q.Content)
	}
	fmt.Fprintf(&b, "Question: %s\n", q.Question)
	b.WriteString(formatChoices(q))
	fmt.Fprintf(&b, "Marked correct answer: %s\n\n", correctAnswerText(q))
	b.WriteString("Step 1: work BACKWARDS from the marked answer - what would produce it, and does the question provide that?\n")
	b.WriteString("Step 2: solve FORWARDS from scratch, ignoring the marked answer.\n")
	b.WriteString("Step 3: compare the two and decide if the marked answer is correct.\n\n")
	b.WriteString("Output ONLY a JSON object with backwards_verification{what_answer_requires,what_question_provides,consistent,discrepancies}, ")
	b.WriteString("independent_solution{working,my_answer}, answer_is_correct, issues, suggestions.")
	return b.String()
}

func formatChoices(q model.Question) string {
	var b strings.Builder
	for i, c := range q.Choices {
		letter := rune('A' + i)
		marker := ""
		if c.Correct {
			marker = " [MARKED CORRECT]"
		}
		fmt.Fprintf(&b, "%c. %s%s\n", letter, c.Text, marker)
	}
	return b.String()
}

func correctAnswerText(q model.Question) string {
	idx := q.CorrectChoiceIndex()
	if idx < 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%c. %s", rune('A'+idx), q.Choices[idx].Text)
}
