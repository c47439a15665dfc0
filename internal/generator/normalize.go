package generator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// rawChoice is one choice entry as the LLM emits it, before the
// first-choice-correct invariant is forced.
type rawChoice struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	Misconception string `json:"misconception"`
}

// rawPayload is the LLM's raw JSON shape for both generate_question and
// revise_question (spec.md §4.4).
type rawPayload struct {
	SetupElements         []string    `json:"setup_elements"`
	QuestionStemStructure string      `json:"question_stem_structure"`
	Constraints           []string    `json:"constraints"`
	CorrectAnswerReasoning string     `json:"correct_answer_reasoning"`
	SolutionSteps         []string    `json:"solution_steps"`
	RequiresImage         bool        `json:"requires_image"`
	ImageSpec             string      `json:"image_spec"`
	QuestionText          string      `json:"question_text"`
	Content               string      `json:"content"`
	Choices               []rawChoice `json:"choices"`
	Explanation           string      `json:"explanation"`
	Tags                  []string    `json:"tags"`
}

// stripFences removes a single enclosing ```json or ``` markdown fence,
// matching the generate_json contract: strip leading "```json" or "```",
// and a trailing "```", before parsing (spec.md §4.4).
func stripFences(s string) string {
	text := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(text, "```json"):
		text = text[len("```json"):]
	case strings.HasPrefix(text, "```"):
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// parseRaw strips fences and parses the LLM's response as JSON, rejecting
// invalid output per spec.md §4.4's normalize step.
func parseRaw(response string) (rawPayload, error) {
	text := stripFences(response)
	var raw rawPayload
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return rawPayload{}, fmt.Errorf("generator: invalid JSON from model: %w", err)
	}
	return raw, nil
}

// padChoices enforces the mandatory choice count: keeps the LLM's choices
// (up to count), forces index 0 to be correct and all others incorrect,
// and pads with placeholder incorrect choices if the model returned fewer
// than count (spec.md §4.4, scenario S6).
func padChoices(raw []rawChoice, count int) []normalizedChoice {
	out := make([]normalizedChoice, 0, count)
	for i, c := range raw {
		if i >= count {
			break
		}
		out = append(out, normalizedChoice{
			Text:          c.Text,
			Misconception: c.Misconception,
			Correct:       i == 0,
		})
	}
	for len(out) < count {
		out = append(out, normalizedChoice{
			Text:          fmt.Sprintf("Option %d", len(out)+1),
			Misconception: "Plausible but incorrect",
			Correct:       len(out) == 0,
		})
	}
	return out
}

type normalizedChoice struct {
	Text          string
	Misconception string
	Correct       bool
}
