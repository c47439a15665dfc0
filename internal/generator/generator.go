// Package generator implements the Generator service (C4): it turns a
// ConceptSelection into a Blueprint+Question pair, and revises an existing
// pair given verifier/judge feedback, enforcing the normalization contract
// of spec.md §4.4 on whatever JSON the model returns. Grounded on
// original_source/agents/question_generator_agent.py and
// agents/base_agent.py's generate_json fence-stripping.
package generator

import (
	"context"
	"fmt"

	"github.com/examforge/examforge/internal/external/llm"
	"github.com/examforge/examforge/internal/model"
)

// Generator produces and revises blueprints/questions via an LLM client.
type Generator struct {
	client llm.Client
}

// New creates a Generator backed by client.
func New(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate implements generate_question(selection): one model call,
// normalized into a Blueprint and Question (spec.md §4.4).
func (g *Generator) Generate(ctx context.Context, sel model.ConceptSelection, exam model.ExamType) (model.Blueprint, model.Question, error) {
	prompt := buildGenerationPrompt(sel, exam)
	resp, err := g.client.Generate(ctx, prompt, &llm.Options{Temperature: 0.7})
	if err != nil {
		return model.Blueprint{}, model.Question{}, fmt.Errorf("generator: generate: %w", err)
	}

	raw, err := parseRaw(resp)
	if err != nil {
		return model.Blueprint{}, model.Question{}, err
	}

	bp := blueprintFromRaw(raw, sel, exam, 0)
	q := questionFromRaw(raw, bp, exam)
	return bp, q, nil
}

// Revise implements revise_question(question, blueprint, issues,
// suggestions): the revised blueprint's revision_count is the input's + 1,
// and the "first choice correct" invariant is re-forced on the new choices
// (spec.md §4.4).
func (g *Generator) Revise(ctx context.Context, q model.Question, bp model.Blueprint, issues, suggestions []string) (model.Blueprint, model.Question, error) {
	exam := model.ExamThinkingSkills
	if len(bp.Distractors) == 4 {
		exam = model.ExamMath
	}

	prompt := buildRevisionPrompt(q, bp, issues, suggestions)
	resp, err := g.client.Generate(ctx, prompt, &llm.Options{Temperature: 0.5})
	if err != nil {
		return model.Blueprint{}, model.Question{}, fmt.Errorf("generator: revise: %w", err)
	}

	raw, err := parseRaw(resp)
	if err != nil {
		return model.Blueprint{}, model.Question{}, err
	}

	sel := model.ConceptSelection{
		Concept:          model.Concept{ID: bp.ConceptID, SubtopicID: bp.SubtopicID, TopicID: bp.TopicID},
		TargetDifficulty: bp.DifficultyTarget,
	}
	revised := blueprintFromRaw(raw, sel, exam, bp.RevisionCount+1)
	revisedQ := questionFromRaw(raw, revised, exam)
	return revised, revisedQ, nil
}

// blueprintFromRaw fills mandatory fields from the concept/difficulty when
// the model omits them, and pads distractors to the exam's required count.
func blueprintFromRaw(raw rawPayload, sel model.ConceptSelection, exam model.ExamType, revisionCount int) model.Blueprint {
	numChoices := model.MandatoryChoiceCount(exam)
	choices := padChoices(raw.Choices, numChoices)

	distractors := make([]model.Distractor, 0, numChoices-1)
	correctValue := ""
	for _, c := range choices {
		if c.Correct {
			correctValue = c.Text
			continue
		}
		distractors = append(distractors, model.Distractor{Text: c.Text, Misconception: c.Misconception})
	}

	tags := raw.Tags
	if len(tags) == 0 {
		tags = []string{"Thinking Skills"}
		if exam == model.ExamMath {
			tags = []string{"Mathematics"}
		}
	}

	return model.Blueprint{
		ConceptID:              sel.Concept.ID,
		SubtopicID:             sel.Concept.SubtopicID,
		TopicID:                sel.Concept.TopicID,
		QuestionType:           "mcq",
		TargetSkill:            "application",
		DifficultyTarget:       sel.TargetDifficulty,
		SetupElements:          raw.SetupElements,
		QuestionStemStructure:  raw.QuestionStemStructure,
		Constraints:            raw.Constraints,
		CorrectAnswerValue:     correctValue,
		CorrectAnswerReasoning: raw.CorrectAnswerReasoning,
		Distractors:            distractors,
		SolutionSteps:          raw.SolutionSteps,
		RequiresImage:          raw.RequiresImage,
		ImageSpec:              raw.ImageSpec,
		Tags:                   tags,
		RevisionCount:          revisionCount,
	}
}

// questionFromRaw builds the presentation Question from the same raw
// payload and the already-normalized blueprint, re-emitting choices with
// the first-choice-correct invariant intact.
func questionFromRaw(raw rawPayload, bp model.Blueprint, exam model.ExamType) model.Question {
	numChoices := model.MandatoryChoiceCount(exam)
	norm := padChoices(raw.Choices, numChoices)

	choices := make([]model.Choice, 0, len(norm))
	for _, c := range norm {
		choices = append(choices, model.Choice{
			Text:          c.Text,
			Correct:       c.Correct,
			Misconception: c.Misconception,
		})
	}

	explanation := raw.Explanation
	if explanation == "" {
		explanation = "No explanation provided."
	}

	return model.Question{
		Content:          raw.Content,
		Question:         raw.QuestionText,
		Choices:          choices,
		Type:             "multiple_choice",
		Explanation:      explanation,
		Difficulty:       bp.DifficultyTarget,
		TopicID:          bp.TopicID,
		SubtopicID:       bp.SubtopicID,
		RequiresImage:    bp.RequiresImage,
		ImageDescription: bp.ImageSpec,
		Tags:             bp.Tags,
		IsActive:         true,
	}
}
