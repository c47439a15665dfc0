// Package pipeline implements the Pipeline Controller (C7): the
// per-question state machine SELECT_CONCEPT -> GENERATE ->
// VERIFY_CORRECTNESS -> CHECK_QUALITY -> {ACCEPT | REVISE | FAIL}, plus
// batch fan-out with no cross-pipeline concept exclusion (spec.md §4.7).
// Grounded on original_source/agents/pipeline_controller.py. The
// Controller itself is transport-agnostic: it calls its four collaborator
// interfaces however cmd/examforge wires them — in-process structs when a
// single process hosts every role ("all"), or internal/remote's
// JSON-RPC-over-HTTP adapters when the controller runs inside its own
// orchestrator process talking to separately deployed peer services.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/examforge/examforge/internal/model"
)

// ConceptSelector is the subset of the Concept Registry the controller
// needs.
type ConceptSelector interface {
	SelectConcept(subtopic string, difficulty int, excludeIDs []string) (model.ConceptSelection, error)
}

// QuestionGenerator is the subset of the Generator the controller needs.
type QuestionGenerator interface {
	Generate(ctx context.Context, sel model.ConceptSelection, exam model.ExamType) (model.Blueprint, model.Question, error)
	Revise(ctx context.Context, q model.Question, bp model.Blueprint, issues, suggestions []string) (model.Blueprint, model.Question, error)
}

// CorrectnessVerifier is the subset of the Correctness Verifier the
// controller needs.
type CorrectnessVerifier interface {
	VerifyCorrectness(ctx context.Context, q model.Question, bp model.Blueprint) (model.VerificationResult, error)
}

// QualityChecker is the subset of the Quality Judge the controller needs.
type QualityChecker interface {
	CheckQuality(ctx context.Context, q model.Question, bp model.Blueprint) (model.Judgment, error)
}

// Config tunes the controller's revision budget (spec.md §4.7: "Maximum
// revisions = N (default 3)").
type Config struct {
	MaxRevisions int
}

// DefaultConfig returns the spec's default revision budget.
func DefaultConfig() Config {
	return Config{MaxRevisions: 3}
}

// Controller runs the per-question state machine.
type Controller struct {
	concepts  ConceptSelector
	generator QuestionGenerator
	verifier  CorrectnessVerifier
	judge     QualityChecker
	config    Config
}

// New creates a Controller wired to its four collaborators.
func New(concepts ConceptSelector, generator QuestionGenerator, verifier CorrectnessVerifier, judge QualityChecker, config Config) *Controller {
	return &Controller{concepts: concepts, generator: generator, verifier: verifier, judge: judge, config: config}
}

// GenerateQuestion runs one pipeline flight for a single question: select a
// concept, then generate/verify/judge, revising on needs_revision up to
// config.MaxRevisions times (spec.md §4.7's state diagram).
func (c *Controller) GenerateQuestion(ctx context.Context, subtopic string, difficulty int, excludeConceptIDs []string, exam model.ExamType) model.PipelineResult {
	state := model.PipelineState{Subtopic: subtopic, Difficulty: difficulty}

	sel, err := c.concepts.SelectConcept(subtopic, difficulty, excludeConceptIDs)
	if err != nil {
		state.Errors = append(state.Errors, fmt.Sprintf("failed to select concept: %v", err))
		return result(state)
	}
	state.ConceptSelection = &sel

	var bp model.Blueprint
	var q model.Question
	var judgment model.Judgment

	for attempt := 0; attempt <= c.config.MaxRevisions; attempt++ {
		state.RevisionCount = attempt

		var newBP model.Blueprint
		var newQ model.Question
		if attempt == 0 {
			newBP, newQ, err = c.generator.Generate(ctx, sel, exam)
		} else {
			newBP, newQ, err = c.generator.Revise(ctx, q, bp, judgment.Issues, judgment.Suggestions)
		}
		if err != nil {
			state.Errors = append(state.Errors, fmt.Sprintf("failed to generate question (attempt %d): %v", attempt+1, err))
			if attempt == 0 {
				// No prior blueprint/question exists to fall back to; the
				// original terminates the same way on a first-attempt
				// generate failure rather than carrying forward zero-valued
				// state into revise/verify/judge.
				return result(state)
			}
			continue
		}
		bp, q = newBP, newQ
		state.Blueprint = &bp
		state.Question = &q

		verification, err := c.verifier.VerifyCorrectness(ctx, q, bp)
		if err != nil {
			state.Errors = append(state.Errors, fmt.Sprintf("correctness verifier error: %v", err))
			continue
		}
		if !verification.Verified {
			judgment = model.Judgment{
				Accepted:    false,
				Status:      model.StatusNeedsRevision,
				Issues:      orDefault(verification.Issues, []string{"Answer verification failed"}),
				Suggestions: verification.Suggestions,
			}
			state.LastJudgment = &judgment
			continue
		}

		judgment, err = c.judge.CheckQuality(ctx, q, bp)
		if err != nil {
			state.Errors = append(state.Errors, fmt.Sprintf("quality check failed (attempt %d): %v", attempt+1, err))
			continue
		}
		state.LastJudgment = &judgment

		if judgment.Accepted {
			state.Accepted = true
			break
		}
	}

	return result(state)
}

// GenerateBatch launches count independent pipeline flights concurrently
// with no cross-pipeline concept exclusion (spec.md §4.7 batch fan-out: "a
// deliberate throughput trade-off").
func (c *Controller) GenerateBatch(ctx context.Context, subtopic string, count int, difficulty int, exam model.ExamType) []model.PipelineResult {
	results := make([]model.PipelineResult, count)
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.GenerateQuestion(ctx, subtopic, difficulty, nil, exam)
		}(i)
	}
	wg.Wait()
	return results
}

func result(state model.PipelineState) model.PipelineResult {
	r := model.PipelineResult{
		Accepted:      state.Accepted,
		Question:      state.Question,
		RevisionCount: state.RevisionCount,
		Judgment:      state.LastJudgment,
		Errors:        state.Errors,
	}
	if r.Errors == nil {
		r.Errors = []string{}
	}
	if state.ConceptSelection != nil {
		r.ConceptID = state.ConceptSelection.Concept.ID
	}
	return r
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}
