// Package orchestrator implements the Orchestrator façade (C8): it plans a
// batch from an exam type's default (or overridden) subtopic quota,
// dispatches subtopic batches in parallel, and retries only the shortfall
// for up to Config.RetryRounds additional rounds, aggregating results and a
// step-log. Grounded on
// original_source/agents/orchestrator.py::_generate_thinking_skills and
// ::_generate_math, which share this exact round-robin shortfall-retry
// shape.
package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/examforge/examforge/internal/model"
)

// BatchGenerator is the subset of the Pipeline Controller the orchestrator
// needs.
type BatchGenerator interface {
	GenerateBatch(ctx context.Context, subtopic string, count int, difficulty int, exam model.ExamType) []model.PipelineResult
}

// Config tunes the orchestrator's retry budget (spec.md §4.8) and its
// optional quota overrides.
type Config struct {
	RetryRounds int
	Quotas      QuotaOverrides
}

// DefaultConfig returns the spec's default retry budget with no quota
// overrides.
func DefaultConfig() Config {
	return Config{RetryRounds: 3}
}

// Orchestrator plans and runs exam-generation batches.
type Orchestrator struct {
	pipeline BatchGenerator
	config   Config
}

// New creates an Orchestrator wired to a batch-capable pipeline.
func New(pipeline BatchGenerator, config Config) *Orchestrator {
	return &Orchestrator{pipeline: pipeline, config: config}
}

// quotaFor resolves the effective quota for exam: the operator-supplied
// override if one was loaded, else the built-in default.
func (o *Orchestrator) quotaFor(exam model.ExamType) map[string]int {
	return o.config.Quotas.Quota(exam)
}

// RunBatch implements spec.md §4.8's execution model: dispatch all
// subtopic batches in parallel; after each round, count accepted per
// subtopic; if any subtopic is short, run up to config.RetryRounds
// additional rounds asking only for the shortfall.
func (o *Orchestrator) RunBatch(ctx context.Context, exam model.ExamType, quota map[string]int, difficulty int) model.BatchResult {
	subtopics := sortedKeys(quota)

	accepted := make(map[string][]model.Question, len(quota))
	var errors []string
	var steps []model.Step

	for round := 0; round <= o.config.RetryRounds; round++ {
		type need struct {
			subtopic string
			count    int
		}
		var needs []need
		for _, st := range subtopics {
			target := quota[st]
			if target <= 0 {
				continue
			}
			have := len(accepted[st])
			if missing := target - have; missing > 0 {
				needs = append(needs, need{subtopic: st, count: missing})
			}
		}

		if len(needs) == 0 {
			break
		}

		stepName := "generate_questions"
		if round > 0 {
			stepName = fmt.Sprintf("retry_round_%d", round)
		}

		type roundResult struct {
			subtopic string
			results  []model.PipelineResult
		}
		roundResults := make([]roundResult, len(needs))
		var wg sync.WaitGroup
		for i, n := range needs {
			wg.Add(1)
			go func(i int, n need) {
				defer wg.Done()
				roundResults[i] = roundResult{
					subtopic: n.subtopic,
					results:  o.pipeline.GenerateBatch(ctx, n.subtopic, n.count, difficulty, exam),
				}
			}(i, n)
		}
		wg.Wait()

		acceptedThisRound := 0
		for _, rr := range roundResults {
			for _, r := range rr.results {
				if r.Accepted && r.Question != nil {
					accepted[rr.subtopic] = append(accepted[rr.subtopic], *r.Question)
					acceptedThisRound++
				} else {
					errors = append(errors, r.Errors...)
				}
			}
		}

		steps = append(steps, model.Step{Name: stepName, Status: "completed", Count: acceptedThisRound})
	}

	questions := make([]model.Question, 0, totalQuota(quota))
	for _, st := range subtopics {
		for _, q := range accepted[st] {
			questions = append(questions, q)
		}
		target := quota[st]
		actual := len(accepted[st])
		if actual < target {
			errors = append(errors, fmt.Sprintf("%s has %d/%d questions after %d retry rounds", st, actual, target, o.config.RetryRounds))
		}
	}

	return model.BatchResult{
		Success:        true,
		Questions:      questions,
		TotalQuestions: len(questions),
		Errors:         errors,
		Steps:          steps,
	}
}

func totalQuota(quota map[string]int) int {
	total := 0
	for _, v := range quota {
		total += v
	}
	return total
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
