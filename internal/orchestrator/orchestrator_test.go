package orchestrator

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/examforge/examforge/internal/model"
)

// fakePipeline accepts every request except it under-delivers by
// `shortBy` on the first call for a given subtopic, then fully delivers on
// subsequent calls - modeling a shortfall that the retry round fixes.
// `permanentShort` lists subtopics that always deliver zero, modeling a
// subtopic that never recovers across retries.
type fakePipeline struct {
	mu             sync.Mutex
	shortBy        map[string]int
	permanentShort map[string]bool
	callsFor       map[string]int
}

func (f *fakePipeline) GenerateBatch(ctx context.Context, subtopic string, count int, difficulty int, exam model.ExamType) []model.PipelineResult {
	f.mu.Lock()
	f.callsFor[subtopic]++
	firstCall := f.callsFor[subtopic] == 1
	f.mu.Unlock()

	deliver := count
	if f.permanentShort[subtopic] {
		deliver = 0
	} else if firstCall {
		if short, ok := f.shortBy[subtopic]; ok {
			deliver = count - short
			if deliver < 0 {
				deliver = 0
			}
		}
	}

	results := make([]model.PipelineResult, count)
	for i := 0; i < count; i++ {
		if i < deliver {
			results[i] = model.PipelineResult{Accepted: true, Question: &model.Question{Question: subtopic}}
		} else {
			results[i] = model.PipelineResult{Accepted: false, Errors: []string{"rejected"}}
		}
	}
	return results
}

// Covers spec.md §8 scenario S3: thinking-skills quota 40, round 1 is 3
// short in "logical_reasoning"; round 2 asks for exactly that shortfall and
// the aggregated total reaches 40.
func TestRunBatchRetriesOnlyTheShortfall(t *testing.T) {
	fp := &fakePipeline{
		shortBy:  map[string]int{"logical_reasoning": 3},
		callsFor: map[string]int{},
	}
	o := New(fp, DefaultConfig())

	result := o.RunBatch(context.Background(), model.ExamThinkingSkills, model.DefaultQuota(model.ExamThinkingSkills), 3)

	assert.Equal(t, 40, result.TotalQuestions)
	assert.Equal(t, 2, fp.callsFor["logical_reasoning"])
	assert.Equal(t, 1, fp.callsFor["critical_thinking"])
}

// Covers spec.md §8 property 7: each retry round's shortfall is strictly
// smaller than (or equal to, once resolved) the prior round's - verified
// here by confirming the round stops requesting once a subtopic is
// satisfied, never re-requesting a subtopic that already met quota.
func TestRunBatchStopsRequestingSatisfiedSubtopics(t *testing.T) {
	fp := &fakePipeline{shortBy: map[string]int{}, callsFor: map[string]int{}}
	o := New(fp, DefaultConfig())

	o.RunBatch(context.Background(), model.ExamMath, model.DefaultQuota(model.ExamMath), 3)

	for subtopic, calls := range fp.callsFor {
		assert.Equal(t, 1, calls, "subtopic %s should be requested exactly once when fully satisfied on round 1", subtopic)
	}
}

func TestRunBatchReportsShortfallErrorAfterExhaustingRetries(t *testing.T) {
	fp := &fakePipeline{
		permanentShort: map[string]bool{"critical_thinking": true},
		callsFor:       map[string]int{},
	}
	o := New(fp, Config{RetryRounds: 1})

	result := o.RunBatch(context.Background(), model.ExamThinkingSkills, model.DefaultQuota(model.ExamThinkingSkills), 3)

	assert.Less(t, result.TotalQuestions, 40)
	assert.NotEmpty(t, result.Errors)
}
