package concept

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	examerrors "github.com/examforge/examforge/internal/platform/errors"
)

func writeCatalog(t *testing.T, dir, subtopic string, file catalogFile) {
	t.Helper()
	data, err := json.Marshal(file)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, subtopic+".json"), data, 0o644))
}

// Covers spec.md §8 scenario S2: a subtopic whose only concept has
// difficulty_min=1, difficulty_max=2; requesting difficulty=3 falls back
// past the difficulty window to the exclusion-only relaxed set, and the
// derived bloom level is "application" (2 < 3, and comprehension doesn't
// apply since difficulty 3 > 1).
func TestSelectConceptDifficultyFallback(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "x", catalogFile{
		SubtopicID:   "sub-x",
		SubtopicName: "x",
		TopicID:      "topic-1",
		Concepts: []catalogEntry{
			{ID: "c1", Name: "Only Concept", DifficultyMin: 1, DifficultyMax: 2, BloomLevels: []string{"application"}},
		},
	})

	r := New(dir)
	sel, err := r.SelectConcept("x", 3, nil)
	require.NoError(t, err)
	assert.Equal(t, "c1", sel.Concept.ID)
	assert.Equal(t, "application", sel.TargetBloom)
}

// Covers spec.md §8 property 3: select_concept with exclude_ids equal to
// every catalog id for the subtopic must fail with the no_eligible tag.
func TestSelectConceptAllExcludedFails(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "y", catalogFile{
		SubtopicID:   "sub-y",
		SubtopicName: "y",
		TopicID:      "topic-1",
		Concepts: []catalogEntry{
			{ID: "c1", DifficultyMin: 1, DifficultyMax: 3},
			{ID: "c2", DifficultyMin: 1, DifficultyMax: 3},
		},
	})

	r := New(dir)
	_, err := r.SelectConcept("y", 2, []string{"c1", "c2"})
	require.Error(t, err)
	assert.Equal(t, examerrors.KindNoEligible, examerrors.KindOf(err))
}

// Covers spec.md §8 property 4: select_concept never returns an excluded
// id when a non-excluded, difficulty-eligible concept exists.
func TestSelectConceptNeverReturnsExcluded(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "z", catalogFile{
		SubtopicID:   "sub-z",
		SubtopicName: "z",
		TopicID:      "topic-1",
		Concepts: []catalogEntry{
			{ID: "c1", DifficultyMin: 1, DifficultyMax: 3},
			{ID: "c2", DifficultyMin: 1, DifficultyMax: 3},
		},
	})

	r := New(dir)
	for i := 0; i < 20; i++ {
		sel, err := r.SelectConcept("z", 2, []string{"c1"})
		require.NoError(t, err)
		assert.Equal(t, "c2", sel.Concept.ID)
	}
}

// Covers spec.md §8 property 12: concurrent first access yields
// at-most-one filesystem load.
func TestConcurrentLoadIsAtMostOnce(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "a", catalogFile{
		SubtopicID: "sub-a", SubtopicName: "a", TopicID: "t1",
		Concepts: []catalogEntry{{ID: "c1", DifficultyMin: 1, DifficultyMax: 3}},
	})

	r := New(dir)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.SelectConcept("a", 2, nil)
		}()
	}
	wg.Wait()

	subtopics, err := r.ListSubtopics()
	require.NoError(t, err)
	require.Len(t, subtopics, 1)
	assert.Equal(t, 1, subtopics[0].ConceptCount)
}
