// Package concept implements the Concept Registry (C3): a lazily,
// at-most-once loaded in-memory concept catalog plus the select_concept
// algorithm of spec.md §4.3, grounded on
// original_source/agents/concept_guide_agent.py.
package concept

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"

	examerrors "github.com/examforge/examforge/internal/platform/errors"

	"github.com/examforge/examforge/internal/model"
)

// catalogFile is the on-disk shape of one subtopic's concept file.
type catalogFile struct {
	SubtopicID             string          `json:"subtopic_id"`
	SubtopicName           string          `json:"subtopic_name"`
	TopicID                string          `json:"topic_id"`
	TypicallyRequiresImage bool            `json:"typically_requires_image"`
	ImageTypes             []string        `json:"image_types"`
	Concepts               []catalogEntry  `json:"concepts"`
}

type catalogEntry struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	DifficultyMin        int      `json:"difficulty_min"`
	DifficultyMax        int      `json:"difficulty_max"`
	BloomLevels          []string `json:"bloom_levels"`
	CommonMisconceptions []string `json:"common_misconceptions"`
	QuestionPatterns     []string `json:"question_patterns"`
}

// Subtopic groups the concepts loaded from one catalog file.
type Subtopic struct {
	Key          string
	SubtopicID   string
	SubtopicName string
	TopicID      string
	Concepts     []model.Concept
}

// Registry owns the in-memory concept catalog. The catalog is read-only
// after initial load (spec.md §5); ensureLoaded guards load with sync.Once so
// concurrent first access triggers at most one filesystem read
// (spec.md §8 property 12).
type Registry struct {
	dir  string
	once sync.Once
	err  error

	mu        sync.RWMutex
	subtopics map[string]*Subtopic
	rng       *rand.Rand
	rngMu     sync.Mutex
}

// New creates a Registry that lazily loads concept files from dir.
func New(dir string) *Registry {
	return &Registry{
		dir:       dir,
		subtopics: make(map[string]*Subtopic),
		rng:       rand.New(rand.NewSource(1)),
	}
}

// ensureLoaded performs the one-shot catalog load. Safe for concurrent
// callers: only the first caller actually reads the filesystem.
func (r *Registry) ensureLoaded() error {
	r.once.Do(func() {
		r.err = r.load()
	})
	return r.err
}

func (r *Registry) load() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read concepts dir %s: %w", r.dir, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var file catalogFile
		if err := json.Unmarshal(data, &file); err != nil {
			continue
		}

		key := strings.TrimSuffix(entry.Name(), ".json")
		concepts := make([]model.Concept, 0, len(file.Concepts))
		for _, c := range file.Concepts {
			bloomLevels := c.BloomLevels
			if len(bloomLevels) == 0 {
				bloomLevels = []string{"application"}
			}
			concepts = append(concepts, model.Concept{
				ID:                     c.ID,
				Name:                   c.Name,
				Description:            c.Description,
				SubtopicID:             file.SubtopicID,
				SubtopicName:           file.SubtopicName,
				TopicID:                file.TopicID,
				DifficultyMin:          orDefault(c.DifficultyMin, 1),
				DifficultyMax:          orDefault(c.DifficultyMax, 3),
				BloomLevels:            bloomLevels,
				CommonMisconceptions:   c.CommonMisconceptions,
				QuestionPatterns:       c.QuestionPatterns,
				TypicallyRequiresImage: file.TypicallyRequiresImage,
				ImageTypes:             file.ImageTypes,
			})
		}

		r.subtopics[key] = &Subtopic{
			Key:          key,
			SubtopicID:   file.SubtopicID,
			SubtopicName: file.SubtopicName,
			TopicID:      file.TopicID,
			Concepts:     concepts,
		}
	}
	return nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// ListSubtopics enumerates subtopics with concept counts and difficulty
// ranges (spec.md §4.3 list_subtopics).
func (r *Registry) ListSubtopics() ([]SubtopicSummary, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]SubtopicSummary, 0, len(r.subtopics))
	for key, st := range r.subtopics {
		summary := SubtopicSummary{
			Key:          key,
			SubtopicID:   st.SubtopicID,
			SubtopicName: st.SubtopicName,
			ConceptCount: len(st.Concepts),
			DifficultyMin: 1,
			DifficultyMax: 3,
		}
		if len(st.Concepts) > 0 {
			summary.DifficultyMin = st.Concepts[0].DifficultyMin
			summary.DifficultyMax = st.Concepts[0].DifficultyMax
			for _, c := range st.Concepts {
				if c.DifficultyMin < summary.DifficultyMin {
					summary.DifficultyMin = c.DifficultyMin
				}
				if c.DifficultyMax > summary.DifficultyMax {
					summary.DifficultyMax = c.DifficultyMax
				}
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// SubtopicSummary is one entry of ListSubtopics' output.
type SubtopicSummary struct {
	Key           string
	SubtopicID    string
	SubtopicName  string
	ConceptCount  int
	DifficultyMin int
	DifficultyMax int
}

// GetConcepts returns the concepts for a subtopic, or all concepts if
// subtopic is empty (spec.md §4.3 get_concepts).
func (r *Registry) GetConcepts(subtopic string) ([]model.Concept, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if subtopic == "" {
		var all []model.Concept
		for _, st := range r.subtopics {
			all = append(all, st.Concepts...)
		}
		return all, nil
	}
	st, ok := r.subtopics[subtopic]
	if !ok {
		return nil, fmt.Errorf("unknown subtopic: %s", subtopic)
	}
	return st.Concepts, nil
}

// SelectConcept implements spec.md §4.3's select_concept algorithm:
// filter by difficulty window and exclusion set; if empty, relax to
// exclusion-only; if still empty, fail with KindNoEligible. Select
// uniformly at random from the eligible set, then derive target bloom
// level, misconception seeds, and an optional question pattern.
func (r *Registry) SelectConcept(subtopic string, difficulty int, excludeIDs []string) (model.ConceptSelection, error) {
	if err := r.ensureLoaded(); err != nil {
		return model.ConceptSelection{}, err
	}
	r.mu.RLock()
	st, ok := r.subtopics[subtopic]
	r.mu.RUnlock()
	if !ok {
		return model.ConceptSelection{}, fmt.Errorf("unknown subtopic: %s", subtopic)
	}

	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	eligible := filterConcepts(st.Concepts, func(c model.Concept) bool {
		return c.InDifficultyWindow(difficulty) && !excluded[c.ID]
	})
	if len(eligible) == 0 {
		eligible = filterConcepts(st.Concepts, func(c model.Concept) bool {
			return !excluded[c.ID]
		})
	}
	if len(eligible) == 0 {
		return model.ConceptSelection{}, examerrors.New("concept.SelectConcept", examerrors.KindNoEligible, "no_eligible")
	}

	selected := eligible[r.randIntn(len(eligible))]

	targetBloom := "application"
	if difficulty >= 3 && selected.HasBloomLevel("analysis") {
		targetBloom = "analysis"
	} else if difficulty <= 1 && selected.HasBloomLevel("comprehension") {
		targetBloom = "comprehension"
	}

	misconceptions := selected.CommonMisconceptions
	if len(misconceptions) > 3 {
		misconceptions = misconceptions[:3]
	}

	var pattern string
	if len(selected.QuestionPatterns) > 0 {
		pattern = selected.QuestionPatterns[r.randIntn(len(selected.QuestionPatterns))]
	}

	return model.ConceptSelection{
		Concept:                selected,
		TargetDifficulty:       difficulty,
		TargetBloom:            targetBloom,
		SelectedMisconceptions: append([]string(nil), misconceptions...),
		SelectedPattern:        pattern,
	}, nil
}

func (r *Registry) randIntn(n int) int {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return r.rng.Intn(n)
}

func filterConcepts(in []model.Concept, keep func(model.Concept) bool) []model.Concept {
	out := make([]model.Concept, 0, len(in))
	for _, c := range in {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
