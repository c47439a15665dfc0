package remote

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examforge/examforge/internal/host"
	"github.com/examforge/examforge/internal/model"
	"github.com/examforge/examforge/internal/platform/logging"
	"github.com/examforge/examforge/internal/transport"
)

func testClient() *transport.Client {
	return transport.NewClient("test", 0, logging.New("test", "error", logging.FormatJSON, false))
}

type fakeConceptRegistry struct {
	sel model.ConceptSelection
	err error
}

func (f *fakeConceptRegistry) SelectConceptHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	if f.err != nil {
		return map[string]interface{}{"success": false, "error": f.err.Error()}, nil
	}
	return map[string]interface{}{
		"success":                 true,
		"concept_id":              f.sel.Concept.ID,
		"concept_name":            f.sel.Concept.Name,
		"concept_description":     f.sel.Concept.Description,
		"subtopic_id":             f.sel.Concept.SubtopicID,
		"topic_id":                f.sel.Concept.TopicID,
		"target_difficulty":       f.sel.TargetDifficulty,
		"target_bloom":            f.sel.TargetBloom,
		"selected_misconceptions": f.sel.SelectedMisconceptions,
		"selected_pattern":        f.sel.SelectedPattern,
	}, nil
}

func TestConceptSelectorCallsPeerOverHTTP(t *testing.T) {
	registry := &fakeConceptRegistry{sel: model.ConceptSelection{
		Concept: model.Concept{
			ID:          "c1",
			Name:        "Analogies",
			Description: "reasoning by structural similarity",
			SubtopicID:  "st1",
			TopicID:     "t1",
		},
		TargetDifficulty: 3,
	}}
	h := host.New("concept_guide", "0.1.0", "http://localhost:5007", nil)
	h.Register("select_concept", registry.SelectConceptHandler)

	srv := httptest.NewServer(h)
	defer srv.Close()

	selector := NewConceptSelector(testClient(), transport.Endpoint{Name: "concept_guide", BaseURL: srv.URL})
	sel, err := selector.SelectConcept("analogies", 3, nil)

	require.NoError(t, err)
	assert.Equal(t, "c1", sel.Concept.ID)
	assert.Equal(t, "reasoning by structural similarity", sel.Concept.Description)
	assert.Equal(t, "st1", sel.Concept.SubtopicID)
	assert.Equal(t, "t1", sel.Concept.TopicID)
	assert.Equal(t, 3, sel.TargetDifficulty)
}

func TestConceptSelectorSurfacesPeerFailure(t *testing.T) {
	registry := &fakeConceptRegistry{err: assert.AnError}
	h := host.New("concept_guide", "0.1.0", "http://localhost:5007", nil)
	h.Register("select_concept", registry.SelectConceptHandler)

	srv := httptest.NewServer(h)
	defer srv.Close()

	selector := NewConceptSelector(testClient(), transport.Endpoint{Name: "concept_guide", BaseURL: srv.URL})
	_, err := selector.SelectConcept("analogies", 3, nil)

	assert.Error(t, err)
}

func TestConceptSelectorSurfacesUnreachablePeer(t *testing.T) {
	selector := NewConceptSelector(testClient(), transport.Endpoint{Name: "concept_guide", BaseURL: "http://127.0.0.1:1"})
	_, err := selector.SelectConcept("analogies", 3, nil)
	assert.Error(t, err)
}

type fakeGeneratorHandlers struct{}

func (f *fakeGeneratorHandlers) GenerateQuestionHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	return map[string]interface{}{
		"success":   true,
		"blueprint": model.Blueprint{ConceptID: "c1"},
		"question":  model.Question{Question: "generated"},
	}, nil
}

func (f *fakeGeneratorHandlers) ReviseQuestionHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	return map[string]interface{}{
		"success":   true,
		"blueprint": model.Blueprint{ConceptID: "c1", RevisionCount: 1},
		"question":  model.Question{Question: "revised"},
	}, nil
}

func TestQuestionGeneratorGenerateAndReviseOverHTTP(t *testing.T) {
	gen := &fakeGeneratorHandlers{}
	h := host.New("question_generator", "0.1.0", "http://localhost:5008", nil)
	h.Register("generate_question", gen.GenerateQuestionHandler)
	h.Register("revise_question", gen.ReviseQuestionHandler)

	srv := httptest.NewServer(h)
	defer srv.Close()

	client := NewQuestionGenerator(testClient(), transport.Endpoint{Name: "question_generator", BaseURL: srv.URL})

	bp, q, err := client.Generate(context.Background(), model.ConceptSelection{Concept: model.Concept{ID: "c1"}}, model.ExamThinkingSkills)
	require.NoError(t, err)
	assert.Equal(t, "c1", bp.ConceptID)
	assert.Equal(t, "generated", q.Question)

	bp, q, err = client.Revise(context.Background(), q, bp, []string{"issue"}, []string{"suggestion"})
	require.NoError(t, err)
	assert.Equal(t, 1, bp.RevisionCount)
	assert.Equal(t, "revised", q.Question)
}

type fakeVerifierHandler struct{}

func (f *fakeVerifierHandler) VerifyCorrectnessHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	return map[string]interface{}{"success": true, "verified": true}, nil
}

func TestCorrectnessVerifierOverHTTP(t *testing.T) {
	v := &fakeVerifierHandler{}
	h := host.New("correctness", "0.1.0", "http://localhost:5001", nil)
	h.Register("verify_correctness", v.VerifyCorrectnessHandler)

	srv := httptest.NewServer(h)
	defer srv.Close()

	client := NewCorrectnessVerifier(testClient(), transport.Endpoint{Name: "correctness", BaseURL: srv.URL})
	result, err := client.VerifyCorrectness(context.Background(), model.Question{}, model.Blueprint{})

	require.NoError(t, err)
	assert.True(t, result.Verified)
}

type fakeJudgeHandler struct{}

func (f *fakeJudgeHandler) CheckQualityHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	return map[string]interface{}{"success": true, "accepted": true, "status": string(model.StatusAccepted)}, nil
}

func TestQualityCheckerOverHTTP(t *testing.T) {
	j := &fakeJudgeHandler{}
	h := host.New("quality_checker", "0.1.0", "http://localhost:5009", nil)
	h.Register("check_quality", j.CheckQualityHandler)

	srv := httptest.NewServer(h)
	defer srv.Close()

	client := NewQualityChecker(testClient(), transport.Endpoint{Name: "quality_checker", BaseURL: srv.URL})
	judgment, err := client.CheckQuality(context.Background(), model.Question{}, model.Blueprint{})

	require.NoError(t, err)
	assert.True(t, judgment.Accepted)
}
