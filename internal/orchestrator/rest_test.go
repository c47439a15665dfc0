package orchestrator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examforge/examforge/internal/model"
	"github.com/examforge/examforge/internal/platform/logging"
	"github.com/examforge/examforge/internal/transport"
)

func TestCheckAgentsReportsOnlineForReachablePeer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.AgentCard{Name: "concept_guide", Version: "0.1.0", Skills: []string{"select_concept"}})
	}))
	defer srv.Close()

	client := transport.NewClient("test", 0, logging.New("test", "error", logging.FormatJSON, false))
	peers := []transport.Endpoint{{Name: "concept_guide", BaseURL: srv.URL}}

	health := CheckAgents(context.Background(), client, peers)

	require.Contains(t, health.Agents, "concept_guide")
	assert.Equal(t, "online", health.Agents["concept_guide"].Status)
	assert.Equal(t, []string{"select_concept"}, health.Agents["concept_guide"].Skills)
}

func TestCheckAgentsReportsErrorForUnreachablePeer(t *testing.T) {
	client := transport.NewClient("test", 0, logging.New("test", "error", logging.FormatJSON, false))
	peers := []transport.Endpoint{{Name: "dead", BaseURL: "http://127.0.0.1:1"}}

	health := CheckAgents(context.Background(), client, peers)

	require.Contains(t, health.Agents, "dead")
	assert.Equal(t, "error", health.Agents["dead"].Status)
	assert.NotEmpty(t, health.Agents["dead"].Error)
}

func TestAgentsHandlerServesHealthAggregate(t *testing.T) {
	client := transport.NewClient("test", 0, logging.New("test", "error", logging.FormatJSON, false))
	peers := []transport.Endpoint{{Name: "dead", BaseURL: "http://127.0.0.1:1"}}

	req := httptest.NewRequest(http.MethodGet, "/agents", nil)
	rec := httptest.NewRecorder()
	AgentsHandler(client, peers)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var health AgentsHealth
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Contains(t, health.Agents, "dead")
}

type fakeSingleRunner struct {
	result model.PipelineResult
}

func (f *fakeSingleRunner) GenerateQuestion(ctx context.Context, subtopic string, difficulty int, excludeConceptIDs []string, exam model.ExamType) model.PipelineResult {
	return f.result
}

func TestSingleQuestionHandlerReturnsPipelineResult(t *testing.T) {
	runner := &fakeSingleRunner{result: model.PipelineResult{Accepted: true, ConceptID: "c1", Question: &model.Question{Question: "2+2?"}}}

	body := strings.NewReader(`{"subtopic":"deduction","difficulty":2,"exam_type":"thinking_skills"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/questions/single", body)
	rec := httptest.NewRecorder()
	SingleQuestionHandler(runner)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got model.PipelineResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Accepted)
	assert.Equal(t, "c1", got.ConceptID)
}

func TestSingleQuestionHandlerRejectsInvalidJSON(t *testing.T) {
	runner := &fakeSingleRunner{}
	req := httptest.NewRequest(http.MethodPost, "/api/questions/single", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	SingleQuestionHandler(runner)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakeConcepts struct {
	sel model.ConceptSelection
	err error
}

func (f *fakeConcepts) SelectConcept(subtopic string, difficulty int, excludeIDs []string) (model.ConceptSelection, error) {
	return f.sel, f.err
}

type fakeGenerator struct{}

func (f *fakeGenerator) Generate(ctx context.Context, sel model.ConceptSelection, exam model.ExamType) (model.Blueprint, model.Question, error) {
	return model.Blueprint{ConceptID: sel.Concept.ID}, model.Question{Question: "generated"}, nil
}

func (f *fakeGenerator) Revise(ctx context.Context, q model.Question, bp model.Blueprint, issues, suggestions []string) (model.Blueprint, model.Question, error) {
	return bp, q, nil
}

func TestBlueprintHandlerReturnsBlueprintAndQuestion(t *testing.T) {
	concepts := &fakeConcepts{sel: model.ConceptSelection{Concept: model.Concept{ID: "c1"}}}
	generator := &fakeGenerator{}

	body := strings.NewReader(`{"subtopic":"deduction","difficulty":2}`)
	req := httptest.NewRequest(http.MethodPost, "/api/questions/blueprint", body)
	rec := httptest.NewRecorder()
	BlueprintHandler(concepts, generator)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got, "blueprint")
	assert.Contains(t, got, "question")
}

func TestBlueprintHandlerReturns404WhenNoConceptEligible(t *testing.T) {
	concepts := &fakeConcepts{err: assert.AnError}
	generator := &fakeGenerator{}

	req := httptest.NewRequest(http.MethodPost, "/api/questions/blueprint", strings.NewReader(`{"subtopic":"deduction"}`))
	rec := httptest.NewRecorder()
	BlueprintHandler(concepts, generator)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
