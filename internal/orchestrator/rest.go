package orchestrator

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/examforge/examforge/internal/model"
	"github.com/examforge/examforge/internal/pipeline"
	"github.com/examforge/examforge/internal/transport"
)

// AgentStatus is one peer's entry in the /agents health aggregate,
// mirroring orchestrator.py::check_agents' {status, url, skills|error}
// shape.
type AgentStatus struct {
	Status string   `json:"status"`
	URL    string   `json:"url"`
	Skills []string `json:"skills,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// AgentsHealth is the aggregate response body.
type AgentsHealth struct {
	Agents    map[string]AgentStatus `json:"agents"`
	Timestamp time.Time              `json:"timestamp"`
}

// CheckAgents fetches every peer's agent card and reports online or error
// per peer — grounded on orchestrator.py::check_agents, which never
// fails the whole call when one peer is unreachable.
func CheckAgents(ctx context.Context, client *transport.Client, peers []transport.Endpoint) AgentsHealth {
	statuses := make(map[string]AgentStatus, len(peers))
	for _, peer := range peers {
		card, err := client.FetchAgentCard(ctx, peer)
		if err != nil {
			statuses[peer.Name] = AgentStatus{Status: "error", URL: peer.BaseURL, Error: err.Error()}
			continue
		}
		statuses[peer.Name] = AgentStatus{Status: "online", URL: peer.BaseURL, Skills: card.Skills}
	}
	return AgentsHealth{Agents: statuses, Timestamp: nowFunc()}
}

// nowFunc is overridable in tests; production always uses time.Now.
var nowFunc = time.Now

// AgentsHandler serves GET /agents: the health aggregate over peers.
func AgentsHandler(client *transport.Client, peers []transport.Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := CheckAgents(r.Context(), client, peers)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(health)
	}
}

// SinglePipelineRunner is the subset of pipeline.Controller the debug
// endpoints need.
type SinglePipelineRunner interface {
	GenerateQuestion(ctx context.Context, subtopic string, difficulty int, excludeConceptIDs []string, exam model.ExamType) model.PipelineResult
}

type debugQuestionRequest struct {
	Subtopic   string `json:"subtopic"`
	Difficulty int    `json:"difficulty"`
	ExamType   string `json:"exam_type"`
}

// SingleQuestionHandler serves POST /api/questions/single: runs exactly
// one pipeline flight (select, generate, verify, judge, revise) and
// returns its result — a thin wrapper over the same controller the batch
// path uses, for manual debugging without a full batch run.
func SingleQuestionHandler(runner SinglePipelineRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req debugQuestionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Difficulty == 0 {
			req.Difficulty = 3
		}

		result := runner.GenerateQuestion(r.Context(), req.Subtopic, req.Difficulty, nil, examTypeOrDefault(req.ExamType))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

// BlueprintGenerator is the subset of the Concept Registry the
// blueprint-only debug endpoint needs (the generator is passed separately) — it skips verification and
// judgment entirely, unlike SingleQuestionHandler.
type BlueprintGenerator interface {
	SelectConcept(subtopic string, difficulty int, excludeIDs []string) (model.ConceptSelection, error)
}

// BlueprintHandler serves POST /api/questions/blueprint: selects a
// concept and generates a blueprint+question without running them
// through correctness verification or quality judgment — useful for
// inspecting what the Generator alone produces for a concept.
func BlueprintHandler(concepts BlueprintGenerator, generator pipeline.QuestionGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req debugQuestionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Difficulty == 0 {
			req.Difficulty = 3
		}

		sel, err := concepts.SelectConcept(req.Subtopic, req.Difficulty, nil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		bp, q, err := generator.Generate(r.Context(), sel, examTypeOrDefault(req.ExamType))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"blueprint": bp, "question": q})
	}
}

func examTypeOrDefault(s string) model.ExamType {
	if s == string(model.ExamMath) {
		return model.ExamMath
	}
	return model.ExamThinkingSkills
}
