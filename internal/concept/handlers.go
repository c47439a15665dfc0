package concept

import (
	"context"
	"encoding/json"
)

type selectConceptRequest struct {
	Subtopic   string   `json:"subtopic"`
	Difficulty int      `json:"difficulty"`
	ExcludeIDs []string `json:"exclude_ids"`
}

type selectConceptResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	selectConceptPayload
}

type selectConceptPayload struct {
	ConceptID              string   `json:"concept_id,omitempty"`
	ConceptName            string   `json:"concept_name,omitempty"`
	ConceptDescription     string   `json:"concept_description,omitempty"`
	SubtopicID             string   `json:"subtopic_id,omitempty"`
	TopicID                string   `json:"topic_id,omitempty"`
	TargetDifficulty       int      `json:"target_difficulty,omitempty"`
	TargetBloom            string   `json:"target_bloom,omitempty"`
	SelectedMisconceptions []string `json:"selected_misconceptions,omitempty"`
	SelectedPattern        string   `json:"selected_pattern,omitempty"`
}

// SelectConceptHandler adapts SelectConcept to host.ActionHandler for the
// "select_concept" action (spec.md §4.3).
func (r *Registry) SelectConceptHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	var req selectConceptRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return selectConceptResponse{Success: false, Error: "invalid request"}, nil
	}

	sel, err := r.SelectConcept(req.Subtopic, req.Difficulty, req.ExcludeIDs)
	if err != nil {
		return selectConceptResponse{Success: false, Error: err.Error()}, nil
	}

	return selectConceptResponse{
		Success: true,
		selectConceptPayload: selectConceptPayload{
			ConceptID:              sel.Concept.ID,
			ConceptName:            sel.Concept.Name,
			ConceptDescription:     sel.Concept.Description,
			SubtopicID:             sel.Concept.SubtopicID,
			TopicID:                sel.Concept.TopicID,
			TargetDifficulty:       sel.TargetDifficulty,
			TargetBloom:            sel.TargetBloom,
			SelectedMisconceptions: sel.SelectedMisconceptions,
			SelectedPattern:        sel.SelectedPattern,
		},
	}, nil
}

type listSubtopicsResponse struct {
	Success   bool              `json:"success"`
	Subtopics []SubtopicSummary `json:"subtopics"`
}

// ListSubtopicsHandler adapts ListSubtopics to host.ActionHandler for the
// "list_subtopics" action.
func (r *Registry) ListSubtopicsHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	summaries, err := r.ListSubtopics()
	if err != nil {
		return listSubtopicsResponse{Success: false}, nil
	}
	return listSubtopicsResponse{Success: true, Subtopics: summaries}, nil
}

type getConceptsRequest struct {
	Subtopic string `json:"subtopic"`
}

type getConceptsResponse struct {
	Success  bool     `json:"success"`
	Error    string   `json:"error,omitempty"`
	Concepts []string `json:"concept_ids,omitempty"`
}

// GetConceptsHandler adapts GetConcepts to host.ActionHandler for the
// "get_concepts" action.
func (r *Registry) GetConceptsHandler(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	var req getConceptsRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return getConceptsResponse{Success: false, Error: "invalid request"}, nil
	}

	concepts, err := r.GetConcepts(req.Subtopic)
	if err != nil {
		return getConceptsResponse{Success: false, Error: err.Error()}, nil
	}

	ids := make([]string, 0, len(concepts))
	for _, c := range concepts {
		ids = append(ids, c.ID)
	}
	return getConceptsResponse{Success: true, Concepts: ids}, nil
}
