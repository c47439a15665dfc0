package judge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examforge/examforge/internal/external/llm"
	"github.com/examforge/examforge/internal/model"
)

func sampleQuestion() model.Question {
	return model.Question{
		Question: "Which option continues the pattern?",
		Choices: []model.Choice{
			{Text: "A", Correct: true},
			{Text: "B"},
			{Text: "C"},
			{Text: "D"},
		},
	}
}

func TestCheckQualityAcceptsCleanResponse(t *testing.T) {
	client := llm.NewMockClient(`{
		"solved_answer_id": "1",
		"solution_steps": ["step 1", "step 2", "step 3"],
		"difficulty_assessment": {"is_too_easy": false, "estimated_year6_success_rate": "20-30%"},
		"num_reasoning_steps": 4,
		"vulnerabilities": [],
		"vulnerability_score": 0.1,
		"clarity_score": 0.9,
		"alignment_score": 0.9,
		"difficulty_match": true,
		"issues": [],
		"revision_suggestions": []
	}`)
	j := New(client)

	judgment, err := j.CheckQuality(context.Background(), sampleQuestion(), model.Blueprint{ConceptID: "c1"})
	require.NoError(t, err)
	assert.True(t, judgment.Accepted)
	assert.Equal(t, model.StatusAccepted, judgment.Status)
	assert.Equal(t, float64(20), judgment.SuccessRate)
}

func TestCheckQualityRejectsWrongAnswer(t *testing.T) {
	client := llm.NewMockClient(`{
		"solved_answer_id": "3",
		"difficulty_assessment": {"estimated_year6_success_rate": "10%"},
		"num_reasoning_steps": 4,
		"clarity_score": 0.9,
		"vulnerability_score": 0.1
	}`)
	j := New(client)

	judgment, err := j.CheckQuality(context.Background(), sampleQuestion(), model.Blueprint{})
	require.NoError(t, err)
	assert.False(t, judgment.Accepted)
	assert.Equal(t, model.StatusRejected, judgment.Status)
}
