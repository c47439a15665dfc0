// Package verifier implements the Correctness Verifier (C5): independent
// backward and forward solving of a generated question, grounded on
// original_source/agents/correctness_agent.py. Per spec.md §4.5, an
// internal verifier failure is never surfaced as an error to the pipeline
// controller — it degrades to {verified:true, issues:[]} unless
// StrictCorrectness opts into fail-closed behavior.
package verifier

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/examforge/examforge/internal/external/llm"
	"github.com/examforge/examforge/internal/model"
)

// Verifier checks a generated question's marked answer via an LLM client.
type Verifier struct {
	client llm.Client
	strict bool
}

// New creates a Verifier. strict controls spec.md §4.5's fail-open
// behavior: when strict is true, internal failures are returned as errors
// instead of a synthesized {verified:true} result.
func New(client llm.Client, strict bool) *Verifier {
	return &Verifier{client: client, strict: strict}
}

type rawVerification struct {
	BackwardsVerification struct {
		WhatAnswerRequires   string   `json:"what_answer_requires"`
		WhatQuestionProvides string   `json:"what_question_provides"`
		Consistent           bool     `json:"consistent"`
		Discrepancies        []string `json:"discrepancies"`
	} `json:"backwards_verification"`
	IndependentSolution struct {
		Working  []string `json:"working"`
		MyAnswer string   `json:"my_answer"`
	} `json:"independent_solution"`
	AnswerIsCorrect bool     `json:"answer_is_correct"`
	Issues          []string `json:"issues"`
	Suggestions     []string `json:"suggestions"`
}

// VerifyCorrectness implements verify_correctness(question, blueprint)
// (spec.md §4.5).
func (v *Verifier) VerifyCorrectness(ctx context.Context, q model.Question, bp model.Blueprint) (model.VerificationResult, error) {
	prompt := buildVerificationPrompt(q, bp)
	resp, err := v.client.Generate(ctx, prompt, &llm.Options{Temperature: 0.1})
	if err != nil {
		return v.degrade(err)
	}

	text := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(resp), "```json"), "```")
	text = strings.TrimSuffix(strings.TrimPrefix(text, "```"), "```")
	var raw rawVerification
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return v.degrade(err)
	}

	return model.VerificationResult{
		Verified: raw.AnswerIsCorrect,
		BackwardsCheck: model.BackwardsCheck{
			WhatAnswerRequires:   raw.BackwardsVerification.WhatAnswerRequires,
			WhatQuestionProvides: raw.BackwardsVerification.WhatQuestionProvides,
			Consistent:           raw.BackwardsVerification.Consistent,
			Discrepancies:        raw.BackwardsVerification.Discrepancies,
		},
		ForwardsSolution: model.ForwardsSolution{
			Working:  raw.IndependentSolution.Working,
			MyAnswer: raw.IndependentSolution.MyAnswer,
		},
		AnswerMatches: raw.BackwardsVerification.Consistent && raw.AnswerIsCorrect,
		Issues:        raw.Issues,
		Suggestions:   raw.Suggestions,
	}, nil
}

// degrade implements the fail-open contract: by default an internal
// failure (LLM error or malformed JSON) is swallowed into a passing
// result; StrictCorrectness turns it into a real error instead.
func (v *Verifier) degrade(cause error) (model.VerificationResult, error) {
	if v.strict {
		return model.VerificationResult{}, cause
	}
	return model.VerificationResult{Verified: true, Issues: []string{}}, nil
}
