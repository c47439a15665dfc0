// Package llm defines the collaborator interface the Generator, Correctness
// Verifier, and Quality Judge delegate creative/reasoning work to, grounded
// on core.AIClient and ai/providers/mock's test double. A real Gemini-backed
// implementation is out of scope (SPEC_FULL.md Non-goals); only the
// interface plus a seeded mock ship here.
package llm

import "context"

// Options mirrors the knobs a caller may want over a generation call.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Client generates raw text completions from a prompt.
type Client interface {
	Generate(ctx context.Context, prompt string, opts *Options) (string, error)
}
