package core

import "context"

// DiffSubmission is a single incoming review request. It is never persisted.
type DiffSubmission struct {
	Diff string `json:"diff"`
}

// SecurityReviewData is a type-safe struct for rendering the security review prompt.
type SecurityReviewData struct {
	Diff string
}

// ReviewResult is what the diff review pipeline hands back to its caller.
// Result is the model's reply exactly as it was received.
type ReviewResult struct {
	Result       string          `json:"result"`
	InputTokens  int             `json:"inputTokens"`
	OutputTokens int             `json:"outputTokens"`
	Findings     *ReviewFindings `json:"findings,omitempty"`
}

// ReasoningReviewResult is the reply of a review run against a reasoning-capable
// model. Reasoning and Result are nil when the model returned no such block.
type ReasoningReviewResult struct {
	Reasoning    *string         `json:"reasoning"`
	Result       *string         `json:"result"`
	InputTokens  int             `json:"inputTokens"`
	OutputTokens int             `json:"outputTokens"`
	Findings     *ReviewFindings `json:"findings,omitempty"`
}

// Reviewer runs security reviews over code diffs.
//
//go:generate mockgen -destination=../../mocks/mock_reviewer.go -package=mocks . Reviewer
type Reviewer interface {
	// ReviewDiff reviews a diff through the retrying model path.
	ReviewDiff(ctx context.Context, diff string) (*ReviewResult, error)
	// ReviewDiffWithReasoning reviews a diff through the fail-fast reasoning path.
	ReviewDiffWithReasoning(ctx context.Context, diff string) (*ReasoningReviewResult, error)
}
