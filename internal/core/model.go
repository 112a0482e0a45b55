package core

import "context"

// Role is the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContentBlock is one piece of message content. A block carries either text or
// the model's reasoning, never both.
type ContentBlock struct {
	Text      string
	Reasoning string
}

// IsReasoning reports whether the block holds reasoning output.
func (b ContentBlock) IsReasoning() bool {
	return b.Reasoning != "" && b.Text == ""
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content []ContentBlock
}

// InferenceConfig holds sampling parameters. Nil fields are not sent.
type InferenceConfig struct {
	MaxTokens   *int
	Temperature *float64
	TopP        *float64
}

// ConverseRequest is a chat-style request to a model backend. It is built once
// per call and not modified afterwards.
type ConverseRequest struct {
	ModelID   string
	Messages  []Message
	System    []string
	Inference InferenceConfig
	// ReasoningBudget is the thinking token allowance. Zero disables reasoning.
	ReasoningBudget int
}

// Usage is the token accounting envelope of a response.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// ConverseResponse is the reply of a model backend.
type ConverseResponse struct {
	Content []ContentBlock
	Usage   Usage
}

// ModelBackend sends a single conversation request to a remote model.
// Implementations wrap transport and API failures with ErrBackend, and those
// that retrying cannot fix additionally with ErrPermanent.
//
//go:generate mockgen -destination=../../mocks/mock_model_backend.go -package=mocks . ModelBackend
type ModelBackend interface {
	Converse(ctx context.Context, req *ConverseRequest) (*ConverseResponse, error)
	Name() string
}
