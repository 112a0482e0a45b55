package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sevigo/audit-warden/internal/core"
)

// InvokeParams are the inputs of a single non-reasoning model call.
type InvokeParams struct {
	UserPrompt   string
	SystemPrompt string
	ModelID      string
	MaxTokens    int
	Temperature  float64
	TopP         float64
}

// InvokeResult is the first text block of the reply with its token usage.
type InvokeResult struct {
	ResponseText string
	InputTokens  int
	OutputTokens int
}

// ReasoningParams are the inputs of a reasoning model call.
type ReasoningParams struct {
	UserPrompt      string
	SystemPrompt    string
	ModelID         string
	ReasoningBudget int
	Temperature     float64
}

// ReasoningResult holds the reasoning and final answer of a reasoning call.
// Either text is nil when the model did not return that block.
type ReasoningResult struct {
	ReasoningText *string
	ResponseText  *string
	InputTokens   int
	OutputTokens  int
}

// ModelClient sends single-turn conversations to a model backend. Invoke
// retries under the configured RetryPolicy; InvokeWithReasoning fails fast.
type ModelClient struct {
	backend core.ModelBackend
	catalog *Catalog
	policy  RetryPolicy
	logger  *slog.Logger

	sleep sleepFunc
	now   func() time.Time
}

func NewModelClient(backend core.ModelBackend, catalog *Catalog, policy RetryPolicy, logger *slog.Logger) *ModelClient {
	return &ModelClient{
		backend: backend,
		catalog: catalog,
		policy:  policy,
		logger:  logger,
		sleep:   sleepContext,
		now:     time.Now,
	}
}

// Backend returns the name of the underlying model backend.
func (c *ModelClient) Backend() string {
	return c.backend.Name()
}

// Invoke sends the prompt and returns the first text block of the reply. Every
// failure, including a reply with an unexpected shape, is handed to the retry
// policy; only policy exhaustion or the end of ctx returns an error.
func (c *ModelClient) Invoke(ctx context.Context, p InvokeParams) (*InvokeResult, error) {
	req := newConverseRequest(p.ModelID, p.UserPrompt, p.SystemPrompt)
	req.Inference = core.InferenceConfig{
		MaxTokens:   &p.MaxTokens,
		Temperature: &p.Temperature,
		TopP:        &p.TopP,
	}

	r := &retrier{
		policy: c.policy,
		sleep:  c.sleep,
		now:    c.now,
		onFailure: func(attempt int, err error, wait time.Duration) {
			c.logger.Error("model invocation failed, retrying",
				"backend", c.backend.Name(),
				"model_id", p.ModelID,
				"attempt", attempt,
				"retry_in", wait,
				"error", err,
			)
		},
	}

	var result *InvokeResult
	err := r.do(ctx, func(ctx context.Context) error {
		resp, err := c.backend.Converse(ctx, req)
		if err != nil {
			return err
		}
		res, err := extractFirstText(resp)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("invoke model %q: %w", p.ModelID, err)
	}
	return result, nil
}

// InvokeWithReasoning sends the prompt to a reasoning-capable model without
// retrying. The thinking budget is attached only when the catalog marks the
// model as supporting it. Failures are returned as *core.InvocationError.
func (c *ModelClient) InvokeWithReasoning(ctx context.Context, p ReasoningParams) (*ReasoningResult, error) {
	req := newConverseRequest(p.ModelID, p.UserPrompt, p.SystemPrompt)
	req.Inference = core.InferenceConfig{Temperature: &p.Temperature}
	if p.ReasoningBudget > 0 {
		if c.catalog != nil && c.catalog.SupportsReasoning(p.ModelID) {
			req.ReasoningBudget = p.ReasoningBudget
		} else {
			c.logger.Debug("model does not support reasoning, sending without budget", "model_id", p.ModelID)
		}
	}

	resp, err := c.backend.Converse(ctx, req)
	if err != nil {
		c.logger.Error("reasoning invocation failed", "backend", c.backend.Name(), "model_id", p.ModelID, "error", err)
		return nil, core.ClassifyInvocationError(p.ModelID, err)
	}

	result, err := extractReasoning(resp)
	if err != nil {
		return nil, core.ClassifyInvocationError(p.ModelID, err)
	}
	return result, nil
}

func newConverseRequest(modelID, userPrompt, systemPrompt string) *core.ConverseRequest {
	req := &core.ConverseRequest{
		ModelID: modelID,
		Messages: []core.Message{{
			Role:    core.RoleUser,
			Content: []core.ContentBlock{{Text: userPrompt}},
		}},
	}
	if systemPrompt != "" {
		req.System = []string{systemPrompt}
	}
	return req
}

func extractFirstText(resp *core.ConverseResponse) (*InvokeResult, error) {
	if resp == nil || len(resp.Content) == 0 {
		return nil, fmt.Errorf("%w: reply has no content", core.ErrUnexpectedResponse)
	}
	first := resp.Content[0]
	if first.IsReasoning() {
		return nil, fmt.Errorf("%w: first content block is not text", core.ErrUnexpectedResponse)
	}
	if err := checkUsage(resp.Usage); err != nil {
		return nil, err
	}
	return &InvokeResult{
		ResponseText: first.Text,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}

func extractReasoning(resp *core.ConverseResponse) (*ReasoningResult, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: empty reply", core.ErrUnexpectedResponse)
	}
	if err := checkUsage(resp.Usage); err != nil {
		return nil, err
	}

	result := &ReasoningResult{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}
	for _, block := range resp.Content {
		if block.IsReasoning() {
			reasoning := block.Reasoning
			result.ReasoningText = &reasoning
			continue
		}
		text := block.Text
		result.ResponseText = &text
	}
	return result, nil
}

func checkUsage(u core.Usage) error {
	if u.InputTokens < 0 || u.OutputTokens < 0 {
		return fmt.Errorf("%w: negative token usage (%d in, %d out)", core.ErrUnexpectedResponse, u.InputTokens, u.OutputTokens)
	}
	return nil
}
