package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sevigo/audit-warden/internal/config"
	"github.com/sevigo/audit-warden/internal/core"
)

// ReviewerConfig holds the fixed parameters of both review call sites.
type ReviewerConfig struct {
	ModelID     string
	MaxTokens   int
	Temperature float64
	TopP        float64

	ReasoningModelID     string
	ReasoningBudget      int
	ReasoningTemperature float64

	ValidateFindings bool
	// MaxDiffBytes rejects larger diffs before any model call. Zero disables the limit.
	MaxDiffBytes int64
	// Timeout bounds a single review including all retries. Zero means no deadline.
	Timeout time.Duration
}

// NewReviewerConfig collects the reviewer settings from the application config.
func NewReviewerConfig(cfg *config.Config) ReviewerConfig {
	return ReviewerConfig{
		ModelID:              cfg.Review.ModelID,
		MaxTokens:            cfg.Review.MaxTokens,
		Temperature:          cfg.Review.Temperature,
		TopP:                 cfg.Review.TopP,
		ReasoningModelID:     cfg.Review.ReasoningModelID,
		ReasoningBudget:      cfg.Review.ReasoningBudget,
		ReasoningTemperature: cfg.Review.ReasoningTemperature,
		ValidateFindings:     cfg.Review.ValidateFindings,
		MaxDiffBytes:         cfg.Server.MaxDiffBytes,
		Timeout:              cfg.Review.Timeout,
	}
}

// DiffReviewer validates a diff, renders the security rubric around it and
// drives the model client.
type DiffReviewer struct {
	client  *ModelClient
	prompts *PromptManager
	cfg     ReviewerConfig
	logger  *slog.Logger
}

var _ core.Reviewer = (*DiffReviewer)(nil)

func NewDiffReviewer(client *ModelClient, prompts *PromptManager, cfg ReviewerConfig, logger *slog.Logger) *DiffReviewer {
	return &DiffReviewer{
		client:  client,
		prompts: prompts,
		cfg:     cfg,
		logger:  logger,
	}
}

// ReviewDiff reviews diff through the retrying model path. The reply text is
// returned exactly as received; with findings validation enabled a reply that
// breaks the finding schema fails with *core.SchemaViolationError.
func (r *DiffReviewer) ReviewDiff(ctx context.Context, diff string) (*core.ReviewResult, error) {
	if err := r.validateDiff(diff); err != nil {
		return nil, err
	}
	userPrompt, systemPrompt, err := r.renderPrompts(diff)
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	res, err := r.client.Invoke(ctx, InvokeParams{
		UserPrompt:   userPrompt,
		SystemPrompt: systemPrompt,
		ModelID:      r.cfg.ModelID,
		MaxTokens:    r.cfg.MaxTokens,
		Temperature:  r.cfg.Temperature,
		TopP:         r.cfg.TopP,
	})
	if err != nil {
		return nil, err
	}

	out := &core.ReviewResult{
		Result:       res.ResponseText,
		InputTokens:  res.InputTokens,
		OutputTokens: res.OutputTokens,
	}
	if r.cfg.ValidateFindings {
		findings, err := ParseFindings(res.ResponseText)
		if err != nil {
			r.logger.Warn("model reply failed finding validation", "model_id", r.cfg.ModelID, "error", err)
			return nil, err
		}
		out.Findings = findings
	}

	r.logger.Info("diff reviewed",
		"model_id", r.cfg.ModelID,
		"input_tokens", out.InputTokens,
		"output_tokens", out.OutputTokens,
		"duration", time.Since(start),
	)
	return out, nil
}

// ReviewDiffWithReasoning reviews diff through the fail-fast reasoning path.
func (r *DiffReviewer) ReviewDiffWithReasoning(ctx context.Context, diff string) (*core.ReasoningReviewResult, error) {
	if err := r.validateDiff(diff); err != nil {
		return nil, err
	}
	userPrompt, systemPrompt, err := r.renderPrompts(diff)
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.client.InvokeWithReasoning(ctx, ReasoningParams{
		UserPrompt:      userPrompt,
		SystemPrompt:    systemPrompt,
		ModelID:         r.cfg.ReasoningModelID,
		ReasoningBudget: r.cfg.ReasoningBudget,
		Temperature:     r.cfg.ReasoningTemperature,
	})
	if err != nil {
		return nil, err
	}

	out := &core.ReasoningReviewResult{
		Reasoning:    res.ReasoningText,
		Result:       res.ResponseText,
		InputTokens:  res.InputTokens,
		OutputTokens: res.OutputTokens,
	}
	if r.cfg.ValidateFindings {
		if out.Result == nil {
			return nil, &core.SchemaViolationError{Err: errors.New("reply has no answer text")}
		}
		findings, err := ParseFindings(*out.Result)
		if err != nil {
			r.logger.Warn("reasoning reply failed finding validation", "model_id", r.cfg.ReasoningModelID, "error", err)
			return nil, err
		}
		out.Findings = findings
	}

	r.logger.Info("diff reviewed with reasoning",
		"model_id", r.cfg.ReasoningModelID,
		"has_reasoning", out.Reasoning != nil,
		"input_tokens", out.InputTokens,
		"output_tokens", out.OutputTokens,
	)
	return out, nil
}

func (r *DiffReviewer) validateDiff(diff string) error {
	if strings.TrimSpace(diff) == "" {
		return &core.ValidationError{Field: "diff", Reason: "must not be empty"}
	}
	if r.cfg.MaxDiffBytes > 0 && int64(len(diff)) > r.cfg.MaxDiffBytes {
		return &core.ValidationError{Field: "diff", Reason: fmt.Sprintf("exceeds the %d byte limit", r.cfg.MaxDiffBytes)}
	}
	return nil
}

func (r *DiffReviewer) renderPrompts(diff string) (string, string, error) {
	provider := ModelProvider(r.client.Backend())
	userPrompt, err := r.prompts.RenderSecurityReview(provider, diff)
	if err != nil {
		return "", "", fmt.Errorf("failed to render security review prompt: %w", err)
	}
	systemPrompt, err := r.prompts.ReviewerPersona(provider)
	if err != nil {
		return "", "", fmt.Errorf("failed to render reviewer persona: %w", err)
	}
	return userPrompt, systemPrompt, nil
}

func (r *DiffReviewer) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.cfg.Timeout)
}
