package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/sevigo/audit-warden/internal/config"
	"github.com/sevigo/audit-warden/internal/core"
)

// defaultAnthropicMaxTokens is sent when the request does not set a limit,
// because the Messages API requires one.
const defaultAnthropicMaxTokens = 4096

type anthropicMessager interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicBackend sends conversations to the Anthropic Messages API.
type AnthropicBackend struct {
	messages anthropicMessager
	logger   *slog.Logger
}

func NewAnthropicBackend(cfg config.AIConfig, logger *slog.Logger) *AnthropicBackend {
	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))
	return &AnthropicBackend{
		messages: &client.Messages,
		logger:   logger,
	}
}

func (b *AnthropicBackend) Name() string { return config.ProviderAnthropic }

func (b *AnthropicBackend) Converse(ctx context.Context, req *core.ConverseRequest) (*core.ConverseResponse, error) {
	resp, err := b.messages.New(ctx, toMessageParams(req))
	if err != nil {
		return nil, classifyAnthropicError(err)
	}

	out := &core.ConverseResponse{
		Usage: core.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
	}
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			out.Content = append(out.Content, core.ContentBlock{Text: block.Text})
		case "thinking":
			if block.Thinking != "" {
				out.Content = append(out.Content, core.ContentBlock{Reasoning: block.Thinking})
			}
		}
	}
	return out, nil
}

func toMessageParams(req *core.ConverseRequest) anthropic.MessageNewParams {
	maxTokens := int64(defaultAnthropicMaxTokens)
	if req.Inference.MaxTokens != nil {
		maxTokens = int64(*req.Inference.MaxTokens)
	}
	if req.ReasoningBudget > 0 && maxTokens <= int64(req.ReasoningBudget) {
		maxTokens = int64(req.ReasoningBudget) + defaultAnthropicMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.ModelID),
		MaxTokens: maxTokens,
	}
	for _, m := range req.Messages {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.Content))
		for _, c := range m.Content {
			blocks = append(blocks, anthropic.NewTextBlock(c.Text))
		}
		if m.Role == core.RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(blocks...))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(blocks...))
		}
	}
	for _, s := range req.System {
		params.System = append(params.System, anthropic.TextBlockParam{Text: s})
	}
	if req.Inference.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Inference.Temperature)
	}
	if req.Inference.TopP != nil {
		params.TopP = anthropic.Float(*req.Inference.TopP)
	}
	if req.ReasoningBudget > 0 {
		params.Thinking = anthropic.ThinkingConfigParamOfEnabled(int64(req.ReasoningBudget))
	}
	return params
}

func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && isPermanentStatus(apiErr.StatusCode) {
		return fmt.Errorf("%w: %w: %w", core.ErrBackend, core.ErrPermanent, err)
	}
	return fmt.Errorf("%w: %w", core.ErrBackend, err)
}
