package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/sevigo/audit-warden/internal/config"
	"github.com/sevigo/audit-warden/internal/core"
)

type modelFactory func(ctx context.Context, modelID string) (llms.Model, error)

// GoframeBackend runs conversations on local or Gemini models. These models take
// a single prompt, so the system instruction is prepended to the user text.
// Sampling parameters and reasoning budgets are not supported and are ignored.
type GoframeBackend struct {
	provider string
	factory  modelFactory
	logger   *slog.Logger

	mu     sync.Mutex
	models map[string]llms.Model
}

func NewGoframeBackend(cfg config.AIConfig, logger *slog.Logger) (*GoframeBackend, error) {
	var factory modelFactory
	switch cfg.Provider {
	case config.ProviderOllama:
		httpClient := newOllamaHTTPClient()
		factory = func(_ context.Context, modelID string) (llms.Model, error) {
			return ollama.New(
				ollama.WithServerURL(cfg.OllamaHost),
				ollama.WithHTTPClient(httpClient),
				ollama.WithModel(modelID),
				ollama.WithLogger(logger),
			)
		}
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set in environment for gemini provider")
		}
		factory = func(ctx context.Context, modelID string) (llms.Model, error) {
			return gemini.New(ctx,
				gemini.WithModel(modelID),
				gemini.WithAPIKey(cfg.GeminiAPIKey),
			)
		}
	default:
		return nil, fmt.Errorf("unsupported goframe provider: %s", cfg.Provider)
	}
	return newGoframeBackend(cfg.Provider, factory, logger), nil
}

func newGoframeBackend(provider string, factory modelFactory, logger *slog.Logger) *GoframeBackend {
	return &GoframeBackend{
		provider: provider,
		factory:  factory,
		logger:   logger,
		models:   make(map[string]llms.Model),
	}
}

func (b *GoframeBackend) Name() string { return b.provider }

func (b *GoframeBackend) Converse(ctx context.Context, req *core.ConverseRequest) (*core.ConverseResponse, error) {
	model, err := b.model(ctx, req.ModelID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", core.ErrBackend, core.ErrPermanent, err)
	}
	if req.ReasoningBudget > 0 {
		b.logger.Debug("reasoning budget ignored by provider", "provider", b.provider, "model_id", req.ModelID)
	}

	prompt := flattenPrompt(req)
	text, err := model.Call(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrBackend, err)
	}

	counter := newTokenCounter(model)
	return &core.ConverseResponse{
		Content: []core.ContentBlock{{Text: text}},
		Usage: core.Usage{
			InputTokens:  counter.CountTokens(ctx, prompt),
			OutputTokens: counter.CountTokens(ctx, text),
		},
	}, nil
}

func (b *GoframeBackend) model(ctx context.Context, modelID string) (llms.Model, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if m, ok := b.models[modelID]; ok {
		return m, nil
	}
	b.logger.Info("creating LLM instance", "provider", b.provider, "model", modelID)
	m, err := b.factory(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s model %q: %w", b.provider, modelID, err)
	}
	b.models[modelID] = m
	return m, nil
}

func flattenPrompt(req *core.ConverseRequest) string {
	var sb strings.Builder
	for _, s := range req.System {
		sb.WriteString(s)
		sb.WriteString("\n\n")
	}
	for i, m := range req.Messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		for _, c := range m.Content {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

func newOllamaHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   5 * time.Minute,
	}
}
