package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/audit-warden/internal/config"
	"github.com/sevigo/audit-warden/internal/core"
)

// NewBackend creates the model backend selected by AI_PROVIDER.
func NewBackend(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (core.ModelBackend, error) {
	switch cfg.Provider {
	case config.ProviderBedrock:
		b, err := NewBedrockBackend(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.ProviderAnthropic:
		return NewAnthropicBackend(cfg, logger), nil
	case config.ProviderOllama, config.ProviderGemini:
		b, err := NewGoframeBackend(cfg, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
