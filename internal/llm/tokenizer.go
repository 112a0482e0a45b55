package llm

import (
	"context"

	"github.com/sevigo/goframe/llms"
)

// tokenCounter accounts tokens for backends whose replies carry no usage
// envelope. It asks the model when it can count tokens and estimates otherwise.
type tokenCounter struct {
	model llms.Model
}

func newTokenCounter(model llms.Model) *tokenCounter {
	return &tokenCounter{model: model}
}

// CountTokens returns the number of tokens in text, never a negative number.
func (c *tokenCounter) CountTokens(ctx context.Context, text string) int {
	if t, ok := c.model.(llms.Tokenizer); ok {
		n, err := t.CountTokens(ctx, text)
		if err == nil && n >= 0 {
			return n
		}
	}
	return estimateTokens(text)
}

// estimateTokens is a character-based approximation of the token count.
func estimateTokens(text string) int {
	return len(text) / 3
}
