package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)

	assert.True(t, c.SupportsReasoning("us.anthropic.claude-3-7-sonnet-20250219-v1:0"))
	assert.False(t, c.SupportsReasoning("anthropic.claude-3-sonnet-20240229-v1:0"))
	assert.False(t, c.SupportsReasoning("not-in-catalog"))

	info, ok := c.Lookup("anthropic.claude-3-sonnet-20240229-v1:0")
	require.True(t, ok)
	assert.Equal(t, "bedrock", info.Provider)

	models := c.Models()
	require.NotEmpty(t, models)
	models[0].ID = "mutated"
	assert.NotEqual(t, "mutated", c.Models()[0].ID)
}

func TestParseCatalog(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:  "valid",
			input: "models:\n  - id: a\n    provider: bedrock\n    reasoning: true\n",
		},
		{
			name:    "missing id",
			input:   "models:\n  - provider: bedrock\n",
			wantErr: "has no id",
		},
		{
			name:    "duplicate id",
			input:   "models:\n  - id: a\n  - id: a\n",
			wantErr: "twice",
		},
		{
			name:    "not yaml",
			input:   "models: [",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCatalog([]byte(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, c.SupportsReasoning("a"))
		})
	}
}
