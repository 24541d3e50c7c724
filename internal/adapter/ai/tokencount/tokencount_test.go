package tokencount

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTokens(t *testing.T) {
	t.Parallel()

	counter := NewCounter()

	tests := []struct {
		name     string
		text     string
		model    string
		minCount int
		maxCount int
	}{
		{
			name:     "simple text with gpt-4",
			text:     "Hello, world!",
			model:    "gpt-4",
			minCount: 3,
			maxCount: 5,
		},
		{
			name:     "longer text",
			text:     "The quick brown fox jumps over the lazy dog.",
			model:    "gpt-3.5-turbo",
			minCount: 8,
			maxCount: 12,
		},
		{
			name:     "openrouter model id normalized",
			text:     "Hello, world!",
			model:    "meta-llama/llama-3.1-8b-instruct:free",
			minCount: 3,
			maxCount: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := counter.CountTokens(tt.text, tt.model)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, count, tt.minCount)
			assert.LessOrEqual(t, count, tt.maxCount)
		})
	}
}

func TestCountChatTokens_IncludesOverhead(t *testing.T) {
	t.Parallel()

	counter := NewCounter()
	plain, err := counter.CountTokens("You are helpful.How are you?", "gpt-4")
	require.NoError(t, err)
	chat, err := counter.CountChatTokens("You are helpful.", "How are you?", "gpt-4")
	require.NoError(t, err)
	assert.Greater(t, chat, plain)
}

func TestTruncateToBudget(t *testing.T) {
	t.Parallel()

	counter := NewCounter()
	text := strings.Repeat("the quick brown fox ", 200)

	short := counter.TruncateToBudget(text, "gpt-4", 50)
	n, err := counter.CountTokens(short, "gpt-4")
	require.NoError(t, err)
	assert.LessOrEqual(t, n, 50)
	assert.True(t, strings.HasPrefix(text, short))

	// Text within budget comes back unchanged.
	assert.Equal(t, "small", counter.TruncateToBudget("small", "gpt-4", 50))
	assert.Equal(t, "", counter.TruncateToBudget(text, "gpt-4", 0))
}

func TestNormalizeModelName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "gpt-4", normalizeModelName("openai/GPT-4o"))
	assert.Equal(t, "gpt-3.5-turbo", normalizeModelName("gpt-3.5-turbo-0125"))
	assert.Equal(t, "gpt-4", normalizeModelName("mistralai/mistral-7b-instruct:free"))
	assert.Equal(t, "gpt-4", normalizeModelName("unknown-model"))
}
