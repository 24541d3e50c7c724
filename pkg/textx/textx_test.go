package textx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"control chars stripped", "a\x00b\x07c", "abc"},
		{"keeps tabs and newlines", "a\tb\nc", "a\tb\nc"},
		{"trims", "  padded  ", "padded"},
		{"del stripped", "a\x7fb", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.in))
		})
	}
}

func TestChunk_SmallTextSingleChunk(t *testing.T) {
	got := Chunk("short text", 1000, 200)
	require.Len(t, got, 1)
	assert.Equal(t, "short text", got[0])
}

func TestChunk_Empty(t *testing.T) {
	assert.Nil(t, Chunk("   ", 1000, 200))
}

func TestChunk_RespectsSizeLimit(t *testing.T) {
	text := strings.Repeat("some words in a sentence. ", 200)
	chunks := Chunk(text, 1000, 200)
	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.LessOrEqual(t, len(c), 1000, "chunk %d", i)
		assert.NotEmpty(t, c)
	}
}

func TestChunk_PrefersParagraphBoundary(t *testing.T) {
	para1 := strings.Repeat("a", 400)
	para2 := strings.Repeat("b", 400)
	chunks := Chunk(para1+"\n\n"+para2, 500, 0)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, para1, chunks[0])
}

func TestChunk_OverlapCarriesContext(t *testing.T) {
	words := make([]string, 0, 300)
	for i := 0; i < 300; i++ {
		words = append(words, "word")
	}
	text := strings.Join(words, " ")
	chunks := Chunk(text, 100, 20)
	require.Greater(t, len(chunks), 2)
	// The tail of each chunk reappears at the head of the next.
	for i := 1; i < len(chunks); i++ {
		tail := chunks[i-1][len(chunks[i-1])-4:]
		assert.Contains(t, chunks[i][:20], strings.TrimSpace(tail))
	}
}

func TestChunk_HardCutWithoutSeparators(t *testing.T) {
	text := strings.Repeat("x", 2500)
	chunks := Chunk(text, 1000, 0)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1000)
	assert.Len(t, chunks[2], 500)
}
