package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONResponse(t *testing.T) {
	rc := NewResponseCleaner()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain json untouched",
			in:   `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "json fence",
			in:   "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "bare fence",
			in:   "```\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "surrounding prose",
			in:   "Here is the result:\n{\"a\":1}\nHope that helps!",
			want: `{"a":1}`,
		},
		{
			name: "trailing comma fixed",
			in:   `{"a":1,}`,
			want: `{"a":1}`,
		},
		{
			name: "nested braces",
			in:   `preamble {"a":{"b":2}} postamble {"c":3}`,
			want: `{"a":{"b":2}}`,
		},
		{
			name: "braces inside strings ignored",
			in:   `{"text":"use {curly} braces"}`,
			want: `{"text":"use {curly} braces"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rc.CleanJSONResponse(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, rc.IsValidJSON(got))
		})
	}
}

func TestCleanAndValidateJSON_Failure(t *testing.T) {
	rc := NewResponseCleaner()
	_, err := rc.CleanAndValidateJSON("I cannot answer that question.")
	require.Error(t, err)
	var verr *JSONValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "I cannot answer that question.", verr.Original)
}

func TestCleanAndValidateJSON_Success(t *testing.T) {
	rc := NewResponseCleaner()
	got, err := rc.CleanAndValidateJSON("```json\n{\"overall_rating\": \"STRONG\"}\n```")
	require.NoError(t, err)
	assert.JSONEq(t, `{"overall_rating":"STRONG"}`, got)
}
