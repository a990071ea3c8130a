package suggest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCompletions(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		raw      string
		n        int
		expected []string
	}{
		{
			name:     "basic",
			input:    "Patient has fev",
			raw:      `{"completions":["Patient has fever","Patient has feverish chills"]}`,
			n:        3,
			expected: []string{"Patient has fever", "Patient has feverish chills"},
		},
		{
			name:     "capped",
			input:    "fev",
			raw:      `{"completions":["fever","feverish","fevers"]}`,
			n:        2,
			expected: []string{"fever", "feverish"},
		},
		{
			name:     "filtered",
			input:    "fev",
			raw:      `{"completions":["fev","  ","fever  ","fever","fever\nand chills","feverish"]}`,
			n:        3,
			expected: []string{"fever", "feverish"},
		},
		{
			name:     "empty",
			input:    "fev",
			raw:      `{"completions":[]}`,
			n:        3,
			expected: []string{},
		},
		{
			name:  "none requested",
			input: "fev",
			raw:   `{"completions":["fever"]}`,
			n:     0,
		},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			got, err := parseCompletions(c.input, json.RawMessage(c.raw), c.n)
			require.NoError(t, err)
			require.Equal(t, c.expected, got)
		})
	}

	_, err := parseCompletions("fev", json.RawMessage(`{"completions":"fever"}`), 3)
	require.Error(t, err)
}

func TestCompletionsSchema(t *testing.T) {
	data, err := json.Marshal(completionsSchema)
	require.NoError(t, err)
	require.Contains(t, string(data), `"completions"`)
	require.Contains(t, string(data), `"array"`)
}
