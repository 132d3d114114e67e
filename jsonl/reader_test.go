package jsonl

import (
	"strings"
	"testing"

	"github.com/byu-imaal/dns-cookies-pam21/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountLines(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected int64
	}{
		{
			name:     "plain_lines",
			input:    "{\"a\":1}\n{\"a\":2}\n{\"a\":3}\n",
			expected: 3,
		},
		{
			name:     "no_trailing_newline",
			input:    "{\"a\":1}\n{\"a\":2}",
			expected: 2,
		},
		{
			name:     "blank_lines_skipped",
			input:    "{\"a\":1}\n\n   \n{\"a\":2}\n\n",
			expected: 2,
		},
		{
			name:     "empty_input",
			input:    "",
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			total, err := CountLines(strings.NewReader(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, total)
		})
	}
}

func TestParseRecord(t *testing.T) {
	testCases := []struct {
		name     string
		line     string
		expected types.Record
	}{
		{
			name:     "plain_object",
			line:     `{"a":1,"b":"x","c":null}`,
			expected: types.Record{"a": 1.0, "b": "x", "c": nil},
		},
		{
			name:     "wrapped_line_stripped",
			line:     `Jan 01 host: {"a":1} trailing`,
			expected: types.Record{"a": 1.0},
		},
		{
			name:     "nested_values_kept",
			line:     `{"a":{"x":1},"b":[1,2]}`,
			expected: types.Record{"a": map[string]any{"x": 1.0}, "b": []any{1.0, 2.0}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := ParseRecord([]byte(tc.line))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, rec)
		})
	}
}

func TestParseRecordInvalid(t *testing.T) {
	_, err := ParseRecord([]byte(`{"a":`))
	require.Error(t, err)

	_, err = ParseRecord([]byte(`no json here`))
	require.Error(t, err)
}

func TestLineScannerLongLines(t *testing.T) {
	long := `{"body":"` + strings.Repeat("x", 256*1024) + `"}`
	scanner := NewLineScanner(strings.NewReader(long + "\n"))
	require.True(t, scanner.Scan(), "default token size must not apply")
	assert.Len(t, scanner.Bytes(), len(long))
}
