package jsonl

import (
	"strings"
	"testing"

	"github.com/byu-imaal/dns-cookies-pam21/expr"
	"github.com/byu-imaal/dns-cookies-pam21/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	records []types.Record
}

func (s *captureSink) Write(rec types.Record) error {
	s.records = append(s.records, rec)
	return nil
}

func compileFilter(t *testing.T, source string, fields ...string) *expr.Filter {
	t.Helper()
	filter, err := expr.Compile(source, types.NewSchema(fields), false)
	require.NoError(t, err)
	return filter
}

func TestProcessorRun(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		filter      string
		fields      []string
		unique      string
		fold        bool
		noLines     bool
		wantTotal   int64
		wantMatched int64
		check       func(t *testing.T, records []types.Record)
	}{
		// filtering
		{
			name:        "filter_selects_matching_records",
			input:       "{\"a\":1,\"b\":\"X\"}\n{\"a\":2,\"b\":\"Y\"}\n",
			filter:      "a > 1",
			fields:      []string{"a", "b"},
			wantTotal:   2,
			wantMatched: 1,
			check: func(t *testing.T, records []types.Record) {
				require.Len(t, records, 1)
				assert.Equal(t, 2.0, records[0]["a"])
			},
		},
		{
			name:        "empty_filter_matches_everything",
			input:       "{\"a\":1}\n{\"a\":2}\n{\"a\":3}\n",
			fields:      []string{"a"},
			wantTotal:   3,
			wantMatched: 3,
		},
		{
			name:        "filter_on_injected_line_number",
			input:       "{\"a\":1}\n{\"a\":2}\n{\"a\":3}\n",
			filter:      "line >= 2",
			fields:      []string{"a", "line"},
			wantTotal:   3,
			wantMatched: 2,
			check: func(t *testing.T, records []types.Record) {
				require.Len(t, records, 2)
				assert.Equal(t, int64(2), records[0]["line"])
				assert.Equal(t, int64(3), records[1]["line"])
			},
		},

		// line numbering
		{
			name:        "line_numbers_count_data_lines_only",
			input:       "{\"a\":1}\n\n   \n{\"a\":2}\n",
			fields:      []string{"a"},
			wantTotal:   2,
			wantMatched: 2,
			check: func(t *testing.T, records []types.Record) {
				require.Len(t, records, 2)
				assert.Equal(t, int64(1), records[0]["line"])
				assert.Equal(t, int64(2), records[1]["line"])
			},
		},
		{
			name:        "line_numbers_disabled",
			input:       "{\"a\":1}\n",
			fields:      []string{"a"},
			noLines:     true,
			wantTotal:   1,
			wantMatched: 1,
			check: func(t *testing.T, records []types.Record) {
				require.Len(t, records, 1)
				assert.NotContains(t, records[0], "line")
			},
		},

		// case folding
		{
			name:        "fold_lowercases_string_fields",
			input:       "{\"b\":\"MiXeD\",\"n\":7}\n",
			fields:      []string{"b", "n"},
			fold:        true,
			wantTotal:   1,
			wantMatched: 1,
			check: func(t *testing.T, records []types.Record) {
				require.Len(t, records, 1)
				assert.Equal(t, "mixed", records[0]["b"])
				assert.Equal(t, 7.0, records[0]["n"])
			},
		},
		{
			name:        "fold_applies_before_filter",
			input:       "{\"b\":\"Y\"}\n{\"b\":\"n\"}\n",
			filter:      `b == "y"`,
			fields:      []string{"b"},
			fold:        true,
			wantTotal:   2,
			wantMatched: 1,
		},

		// uniqueness
		{
			name:        "unique_keeps_first_of_duplicates",
			input:       "{\"b\":\"dup\"}\n{\"b\":\"dup\"}\n{\"b\":\"solo\"}\n",
			fields:      []string{"b"},
			unique:      "b",
			wantTotal:   3,
			wantMatched: 2,
			check: func(t *testing.T, records []types.Record) {
				require.Len(t, records, 2)
				assert.Equal(t, int64(1), records[0]["line"])
				assert.Equal(t, "solo", records[1]["b"])
			},
		},
		{
			name:        "unique_rejects_null_values",
			input:       "{\"b\":null}\n{\"b\":\"x\"}\n",
			fields:      []string{"b"},
			unique:      "b",
			wantTotal:   2,
			wantMatched: 1,
		},

		// wrapper stripping
		{
			name:        "wrapped_lines_parse",
			input:       "recv: {\"a\":5} done\nrecv: {\"a\":1} done\n",
			filter:      "a > 2",
			fields:      []string{"a"},
			wantTotal:   2,
			wantMatched: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sink := &captureSink{}
			processor := &Processor{
				Filter:      compileFilter(t, tc.filter, tc.fields...),
				Sink:        sink,
				LineNumbers: !tc.noLines,
				FoldCase:    tc.fold,
			}
			if tc.unique != "" {
				processor.Unique = NewUniqueTracker(tc.unique)
			}

			counters, err := processor.Run(strings.NewReader(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.wantTotal, counters.Total, "total")
			assert.Equal(t, tc.wantMatched, counters.Matched, "matched")
			assert.Len(t, sink.records, int(tc.wantMatched), "every match reaches the sink")
			if tc.check != nil {
				tc.check(t, sink.records)
			}
		})
	}
}

func TestProcessorNullEvaluationAborts(t *testing.T) {
	sink := &captureSink{}
	processor := &Processor{
		Filter:      compileFilter(t, "c > 1", "c"),
		Sink:        sink,
		LineNumbers: true,
	}

	counters, err := processor.Run(strings.NewReader("{\"c\":5}\n{\"c\":null}\n{\"c\":9}\n"))
	require.Error(t, err)

	var evalErr *expr.EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.True(t, evalErr.NullRelated)

	assert.Len(t, sink.records, 1, "records before the failure stay written")
	assert.Equal(t, int64(2), counters.Total, "the failing line was counted")
	assert.Equal(t, int64(1), counters.Matched)
}

func TestProcessorNullGuardSkipsInsteadOfAborting(t *testing.T) {
	filter, err := expr.Compile("c > 1", types.NewSchema([]string{"c"}), true)
	require.NoError(t, err)

	sink := &captureSink{}
	processor := &Processor{Filter: filter, Sink: sink, LineNumbers: true}

	counters, err := processor.Run(strings.NewReader("{\"c\":5}\n{\"c\":null}\n{\"c\":9}\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), counters.Total)
	assert.Equal(t, int64(2), counters.Matched)
}

func TestProcessorUnknownNameAborts(t *testing.T) {
	processor := &Processor{
		Filter:      compileFilter(t, "missing > 1", "c"),
		LineNumbers: true,
	}

	_, err := processor.Run(strings.NewReader("{\"c\":5}\n"))
	require.Error(t, err)

	var evalErr *expr.EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.False(t, evalErr.NullRelated)
	assert.Contains(t, err.Error(), "missing")
}

func TestProcessorInvalidJSONAborts(t *testing.T) {
	processor := &Processor{
		Filter:      compileFilter(t, ""),
		LineNumbers: true,
	}

	_, err := processor.Run(strings.NewReader("{\"a\":1}\n{broken\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2: invalid JSON record")
}

func TestProcessorCountOnlyNeedsNoSink(t *testing.T) {
	processor := &Processor{
		Filter:      compileFilter(t, "a > 1", "a"),
		LineNumbers: true,
	}

	counters, err := processor.Run(strings.NewReader("{\"a\":1}\n{\"a\":2}\n{\"a\":3}\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), counters.Total)
	assert.Equal(t, int64(2), counters.Matched)
}

func TestProcessorCountEqualsOutputRecords(t *testing.T) {
	input := "{\"a\":1,\"b\":\"dup\"}\n{\"a\":2,\"b\":\"dup\"}\n{\"a\":3,\"b\":\"x\"}\n{\"a\":4,\"b\":null}\n"
	build := func(sink RecordSink) *Processor {
		return &Processor{
			Filter:      compileFilter(t, "a >= 2", "a", "b"),
			Sink:        sink,
			Unique:      NewUniqueTracker("b"),
			LineNumbers: true,
		}
	}

	counted, err := build(nil).Run(strings.NewReader(input))
	require.NoError(t, err)

	sink := &captureSink{}
	written, err := build(sink).Run(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, counted.Matched, written.Matched)
	assert.Len(t, sink.records, int(counted.Matched))
}

func TestCountersPercentage(t *testing.T) {
	assert.Zero(t, Counters{}.Percentage())
	assert.InDelta(t, 33.33, Counters{Total: 3, Matched: 1}.Percentage(), 0.01)
	assert.InDelta(t, 100.0, Counters{Total: 5, Matched: 5}.Percentage(), 0.001)
}
