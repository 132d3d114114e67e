package jsonl

import (
	"testing"

	"github.com/byu-imaal/dns-cookies-pam21/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueTracker(t *testing.T) {
	tracker := NewUniqueTracker("b")

	observe := func(rec types.Record) bool {
		t.Helper()
		fresh, err := tracker.Observe(rec)
		require.NoError(t, err)
		return fresh
	}

	assert.True(t, observe(types.Record{"b": "dup"}), "first value is fresh")
	assert.False(t, observe(types.Record{"b": "dup"}), "repeat is rejected")
	assert.True(t, observe(types.Record{"b": "other"}))
	assert.False(t, observe(types.Record{"b": nil}), "null never counts")
	assert.False(t, observe(types.Record{"a": 1.0}), "absent field never counts")
}

func TestUniqueTrackerCompositeValues(t *testing.T) {
	tracker := NewUniqueTracker("addr")

	fresh, err := tracker.Observe(types.Record{"addr": map[string]any{"ip": "1.1.1.1", "port": 53.0}})
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = tracker.Observe(types.Record{"addr": map[string]any{"port": 53.0, "ip": "1.1.1.1"}})
	require.NoError(t, err)
	assert.False(t, fresh, "structurally equal values deduplicate")

	fresh, err = tracker.Observe(types.Record{"addr": map[string]any{"ip": "9.9.9.9", "port": 53.0}})
	require.NoError(t, err)
	assert.True(t, fresh)
}
