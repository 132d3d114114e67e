package jsonl

import (
	"fmt"

	"github.com/byu-imaal/dns-cookies-pam21/types"
	"github.com/mitchellh/hashstructure"
)

// UniqueTracker rejects records whose value under the tracked field is
// null, absent, or already seen. Values hash structurally, so composite
// values deduplicate by content.
type UniqueTracker struct {
	field string
	seen  map[uint64]struct{}
}

func NewUniqueTracker(field string) *UniqueTracker {
	return &UniqueTracker{field: field, seen: make(map[uint64]struct{})}
}

// Observe reports whether the record carries a first-seen value under the
// tracked field. Null values never count as first-seen.
func (u *UniqueTracker) Observe(rec types.Record) (bool, error) {
	value, found := rec[u.field]
	if !found || value == nil {
		return false, nil
	}
	hash, err := hashstructure.Hash(value, nil)
	if err != nil {
		return false, fmt.Errorf("failed to hash value of %q: %s", u.field, err)
	}
	if _, dup := u.seen[hash]; dup {
		return false, nil
	}
	u.seen[hash] = struct{}{}
	return true, nil
}
