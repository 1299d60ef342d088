package preferences

import (
	"encoding/json"
	"sort"
)

// StringSet is a set of strings persisted as a deduplicated, sorted list.
// Membership has no ordering semantics; sorting keeps the on-disk document
// stable across saves.
type StringSet map[string]struct{}

// NewStringSet builds a set from the given members.
func NewStringSet(members ...string) StringSet {
	s := make(StringSet, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Contains reports set membership.
func (s StringSet) Contains(member string) bool {
	_, ok := s[member]
	return ok
}

// Add inserts a member.
func (s StringSet) Add(member string) {
	s[member] = struct{}{}
}

// Members returns the sorted member list.
func (s StringSet) Members() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON serializes the set as a sorted array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Members())
}

// UnmarshalJSON rebuilds the set from an array, dropping duplicates.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var members []string
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	*s = NewStringSet(members...)
	return nil
}
