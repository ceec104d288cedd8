package permission

import (
	"sort"
)

// Set is a set of permission keys. Sets returned by a Cache are shared and must be treated as read-only.
type Set map[Key]struct{}

// NewSet builds a set from the given keys, skipping invalid ones.
func NewSet(keys ...Key) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s.Add(k)
	}

	return s
}

// Add inserts k. Invalid keys are ignored.
func (s Set) Add(k Key) {
	if !k.Valid() {
		return
	}

	s[k] = struct{}{}
}

// Remove deletes k.
func (s Set) Remove(k Key) {
	delete(s, k)
}

// Has reports whether k is in the set. The invalid key is never a member.
func (s Set) Has(k Key) bool {
	if !k.Valid() {
		return false
	}

	_, ok := s[k]

	return ok
}

// Can is Has with the key built from resource and action.
func (s Set) Can(resource, action string) bool {
	return s.Has(NewKey(resource, action))
}

// Strings returns the keys sorted, as plain strings.
func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, string(k))
	}

	sort.Strings(out)

	return out
}

// Equal reports whether both sets hold the same keys.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}

	for k := range s {
		if _, ok := other[k]; !ok {
			return false
		}
	}

	return true
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k := range s {
		out[k] = struct{}{}
	}

	return out
}
