package permission

import (
	"sort"
	"strings"
)

// Permission is a named capability granted to a principal, e.g.
// "coffees:create".
type Permission string

// Set is a granted permission set. The zero value is an empty set and is safe
// to read.
type Set map[Permission]struct{}

// NewSet builds a Set from its members.
func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// Has reports whether p is granted.
func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Add returns s with p included, allocating if s is nil.
func (s Set) Add(p Permission) Set {
	if s == nil {
		s = make(Set, 1)
	}
	s[p] = struct{}{}
	return s
}

// Clone returns an independent copy. A nil set clones to nil.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// Names returns the members sorted for deterministic claims encoding.
func (s Set) Names() []string {
	if len(s) == 0 {
		return nil
	}
	names := make([]string, 0, len(s))
	for p := range s {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return names
}

// FromNames rebuilds a Set from an encoded name list, skipping blanks.
func FromNames(names []string) Set {
	if len(names) == 0 {
		return nil
	}
	s := make(Set, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		s[Permission(n)] = struct{}{}
	}
	return s
}

// Satisfied reports whether every required permission is granted. An empty
// requirement is always satisfied, including against a nil granted set.
func Satisfied(granted Set, required []Permission) bool {
	for _, p := range required {
		if !granted.Has(p) {
			return false
		}
	}
	return true
}

// Missing returns the required permissions absent from granted, in
// declaration order. Used for diagnostics only; callers must not leak the
// list to untrusted clients.
func Missing(granted Set, required []Permission) []Permission {
	var missing []Permission
	for _, p := range required {
		if !granted.Has(p) {
			missing = append(missing, p)
		}
	}
	return missing
}
