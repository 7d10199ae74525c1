// Package idset provides a small hash-set over entity ids.
package idset

import "sort"

// Set is a mutable set of int64 entity ids. The zero id is treated as
// "unknown" and is never stored, so partially resolved kills degrade to
// smaller sets instead of polluting membership checks.
type Set map[int64]struct{}

// New returns a set containing the given ids, skipping zeros.
func New(ids ...int64) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id into the set. Zero ids are ignored.
func (s Set) Add(id int64) {
	if id == 0 {
		return
	}
	s[id] = struct{}{}
}

// Remove deletes id from the set.
func (s Set) Remove(id int64) {
	delete(s, id)
}

// Contains reports whether id is a member.
func (s Set) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// Union adds every member of other to s.
func (s Set) Union(other Set) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// IntersectCount returns the number of ids present in both sets.
func (s Set) IntersectCount(other Set) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for id := range small {
		if _, ok := large[id]; ok {
			n++
		}
	}
	return n
}

// Intersects reports whether the sets share at least one id.
func (s Set) Intersects(other Set) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for id := range small {
		if _, ok := large[id]; ok {
			return true
		}
	}
	return false
}

// Values returns the members in ascending order.
func (s Set) Values() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
