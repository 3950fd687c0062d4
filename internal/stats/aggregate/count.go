// Package aggregate computes grouped counts, age pyramids, rates, trends and
// cross-entity comparisons over a snapshot of fact records.
//
// Every function is pure and deterministic: the same input in the same order
// yields the same output. Empty input yields empty or zeroed results. Ratios
// are rounded half-up to two decimals and a zero denominator yields 0.
package aggregate

import (
	"cmp"
	"slices"
)

// Group is one (value, count) row of a count-by-dimension aggregate.
type Group[K comparable] struct {
	Key   K   `json:"key"`
	Count int `json:"count"`
}

// CountBy groups records by key. Records for which key reports false (null
// grouping field) are excluded. Groups come out in first-appearance order.
func CountBy[T any, K comparable](records []T, key func(*T) (K, bool)) []Group[K] {
	index := make(map[K]int)
	var groups []Group[K]
	for i := range records {
		k, ok := key(&records[i])
		if !ok {
			continue
		}
		if pos, seen := index[k]; seen {
			groups[pos].Count++
			continue
		}
		index[k] = len(groups)
		groups = append(groups, Group[K]{Key: k, Count: 1})
	}
	return groups
}

// Count returns how many records satisfy pred.
func Count[T any](records []T, pred func(*T) bool) int {
	n := 0
	for i := range records {
		if pred(&records[i]) {
			n++
		}
	}
	return n
}

// Total sums the group counts.
func Total[K comparable](groups []Group[K]) int {
	n := 0
	for _, g := range groups {
		n += g.Count
	}
	return n
}

// TopN orders groups by descending count and keeps the first n. The sort is
// stable: equal counts keep their input order. n <= 0 keeps every group.
func TopN[K comparable](groups []Group[K], n int) []Group[K] {
	out := slices.Clone(groups)
	slices.SortStableFunc(out, func(a, b Group[K]) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// SortByKey orders groups by key.
func SortByKey[K cmp.Ordered](groups []Group[K], desc bool) []Group[K] {
	out := slices.Clone(groups)
	slices.SortStableFunc(out, func(a, b Group[K]) int {
		if desc {
			return cmp.Compare(b.Key, a.Key)
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}

// ToMap flattens groups into a key → count map.
func ToMap[K comparable](groups []Group[K]) map[K]int {
	out := make(map[K]int, len(groups))
	for _, g := range groups {
		out[g.Key] = g.Count
	}
	return out
}

// CountOf returns the count of key, or 0.
func CountOf[K comparable](groups []Group[K], key K) int {
	for _, g := range groups {
		if g.Key == key {
			return g.Count
		}
	}
	return 0
}

// Deref adapts a pointer field accessor into a CountBy key.
func Deref[T any, K comparable](field func(*T) *K) func(*T) (K, bool) {
	return func(r *T) (K, bool) {
		v := field(r)
		if v == nil {
			var zero K
			return zero, false
		}
		return *v, true
	}
}
