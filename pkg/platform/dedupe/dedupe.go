// Package dedupe removes repeated values from slices, preserving order.
package dedupe

import "strings"

// Values drops repeated elements, keeping the first occurrence.
//
// Example:
//
//	Values([]int64{3, 1, 3, 2, 1})
//	// Returns: []int64{3, 1, 2}
func Values[T comparable](values []T) []T {
	if len(values) == 0 {
		return values
	}
	seen := make(map[T]struct{}, len(values))
	result := make([]T, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}
	return result
}

// Trimmed splits each element on sep, trims whitespace and drops empty and
// repeated entries. An empty sep disables splitting.
//
// Example:
//
//	Trimmed([]string{" k1:9092, k2:9092", "k1:9092", ""}, ",")
//	// Returns: []string{"k1:9092", "k2:9092"}
func Trimmed(values []string, sep string) []string {
	var parts []string
	for _, v := range values {
		if sep == "" {
			parts = append(parts, v)
			continue
		}
		parts = append(parts, strings.Split(v, sep)...)
	}
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			result = append(result, t)
		}
	}
	return Values(result)
}
