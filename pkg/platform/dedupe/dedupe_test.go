package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValues(t *testing.T) {
	tests := []struct {
		name     string
		input    []int64
		expected []int64
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []int64{}, expected: []int64{}},
		{name: "no repeats", input: []int64{2, 1}, expected: []int64{2, 1}},
		{name: "keeps first occurrence", input: []int64{3, 1, 3, 2, 1}, expected: []int64{3, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Values(tt.input))
		})
	}
}

func TestTrimmed(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		sep      string
		expected []string
	}{
		{name: "nil slice", input: nil, sep: ",", expected: []string{}},
		{name: "splits and trims", input: []string{" k1:9092, k2:9092"}, sep: ",", expected: []string{"k1:9092", "k2:9092"}},
		{name: "drops empty and repeated", input: []string{"a", "", " ,a", "b"}, sep: ",", expected: []string{"a", "b"}},
		{name: "no separator", input: []string{" a,b ", "a,b"}, sep: "", expected: []string{"a,b"}},
		{name: "preserves case", input: []string{"Foo", "foo"}, sep: ",", expected: []string{"Foo", "foo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Trimmed(tt.input, tt.sep))
		})
	}
}
