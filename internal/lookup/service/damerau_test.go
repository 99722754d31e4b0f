package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDamerauLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "пу", 2},
		{"пу11", "пу11", 0},
		{"пу11", "пю11", 1},
		{"ab", "ba", 1},
		{"пу11", "пу-11", 1},
		{"kitten", "sitting", 3},
		{"ca", "abc", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, damerauLevenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
		assert.Equal(t, tt.want, damerauLevenshtein(tt.b, tt.a), "%q vs %q", tt.b, tt.a)
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("", ""))
	assert.Equal(t, 1.0, similarity("пу11", "пу11"))
	assert.Equal(t, 0.0, similarity("abc", ""))
	assert.Equal(t, 0.0, similarity("абв", "где"))
	assert.Equal(t, 0.75, similarity("пу11", "пю11"))
	assert.Equal(t, 0.6, similarity("пю11", "пу-11"))
}
