package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloatRU(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1 234,50", 1234.5, true},
		{"197 ,00", 197, true},
		{"2\u00a0345,6", 2345.6, true},
		{"3\u202f000", 3000, true},
		{"12 шт", 12, true},
		{"-4", -4, true},
		{"", 0, false},
		{"   ", 0, false},
		{"нет", 0, false},
		{"-", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseFloatRU(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
}

func TestParseQuantity(t *testing.T) {
	assert.Equal(t, 3, ParseQuantity("3"))
	assert.Equal(t, 1200, ParseQuantity("1 200,0"))
	assert.Equal(t, 3, ParseQuantity("2,6"))
	assert.Equal(t, 0, ParseQuantity("-5"))
	assert.Equal(t, 0, ParseQuantity("мусор"))
	assert.Equal(t, 0, ParseQuantity(""))
	assert.Equal(t, math.MaxInt32, ParseQuantity("99999999999"))
}
