package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNums = regexp.MustCompile(`[^\d\.\-]`)

var numReplacer = strings.NewReplacer("\u00A0", "", "\u202F", "", "\u2009", "", " ", "", "\t", "", ",", ".")

// ParseFloatRU парсит "1 234,50", "197 ,00", "2 345,6" (NBSP/NNBSP) и т.п.
func ParseFloatRU(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = numReplacer.Replace(s)
	// оставить только цифры, точку и минус (на случай мусора вроде "шт")
	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseQuantity: целое количество >= 0; мусор и отрицательные дают 0.
func ParseQuantity(s string) int {
	f, ok := ParseFloatRU(s)
	if !ok || f <= 0 {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Round(f))
}
