package service

// damerauLevenshtein: расстояние с транспозицией соседних символов
// (optimal string alignment). Считает по рунам, держит в памяти три строки.
func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev2 := make([]int, len(rb)+1) // строка i-2
	prev := make([]int, len(rb)+1)  // строка i-1
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			// удаление / вставка / замена
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)

			// транспозиция
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				cur[j] = min(cur[j], prev2[j-2]+1)
			}
		}
		prev2, prev, cur = prev, cur, prev2
	}
	return prev[len(rb)]
}

// similarity: нормированная схожесть в [0..1]: (maxLen - dist) / maxLen.
// Одинаковые строки дают 1, полностью разные около 0.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	m := max(la, lb)
	if m == 0 {
		return 1
	}
	d := damerauLevenshtein(a, b)
	return float64(m-d) / float64(m)
}
