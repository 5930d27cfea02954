package diagnostic

// Suggestion returns the candidate closest to value by edit distance, or ""
// if none is close enough to be worth suggesting.
func Suggestion(value string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	best := -1
	index := -1
	for i, candidate := range candidates {
		dist := Levenshtein([]rune(value), []rune(candidate))
		if best == -1 || dist < best {
			best = dist
			index = i
		}
	}
	failLimit := 1
	if len(value) > 3 {
		failLimit = 2
	}
	if best > failLimit {
		return ""
	}
	return candidates[index]
}

// Levenshtein returns the edit distance between two rune slices, rolling a
// single column of the distance matrix instead of materializing it.
//
// Adapted from the optimized C code at
// https://en.wikibooks.org/wiki/Algorithm_Implementation/Strings/Levenshtein_distance#C
func Levenshtein(s1, s2 []rune) int {
	column := make([]int, len(s1)+1)
	for y := 1; y <= len(s1); y++ {
		column[y] = y
	}
	for x := 1; x <= len(s2); x++ {
		column[0] = x
		lastdiag := x - 1
		for y := 1; y <= len(s1); y++ {
			olddiag := column[y]
			substCost := lastdiag
			if s1[y-1] != s2[x-1] {
				substCost++
			}
			column[y] = min(column[y]+1, column[y-1]+1, substCost)
			lastdiag = olddiag
		}
	}
	return column[len(s1)]
}
