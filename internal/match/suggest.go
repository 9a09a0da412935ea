package match

import (
	"sort"
)

// suggestThreshold is the minimum similarity for a suggestion.
const suggestThreshold = 0.5

type suggestion struct {
	name  string
	score float64
}

// Suggest returns up to limit candidates that look like word, best first.
// Words are compared after NormalizeIdent, so "idName" matches "id_name".
// Ties keep the order of candidates.
func Suggest(word string, candidates []string, limit int) []string {
	word = NormalizeIdent(word)

	var ranked []suggestion

	for _, c := range candidates {
		score := similarity(word, NormalizeIdent(c))
		if score >= suggestThreshold {
			ranked = append(ranked, suggestion{name: c, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.name
	}

	return out
}

// similarity is 1 minus the edit distance of a and b over the longer length.
func similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}

	return 1 - float64(editDistance(a, b))/float64(longest)
}

// editDistance counts the single-rune insertions, deletions and substitutions
// turning a into b.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		diag := row[0]
		row[0] = i

		for j := 1; j <= len(rb); j++ {
			up := row[j]

			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			row[j] = min(up+1, row[j-1]+1, diag+cost)
			diag = up
		}
	}

	return row[len(rb)]
}
