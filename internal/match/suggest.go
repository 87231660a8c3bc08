package match

import (
	"cmp"
	"slices"
	"strings"

	"archive-mapper/internal/common"
)

// DefaultMinSimilarity is the similarity below which Suggest drops candidates.
const DefaultMinSimilarity = 0.6

// Suggestion is one ranked candidate.
type Suggestion struct {
	Name  string
	Score float64
}

// Suggest ranks candidates by their similarity to name and returns at most
// limit of them, best first. Candidates scoring under minScore are dropped.
// Ties keep the candidates' input order.
func Suggest(name string, candidates []string, limit int, minScore float64) []Suggestion {
	if limit <= 0 {
		return nil
	}

	ranked := make([]Suggestion, 0, len(candidates))

	for _, c := range candidates {
		if c == name {
			continue
		}

		if s := classSimilarity(name, c); s >= minScore {
			ranked = append(ranked, Suggestion{Name: c, Score: s})
		}
	}

	slices.SortStableFunc(ranked, func(a, b Suggestion) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}

// SuggestNames is Suggest reduced to the candidate names.
func SuggestNames(name string, candidates []string, limit int) []string {
	ranked := Suggest(name, candidates, limit, DefaultMinSimilarity)

	names := make([]string, len(ranked))
	for i, s := range ranked {
		names[i] = s.Name
	}

	return names
}

// classSimilarity weighs the simple name over the package, so a class that
// moved packages still ranks above an unrelated class of the same package.
func classSimilarity(a, b string) float64 {
	pa, sa := common.PackageOf(a), common.SimpleName(a)
	pb, sb := common.PackageOf(b), common.SimpleName(b)

	simple := Similarity(strings.ToLower(sa), strings.ToLower(sb))
	if sa == sb {
		simple = 1.0
	}

	return 0.75*simple + 0.25*Similarity(pa, pb)
}
