package analytics

import (
	"cmp"
	"slices"
)

// Ranked is an entity with its 1-based position and the score it was ranked by.
type Ranked[T any] struct {
	Rank   int     `json:"rank"`
	Score  float64 `json:"score"`
	Entity T       `json:"entity"`
}

// Rank orders entities by descending score and keeps the first limit.
// The sort is stable: equal scores keep their input order.
func Rank[T any](entities []T, score func(T) float64, limit int) []Ranked[T] {
	if limit <= 0 || len(entities) == 0 {
		return []Ranked[T]{}
	}

	ranked := make([]Ranked[T], len(entities))
	for i, e := range entities {
		ranked[i] = Ranked[T]{Score: score(e), Entity: e}
	}

	slices.SortStableFunc(ranked, func(a, b Ranked[T]) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
