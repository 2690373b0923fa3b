package provider

import (
	"slices"
	"sort"

	"github.com/seenimoa/fairvalue/pkg/models"
)

// SortByDate sorts rows oldest first. Rows with equal dates keep their input order.
func SortByDate[T any](rows []T, date func(T) string) {
	sort.SliceStable(rows, func(i, j int) bool {
		return date(rows[i]) < date(rows[j])
	})
}

// Latest returns the most recent row of a chronologically ordered series.
// ok is false when the series is empty.
func Latest[T any](rows []T) (row T, ok bool) {
	if len(rows) == 0 {
		return row, false
	}
	return rows[len(rows)-1], true
}

// Dedupe removes exact duplicate rows, keeping the first occurrence.
func Dedupe[T comparable](rows []T) []T {
	seen := make(map[T]struct{}, len(rows))
	out := rows[:0]
	for _, r := range rows {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// SortRecommendations orders trend rows by models.RecommendationPeriods.
// Unknown periods sort after the known ones.
func SortRecommendations(rows []models.RecommendationTrend) {
	rank := func(p string) int {
		if i := slices.Index(models.RecommendationPeriods, p); i >= 0 {
			return i
		}
		return len(models.RecommendationPeriods)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rank(rows[i].Period) < rank(rows[j].Period)
	})
}
