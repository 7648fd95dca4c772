package route

import "sort"

// Scoring weights for the normalized sub-scores. They mirror the tuning the
// dashboard shipped with; preference weights scale each term.
const (
	timeScoreScale     = 100.0
	transferScoreScale = 50.0
	ecoScoreScale      = 1000.0
	costScoreScale     = 10.0
	accessScoreScale   = 20.0
)

// Score computes the scalar preference score for one candidate.
func Score(c RouteCandidate, prefs PreferenceVector) float64 {
	score := 0.0

	duration := float64(c.TotalDurationMinutes)
	if duration < 1 {
		duration = 1
	}
	score += timeScoreScale / duration * prefs.Time

	score += transferScoreScale / float64(c.Transfers+1) * prefs.Transfer

	emissions := c.TotalEmissionsGrams
	if emissions < 1 {
		emissions = 1
	}
	score += ecoScoreScale / emissions * prefs.Eco

	cost := c.CostEuros
	if cost < 0.1 {
		cost = 0.1
	}
	score += costScoreScale / cost * prefs.Cost

	score += accessScoreScale * c.AccessibilityScore * prefs.Accessibility

	return score
}

// Rank orders candidates by descending preference score. The sort is stable:
// ties keep insertion order. When the query requires accessibility,
// candidates below minAccessibility are excluded before scoring rather than
// down-ranked.
func Rank(candidates []RouteCandidate, prefs PreferenceVector, minAccessibility float64) []RouteCandidate {
	filtered := make([]RouteCandidate, 0, len(candidates))
	for _, c := range candidates {
		if prefs.RequireAccessible && c.AccessibilityScore < minAccessibility {
			continue
		}
		filtered = append(filtered, c)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return Score(filtered[i], prefs) > Score(filtered[j], prefs)
	})
	return filtered
}
