package analytics

import "math"

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*10) / 10
}

// Percent returns part/total as a one-decimal percentage, or 0 for an empty total.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round1(float64(part) / float64(total) * 100)
}
