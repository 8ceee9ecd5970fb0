package analytics

import (
	"time"

	"crm-analytics/internal/crm"
)

// AverageResponseHours is the mean time from creation to first outbound contact,
// over leads with a recorded contact. Negative gaps are data anomalies and are
// averaged as-is.
func AverageResponseHours(leads []crm.Lead) float64 {
	return averageHours(leads, func(l crm.Lead) *time.Time { return l.FirstContactAt })
}

// AverageOpenHours is the mean time from creation until the broker first opened the lead.
func AverageOpenHours(leads []crm.Lead) float64 {
	return averageHours(leads, func(l crm.Lead) *time.Time { return l.FirstOpenedAt })
}

// averageHours sums in whole milliseconds so the mean does not depend on lead order.
func averageHours(leads []crm.Lead, mark func(crm.Lead) *time.Time) float64 {
	var totalMillis int64
	n := 0
	for _, l := range leads {
		at := mark(l)
		if at == nil {
			continue
		}
		totalMillis += at.Sub(l.CreatedAt).Milliseconds()
		n++
	}

	if n == 0 {
		return 0
	}
	return Round1(float64(totalMillis) / float64(n) / float64(time.Hour/time.Millisecond))
}
