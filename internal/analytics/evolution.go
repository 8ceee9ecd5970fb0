package analytics

import (
	"time"

	"crm-analytics/internal/crm"
)

// MonthlyPoint is one month of the yearly evolution series.
type MonthlyPoint struct {
	Month      string  `json:"mes"`
	Leads      int     `json:"leads"`
	Sales      int     `json:"vendas"`
	Conversion float64 `json:"conversao"`
}

// MonthlyEvolution buckets leads by creation month for the calendar year of ref,
// in ref's location. It always returns twelve points, Jan through Dez.
func (p *Pipeline) MonthlyEvolution(leads []crm.Lead, ref time.Time) []MonthlyPoint {
	loc := ref.Location()
	year := ref.Year()

	var buckets [12][]crm.Lead
	for _, l := range leads {
		created := l.CreatedAt.In(loc)
		if created.Year() != year {
			continue
		}
		m := created.Month() - 1
		buckets[m] = append(buckets[m], l)
	}

	points := make([]MonthlyPoint, 12)
	for i := range buckets {
		sales := p.CountSpecial(buckets[i], Success)
		points[i] = MonthlyPoint{
			Month:      MonthLabel(time.Month(i + 1)),
			Leads:      len(buckets[i]),
			Sales:      sales,
			Conversion: Percent(sales, len(buckets[i])),
		}
	}
	return points
}
