package analytics

import (
	"fmt"
	"time"

	"crm-analytics/internal/crm"
)

// DefaultWindowDays is the comparison length used when no window was requested.
const DefaultWindowDays = 30

// monthLabels are the Portuguese month abbreviations used by the dashboards.
var monthLabels = [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// ReportWindow is an inclusive reporting interval over lead creation time.
type ReportWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewReportWindow validates the bounds of a window.
func NewReportWindow(from, to time.Time) (ReportWindow, error) {
	if from.IsZero() || to.IsZero() {
		return ReportWindow{}, fmt.Errorf("report window needs both bounds")
	}
	if to.Before(from) {
		return ReportWindow{}, fmt.Errorf("report window ends (%s) before it starts (%s)", to.Format(time.RFC3339), from.Format(time.RFC3339))
	}
	return ReportWindow{From: from, To: to}, nil
}

// DefaultWindow is the trailing window of the given number of days ending at now.
func DefaultWindow(now time.Time, days int) ReportWindow {
	if days <= 0 {
		days = DefaultWindowDays
	}
	return ReportWindow{From: now.AddDate(0, 0, -days), To: now}
}

// Length is the duration of the window.
func (w ReportWindow) Length() time.Duration {
	return w.To.Sub(w.From)
}

// Contains reports whether t falls inside the window, bounds included.
func (w ReportWindow) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// Prior is the window of equal length immediately preceding w.
func (w ReportWindow) Prior() ReportWindow {
	d := w.Length()
	return ReportWindow{From: w.From.Add(-d), To: w.To.Add(-d)}
}

// FilterByWindow returns the leads created inside w. A nil window keeps everything.
// The input slice is never modified.
func FilterByWindow(leads []crm.Lead, w *ReportWindow) []crm.Lead {
	if w == nil {
		return append([]crm.Lead(nil), leads...)
	}
	var filtered []crm.Lead
	for _, l := range leads {
		if w.Contains(l.CreatedAt) {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

// WindowCounts returns the lead volume of current and of its prior window.
// The prior window shares its upper bound with current.From; a lead created at
// exactly that instant is counted in current only.
func WindowCounts(leads []crm.Lead, current ReportWindow) (int, int) {
	prior := current.Prior()
	cur, prev := 0, 0
	for _, l := range leads {
		switch {
		case current.Contains(l.CreatedAt):
			cur++
		case prior.Contains(l.CreatedAt):
			prev++
		}
	}
	return cur, prev
}

// GrowthPercent is the signed one-decimal change from prior to current.
// From zero, any new activity is reported as 100; no activity at all is 0.
func GrowthPercent(current, prior int) float64 {
	switch {
	case prior > 0:
		return Round1(float64(current-prior) / float64(prior) * 100)
	case current > 0:
		return 100
	default:
		return 0
	}
}

// MonthLabel returns the dashboard label of a month (Jan..Dez).
func MonthLabel(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthLabels[m-1]
}
