package analytics

import (
	"testing"
	"time"
)

func TestGrowthPercent(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		prior    int
		expected float64
	}{
		{"BothZero", 0, 0, 0},
		{"FromZero", 5, 0, 100},
		{"Doubled", 10, 5, 100.0},
		{"Flat", 7, 7, 0},
		{"Decline", 3, 4, -25},
		{"ToZero", 0, 8, -100},
		{"OneDecimal", 4, 3, 33.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GrowthPercent(tt.current, tt.prior); got != tt.expected {
				t.Errorf("GrowthPercent(%d, %d) = %v, want %v", tt.current, tt.prior, got, tt.expected)
			}
		})
	}
}

func TestReportWindow_Prior(t *testing.T) {
	w := ReportWindow{
		From: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	prior := w.Prior()

	if !prior.From.Equal(time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected prior start Dec 2, got %s", prior.From)
	}
	if !prior.To.Equal(w.From) {
		t.Errorf("Expected prior end at current start, got %s", prior.To)
	}
	if prior.Length() != w.Length() {
		t.Errorf("Expected equal lengths, got %s vs %s", prior.Length(), w.Length())
	}
}

func TestWindowCounts_JanuaryVsDecember(t *testing.T) {
	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	w := ReportWindow{From: jan1, To: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)}

	leads := leadsAt("jan", 20, func(i int) time.Time { return jan1.AddDate(0, 0, i).Add(10 * time.Hour) })
	leads = append(leads, leadsAt("dec", 10, func(i int) time.Time {
		return time.Date(2024, 12, 2+3*i, 15, 0, 0, 0, time.UTC)
	})...)
	// Outside both windows
	leads = append(leads, leadsAt("nov", 4, func(i int) time.Time { return time.Date(2024, 11, 10+i, 0, 0, 0, 0, time.UTC) })...)

	cur, prev := WindowCounts(leads, w)
	if cur != 20 || prev != 10 {
		t.Fatalf("Expected 20 current / 10 prior, got %d / %d", cur, prev)
	}
	if got := GrowthPercent(cur, prev); got != 100.0 {
		t.Errorf("Expected growth 100.0, got %v", got)
	}
}

func TestWindowCounts_BoundaryCountedOnce(t *testing.T) {
	w := ReportWindow{From: baseTime, To: baseTime.Add(48 * time.Hour)}
	leads := leadsAt("b", 1, func(int) time.Time { return baseTime })

	cur, prev := WindowCounts(leads, w)
	if cur != 1 || prev != 0 {
		t.Errorf("Expected boundary lead in current only, got %d / %d", cur, prev)
	}
}

func TestDefaultWindow(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	w := DefaultWindow(now, 0)

	if !w.From.Equal(now.AddDate(0, 0, -30)) || !w.To.Equal(now) {
		t.Errorf("Expected trailing 30 days, got %+v", w)
	}
	prior := w.Prior()
	if !prior.From.Equal(now.AddDate(0, 0, -60)) || !prior.To.Equal(now.AddDate(0, 0, -30)) {
		t.Errorf("Expected days 31-60 before now, got %+v", prior)
	}
}

func TestNewReportWindow(t *testing.T) {
	if _, err := NewReportWindow(baseTime, baseTime.Add(-time.Hour)); err == nil {
		t.Error("expected error for inverted window, got nil")
	}
	if _, err := NewReportWindow(time.Time{}, baseTime); err == nil {
		t.Error("expected error for missing bound, got nil")
	}
	if w, err := NewReportWindow(baseTime, baseTime); err != nil || !w.Contains(baseTime) {
		t.Errorf("Expected zero-length window to contain its instant, got %+v, %v", w, err)
	}
}

func TestFilterByWindow_DoesNotAlias(t *testing.T) {
	leads := leadsAt("x", 3, func(i int) time.Time { return baseTime.Add(time.Duration(i) * time.Hour) })

	all := FilterByWindow(leads, nil)
	all[0].ID = "changed"
	if leads[0].ID == "changed" {
		t.Error("FilterByWindow(nil) must return a copy")
	}

	w := ReportWindow{From: baseTime.Add(time.Hour), To: baseTime.Add(2 * time.Hour)}
	if got := FilterByWindow(leads, &w); len(got) != 2 {
		t.Errorf("Expected 2 leads inside the inclusive window, got %d", len(got))
	}
}
