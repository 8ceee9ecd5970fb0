package analytics

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		from, to string
		wantNil  bool
		wantFrom time.Time
		wantTo   time.Time
		wantErr  bool
	}{
		{name: "no bounds", wantNil: true},
		{
			name: "date-only bounds", from: "2025-01-01", to: "2025-01-31",
			wantFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "only from", from: "2025-03-01",
			wantFrom: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   now,
		},
		{
			name: "only to", to: "2025-02-28T10:00:00Z",
			wantFrom: time.Date(2025, 1, 29, 10, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2025, 2, 28, 10, 0, 0, 0, time.UTC),
		},
		{name: "garbage", from: "ontem", wantErr: true},
		{name: "inverted", from: "2025-02-01", to: "2025-01-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ParseWindow(tt.from, tt.to, now, 30)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected an error, got window %+v", w)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.wantNil {
				if w != nil {
					t.Errorf("Expected no window, got %+v", w)
				}
				return
			}
			if !w.From.Equal(tt.wantFrom) || !w.To.Equal(tt.wantTo) {
				t.Errorf("Expected [%v, %v], got [%v, %v]", tt.wantFrom, tt.wantTo, w.From, w.To)
			}
		})
	}
}

func TestParseWindow_DateOnlyPriorWindow(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	w, err := ParseWindow("2025-01-01", "2025-01-31", now, 30)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	prior := w.Prior()
	wantFrom := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)
	if !prior.From.Equal(wantFrom) || !prior.To.Equal(w.From) {
		t.Errorf("Expected prior window [%v, %v], got [%v, %v]", wantFrom, w.From, prior.From, prior.To)
	}

	jan := leadsAt("jan", 20, func(i int) time.Time { return time.Date(2025, 1, 1+i, 10, 0, 0, 0, time.UTC) })
	dec := leadsAt("dec", 10, func(i int) time.Time { return time.Date(2024, 12, 2+2*i, 12, 0, 0, 0, time.UTC) })
	leads := append(jan, dec...)
	leads = append(leads, leadsAt("dec1", 1, func(int) time.Time { return time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC) })...)

	cur, prev := WindowCounts(leads, *w)
	if cur != 20 || prev != 10 {
		t.Errorf("Expected 20 current and 10 prior leads, got %d and %d", cur, prev)
	}
	if got := GrowthPercent(cur, prev); got != 100 {
		t.Errorf("Expected 100%% growth, got %v", got)
	}
}

func TestReportQuery_TeamAndUserScope(t *testing.T) {
	snap := brokerageSnapshot()

	q := ReportQuery{TeamID: "T1"}
	if got := len(q.scopeOwners(snap)); got != 15 {
		t.Errorf("Expected 15 leads for the active members of T1, got %d", got)
	}

	q = ReportQuery{UserID: "u3"}
	if got := len(q.scopeOwners(snap)); got != 15 {
		t.Errorf("Expected 15 leads for u3, got %d", got)
	}

	q = ReportQuery{TeamID: "T1", UserID: "u3"}
	if got := len(q.scopeOwners(snap)); got != 0 {
		t.Errorf("Expected no leads for a user outside the team, got %d", got)
	}
}
