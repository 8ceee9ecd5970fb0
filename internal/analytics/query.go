package analytics

import (
	"fmt"
	"strings"
	"time"

	"crm-analytics/internal/crm"
)

// ReportQuery carries every filter a report builder needs. The engine never
// keeps filter state between calls.
type ReportQuery struct {
	Window *ReportWindow // nil means the whole snapshot
	Now    time.Time     // reference instant for the default comparison window
	TeamID string        // optional: restrict to the active members of one team
	UserID string        // optional: restrict to one user
}

func (q ReportQuery) now() time.Time {
	if q.Now.IsZero() {
		return time.Now()
	}
	return q.Now
}

// reference is the instant whose calendar year the monthly evolution covers.
func (q ReportQuery) reference() time.Time {
	if q.Window != nil {
		return q.Window.To
	}
	return q.now()
}

// comparisonWindow is the window growth is measured over.
func (q ReportQuery) comparisonWindow(defaultDays int) ReportWindow {
	if q.Window != nil {
		return *q.Window
	}
	return DefaultWindow(q.now(), defaultDays)
}

// teamMembers returns the active users of a team, in input order.
func teamMembers(users []crm.User, teamID string) []crm.User {
	var members []crm.User
	for _, u := range users {
		if u.IsActive() && u.TeamID == teamID {
			members = append(members, u)
		}
	}
	return members
}

// ownedBy keeps the leads whose owner is in ids.
func ownedBy(leads []crm.Lead, ids map[string]bool) []crm.Lead {
	var owned []crm.Lead
	for _, l := range leads {
		if ids[l.Owner()] {
			owned = append(owned, l)
		}
	}
	return owned
}

func userIDs(users []crm.User) map[string]bool {
	ids := make(map[string]bool, len(users))
	for _, u := range users {
		ids[u.ID] = true
	}
	return ids
}

// scopeOwners applies the team and user filters of q, ignoring the window.
func (q ReportQuery) scopeOwners(snap crm.Snapshot) []crm.Lead {
	leads := snap.Leads
	if q.TeamID != "" {
		leads = ownedBy(leads, userIDs(teamMembers(snap.Users, q.TeamID)))
	}
	if q.UserID != "" {
		leads = ownedBy(leads, map[string]bool{q.UserID: true})
	}
	return leads
}

// scope applies every filter of q.
func (q ReportQuery) scope(snap crm.Snapshot) []crm.Lead {
	return FilterByWindow(q.scopeOwners(snap), q.Window)
}

// ParseWindow builds a report window from textual bounds. Both empty means no
// window. A missing bound is derived from the other one and defaultDays.
// Date-only bounds are midnight instants, so [2025-01-01, 2025-01-31] compares
// against [2024-12-02, 2025-01-01].
func ParseWindow(from, to string, now time.Time, defaultDays int) (*ReportWindow, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return nil, nil
	}
	if defaultDays <= 0 {
		defaultDays = DefaultWindowDays
	}

	var start, end time.Time
	if to != "" {
		t, err := crm.ParseTime(to)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", to, err)
		}
		end = t
	} else {
		end = now
	}

	if from != "" {
		t, err := crm.ParseTime(from)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", from, err)
		}
		start = t
	} else {
		start = end.AddDate(0, 0, -defaultDays)
	}

	w, err := NewReportWindow(start, end)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
