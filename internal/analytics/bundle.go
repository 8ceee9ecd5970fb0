package analytics

import (
	"context"
	"fmt"
	"time"

	"crm-analytics/internal/crm"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Bundle is every report of one snapshot and query.
type Bundle struct {
	Dashboard   DashboardMetrics          `json:"dashboard"`
	Company     PerformanceGeralReport    `json:"performanceGeral"`
	Teams       []EquipePerformanceReport `json:"equipes"`
	Users       []UserPerformanceReport   `json:"usuarios"`
	GeneratedAt time.Time                 `json:"geradoEm"`
}

// BuildBundle runs the report builders concurrently over the same snapshot.
// The snapshot is only read, so the builders share it without locking.
// Cancellation is checked before each builder starts; a running builder is not interrupted.
func (e *Engine) BuildBundle(ctx context.Context, snap crm.Snapshot, q ReportQuery) (*Bundle, error) {
	g, ctx := errgroup.WithContext(ctx)
	b := &Bundle{}

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.Dashboard = e.Dashboard(snap, q)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.Company = e.CompanyReport(snap, q)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.Teams = e.TeamReports(snap, q)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.Users = e.UserReports(snap, q)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build report bundle: %w", err)
	}

	b.GeneratedAt = q.now()
	log.Info().
		Str("tenant", snap.TenantID).
		Int("leads", b.Company.TotalLeads).
		Int("teams", len(b.Teams)).
		Int("users", len(b.Users)).
		Msg("Report bundle built")
	return b, nil
}
