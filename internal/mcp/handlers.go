package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crm-analytics/internal/analytics"
	"crm-analytics/internal/crm"
	"crm-analytics/internal/visuals"

	"github.com/rs/zerolog/log"
)

// prepare resolves the tenant snapshot and the query of a tool call.
func (s *Server) prepare(args ReportArgs) (crm.Snapshot, analytics.ReportQuery, error) {
	tenant := strings.TrimSpace(args.Tenant)
	if tenant == "" {
		return crm.Snapshot{}, analytics.ReportQuery{}, fmt.Errorf("tenant is required")
	}

	snap, err := s.snapshotFor(tenant)
	if err != nil {
		return crm.Snapshot{}, analytics.ReportQuery{}, err
	}

	q, err := s.query(args, time.Now())
	if err != nil {
		return crm.Snapshot{}, analytics.ReportQuery{}, err
	}

	log.Info().
		Str("tenant", tenant).
		Int("leads", len(snap.Leads)).
		Bool("windowed", q.Window != nil).
		Str("team", q.TeamID).
		Str("user", q.UserID).
		Msg("Handling report request")
	return snap, q, nil
}

func (s *Server) handleDashboard(ctx context.Context, args ReportArgs) (string, error) {
	snap, q, err := s.prepare(args)
	if err != nil {
		return "", err
	}
	d := s.engine.Dashboard(snap, q)
	return s.withCharts(s.formatResult(d), visuals.GenerateFunnelChart(d.ByStage, d.Unplaced)), nil
}

func (s *Server) handleCompanyReport(ctx context.Context, args ReportArgs) (string, error) {
	snap, q, err := s.prepare(args)
	if err != nil {
		return "", err
	}
	r := s.engine.CompanyReport(snap, q)
	return s.withCharts(s.formatResult(r),
		visuals.GenerateFunnelChart(r.ByStage, r.Unplaced),
		visuals.GenerateEvolutionChart(r.Evolution),
		visuals.GenerateTagPie(r.TotalByTag),
	), nil
}

func (s *Server) handleTeamReports(ctx context.Context, args ReportArgs) (string, error) {
	snap, q, err := s.prepare(args)
	if err != nil {
		return "", err
	}
	teams := s.engine.TeamReports(snap, q)
	return s.withCharts(s.formatResult(teams), visuals.GenerateTeamChart(teams)), nil
}

func (s *Server) handleUserReports(ctx context.Context, args ReportArgs) (string, error) {
	snap, q, err := s.prepare(args)
	if err != nil {
		return "", err
	}
	return s.formatResult(s.engine.UserReports(snap, q)), nil
}

func (s *Server) handleBundle(ctx context.Context, args ReportArgs) (string, error) {
	snap, q, err := s.prepare(args)
	if err != nil {
		return "", err
	}
	b, err := s.engine.BuildBundle(ctx, snap, q)
	if err != nil {
		return "", err
	}
	return s.withCharts(s.formatResult(b),
		visuals.GenerateFunnelChart(b.Company.ByStage, b.Company.Unplaced),
		visuals.GenerateEvolutionChart(b.Company.Evolution),
		visuals.GenerateTeamChart(b.Teams),
	), nil
}

func (s *Server) handleListTenants() (string, error) {
	tenants, err := cachedTenants(s.cfg.CacheDir)
	if err != nil {
		return "", err
	}
	return s.formatResult(map[string]any{"tenants": tenants}), nil
}
