package analytics

import (
	"time"

	"crm-analytics/internal/crm"

	"github.com/rs/zerolog/log"
)

// LeadSummary is the shared metric block of every report.
type LeadSummary struct {
	TotalLeads       int            `json:"leadsTotais"`
	Visits           int            `json:"visitas"`
	Sales            int            `json:"vendas"`
	AvgResponseHours float64        `json:"tempoMedioResposta"`
	AvgOpenHours     float64        `json:"tempoMedioAbertura"`
	Conversion       float64        `json:"conversao"`
	ByStage          StageTally     `json:"leadsPorEtapa"`
	Unplaced         int            `json:"semEtapa"`
	TagsByStage      []StageTagRow  `json:"etiquetasPorEtapa"`
	TotalByTag       map[string]int `json:"totalPorEtiqueta"`
}

// PerformanceGeralReport is the company-wide report.
type PerformanceGeralReport struct {
	LeadSummary
	Window    *ReportWindow  `json:"janela,omitempty"`
	Growth    float64        `json:"crescimento"`
	Evolution []MonthlyPoint `json:"evolucaoMensal"`
}

// EquipePerformanceReport is the report of one team.
type EquipePerformanceReport struct {
	TeamID   string `json:"equipeId"`
	TeamName string `json:"equipe"`
	Members  int    `json:"membros"`
	LeadSummary
	Ranking *int `json:"ranking,omitempty"`
}

// UserPerformanceReport is the report of one active broker.
type UserPerformanceReport struct {
	UserID           string  `json:"usuarioId"`
	Name             string  `json:"nome"`
	TeamID           string  `json:"equipeId,omitempty"`
	TotalLeads       int     `json:"leadsTotais"`
	Sales            int     `json:"vendas"`
	Conversion       float64 `json:"conversao"`
	AvgResponseHours float64 `json:"tempoMedioResposta"`
	AvgOpenHours     float64 `json:"tempoPrimeiraAbertura"`
	Ranking          *int    `json:"ranking,omitempty"`
}

// TopPerformer is the best ranked broker on the dashboard.
type TopPerformer struct {
	Name       string  `json:"nome"`
	Conversion float64 `json:"conversao"`
}

// TopTeam is the best ranked team on the dashboard.
type TopTeam struct {
	Name  string `json:"nome"`
	Leads int    `json:"leads"`
}

// DashboardMetrics is the headline block of the operational dashboard.
type DashboardMetrics struct {
	TotalLeads       int           `json:"totalLeads"`
	ByStage          StageTally    `json:"leadsPorEtapa"`
	Unplaced         int           `json:"semEtapa"`
	AvgResponseHours float64       `json:"tempoMedioResposta"`
	TopPerformer     *TopPerformer `json:"topPerformer,omitempty"`
	TopTeam          *TopTeam      `json:"topEquipe,omitempty"`
	Conversion       float64       `json:"conversao"`
	Growth           float64       `json:"crescimento"`
}

// summarize runs the shared primitives over one lead subset.
func (p *Pipeline) summarize(leads []crm.Lead, catalog map[string]crm.Tag) LeadSummary {
	tags := p.TallyTags(leads, catalog)
	return LeadSummary{
		TotalLeads:       len(leads),
		Visits:           p.CountSpecial(leads, Visit),
		Sales:            p.CountSpecial(leads, Success),
		AvgResponseHours: AverageResponseHours(leads),
		AvgOpenHours:     AverageOpenHours(leads),
		Conversion:       p.ConversionRate(leads),
		ByStage:          p.CountsByStage(leads),
		Unplaced:         p.UnplacedCount(leads),
		TagsByStage:      p.StageRows(tags),
		TotalByTag:       tags.TotalByTag,
	}
}

// CompanyReport builds the company-wide report over every lead in scope.
func (e *Engine) CompanyReport(snap crm.Snapshot, q ReportQuery) PerformanceGeralReport {
	start := time.Now()
	p := e.Pipeline(snap)
	owned := q.scopeOwners(snap)
	leads := FilterByWindow(owned, q.Window)

	cur, prev := WindowCounts(owned, q.comparisonWindow(e.defaultWindowDays))

	report := PerformanceGeralReport{
		Window:      q.Window,
		LeadSummary: p.summarize(leads, snap.TagCatalog()),
		Growth:      GrowthPercent(cur, prev),
		Evolution:   p.MonthlyEvolution(owned, q.reference()),
	}

	log.Debug().
		Str("tenant", snap.TenantID).
		Int("leads", report.TotalLeads).
		Int("unplaced", report.Unplaced).
		Dur("took", time.Since(start)).
		Msg("Company report computed")

	return report
}

// TeamReports builds one report per team, in input order, and marks the top
// teams by lead volume with their ranking position.
func (e *Engine) TeamReports(snap crm.Snapshot, q ReportQuery) []EquipePerformanceReport {
	p := e.Pipeline(snap)
	leads := q.scope(snap)
	catalog := snap.TagCatalog()

	reports := make([]EquipePerformanceReport, 0, len(snap.Teams))
	for _, team := range snap.Teams {
		if q.TeamID != "" && team.ID != q.TeamID {
			continue
		}
		members := teamMembers(snap.Users, team.ID)
		reports = append(reports, EquipePerformanceReport{
			TeamID:      team.ID,
			TeamName:    team.Name,
			Members:     len(members),
			LeadSummary: p.summarize(ownedBy(leads, userIDs(members)), catalog),
		})
	}

	refs := make([]*EquipePerformanceReport, len(reports))
	for i := range reports {
		refs[i] = &reports[i]
	}
	for _, r := range Rank(refs, func(r *EquipePerformanceReport) float64 { return float64(r.TotalLeads) }, e.teamRankLimit) {
		pos := r.Rank
		r.Entity.Ranking = &pos
	}

	log.Debug().Str("tenant", snap.TenantID).Int("teams", len(reports)).Msg("Team reports computed")
	return reports
}

// UserReports builds one report per active user, in input order, and marks the
// top brokers by conversion rate with their ranking position.
func (e *Engine) UserReports(snap crm.Snapshot, q ReportQuery) []UserPerformanceReport {
	p := e.Pipeline(snap)
	leads := q.scope(snap)

	byOwner := make(map[string][]crm.Lead)
	for _, l := range leads {
		byOwner[l.Owner()] = append(byOwner[l.Owner()], l)
	}

	var reports []UserPerformanceReport
	for _, u := range snap.ActiveUsers() {
		if q.UserID != "" && u.ID != q.UserID {
			continue
		}
		if q.TeamID != "" && u.TeamID != q.TeamID {
			continue
		}
		owned := byOwner[u.ID]
		reports = append(reports, UserPerformanceReport{
			UserID:           u.ID,
			Name:             u.Name,
			TeamID:           u.TeamID,
			TotalLeads:       len(owned),
			Sales:            p.CountSpecial(owned, Success),
			Conversion:       p.ConversionRate(owned),
			AvgResponseHours: AverageResponseHours(owned),
			AvgOpenHours:     AverageOpenHours(owned),
		})
	}

	refs := make([]*UserPerformanceReport, len(reports))
	for i := range reports {
		refs[i] = &reports[i]
	}
	for _, r := range Rank(refs, func(r *UserPerformanceReport) float64 { return r.Conversion }, e.userRankLimit) {
		pos := r.Rank
		r.Entity.Ranking = &pos
	}

	log.Debug().Str("tenant", snap.TenantID).Int("users", len(reports)).Msg("User reports computed")
	return reports
}

// Dashboard builds the headline metrics.
func (e *Engine) Dashboard(snap crm.Snapshot, q ReportQuery) DashboardMetrics {
	p := e.Pipeline(snap)
	owned := q.scopeOwners(snap)
	leads := FilterByWindow(owned, q.Window)
	cur, prev := WindowCounts(owned, q.comparisonWindow(e.defaultWindowDays))

	metrics := DashboardMetrics{
		TotalLeads:       len(leads),
		ByStage:          p.CountsByStage(leads),
		Unplaced:         p.UnplacedCount(leads),
		AvgResponseHours: AverageResponseHours(leads),
		Conversion:       p.ConversionRate(leads),
		Growth:           GrowthPercent(cur, prev),
	}

	if top := topUser(e.UserReports(snap, q)); top != nil {
		metrics.TopPerformer = &TopPerformer{Name: top.Name, Conversion: top.Conversion}
	}
	if top := topTeam(e.TeamReports(snap, q)); top != nil {
		metrics.TopTeam = &TopTeam{Name: top.TeamName, Leads: top.TotalLeads}
	}

	return metrics
}

func topTeam(reports []EquipePerformanceReport) *EquipePerformanceReport {
	for i := range reports {
		if r := reports[i].Ranking; r != nil && *r == 1 {
			return &reports[i]
		}
	}
	return nil
}

func topUser(reports []UserPerformanceReport) *UserPerformanceReport {
	for i := range reports {
		if r := reports[i].Ranking; r != nil && *r == 1 {
			return &reports[i]
		}
	}
	return nil
}
