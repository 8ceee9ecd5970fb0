package visuals

import (
	"strings"
	"testing"

	"crm-analytics/internal/analytics"
)

func TestGenerateFunnelChart(t *testing.T) {
	tally := analytics.StageTally{
		{Stage: "Novo Lead", Order: 1, Count: 10},
		{Stage: "Venda Fechada", Order: 2, Count: 4},
	}

	chart := GenerateFunnelChart(tally, 2)

	if !strings.HasPrefix(chart, "```mermaid\nxychart-beta\n") {
		t.Errorf("Expected a mermaid xychart, got %q", chart)
	}
	if !strings.Contains(chart, `x-axis ["Novo Lead", "Venda Fechada", "Sem etapa"]`) {
		t.Errorf("Expected stages in funnel order plus unplaced, got %q", chart)
	}
	if !strings.Contains(chart, "bar [10, 4, 2]") {
		t.Errorf("Expected bar values, got %q", chart)
	}
	if !strings.Contains(chart, "0 --> 12") {
		t.Errorf("Expected y-axis headroom of 12, got %q", chart)
	}
}

func TestGenerateFunnelChart_Empty(t *testing.T) {
	if chart := GenerateFunnelChart(nil, 3); chart != "" {
		t.Errorf("Expected empty chart, got %q", chart)
	}
}

func TestGenerateEvolutionChart(t *testing.T) {
	points := []analytics.MonthlyPoint{
		{Month: "Jan", Leads: 5, Sales: 1},
		{Month: "Fev", Leads: 0, Sales: 0},
	}

	chart := GenerateEvolutionChart(points)

	if !strings.Contains(chart, `x-axis ["Jan", "Fev"]`) {
		t.Errorf("Expected month labels, got %q", chart)
	}
	if !strings.Contains(chart, "bar [5, 0]") || !strings.Contains(chart, "line [1, 0]") {
		t.Errorf("Expected lead bars and sales line, got %q", chart)
	}
}

func TestGenerateTagPie_OrderAndQuoting(t *testing.T) {
	chart := GenerateTagPie(map[string]int{"Quente": 2, `Alto "padrão"`: 5, "Frio": 2})

	lines := strings.Split(chart, "\n")
	want := []string{`    "Alto 'padrão'" : 5`, `    "Frio" : 2`, `    "Quente" : 2`}
	for i, w := range want {
		if lines[i+2] != w {
			t.Errorf("Line %d: expected %q, got %q", i, w, lines[i+2])
		}
	}
}

func TestGenerateTeamChart(t *testing.T) {
	teams := []analytics.EquipePerformanceReport{{TeamName: "Norte"}, {TeamName: "Sul"}}
	teams[0].Conversion = 33.3

	chart := GenerateTeamChart(teams)
	if !strings.Contains(chart, "bar [33.3, 0.0]") {
		t.Errorf("Expected conversion bars, got %q", chart)
	}
}
