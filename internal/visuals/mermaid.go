package visuals

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"crm-analytics/internal/analytics"
)

// GenerateFunnelChart creates a Mermaid bar chart of leads per active stage, in funnel order.
// Unplaced leads get a trailing bar so the chart sums to the lead total.
func GenerateFunnelChart(tally analytics.StageTally, unplaced int) string {
	if len(tally) == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0

	for _, sc := range tally {
		labels = append(labels, quote(sc.Stage))
		values = append(values, fmt.Sprintf("%d", sc.Count))
		maxVal = max(maxVal, sc.Count)
	}
	if unplaced > 0 {
		labels = append(labels, quote("Sem etapa"))
		values = append(values, fmt.Sprintf("%d", unplaced))
		maxVal = max(maxVal, unplaced)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Funil de Leads\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Leads\" 0 --> %d\n", headroom(float64(maxVal))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateEvolutionChart creates a Mermaid chart of monthly lead volume (bars) and sales (line).
func GenerateEvolutionChart(points []analytics.MonthlyPoint) string {
	if len(points) == 0 {
		return ""
	}

	var labels []string
	var leads []string
	var sales []string
	maxVal := 0

	for _, p := range points {
		labels = append(labels, quote(p.Month))
		leads = append(leads, fmt.Sprintf("%d", p.Leads))
		sales = append(sales, fmt.Sprintf("%d", p.Sales))
		maxVal = max(maxVal, p.Leads, p.Sales)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Evolução Mensal\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Leads\" 0 --> %d\n", headroom(float64(maxVal))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(leads, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(sales, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateTeamChart creates a Mermaid bar chart of conversion rate per team.
func GenerateTeamChart(teams []analytics.EquipePerformanceReport) string {
	if len(teams) == 0 {
		return ""
	}

	var labels []string
	var values []string
	for _, t := range teams {
		labels = append(labels, quote(t.TeamName))
		values = append(values, fmt.Sprintf("%.1f", t.Conversion))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Conversão por Equipe (%)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Conversão\" 0 --> 100\n")
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateTagPie creates a Mermaid pie chart of tag usage, largest slice first.
func GenerateTagPie(totalByTag map[string]int) string {
	if len(totalByTag) == 0 {
		return ""
	}

	names := make([]string, 0, len(totalByTag))
	for name := range totalByTag {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if totalByTag[names[i]] != totalByTag[names[j]] {
			return totalByTag[names[i]] > totalByTag[names[j]]
		}
		return names[i] < names[j]
	})

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Etiquetas\n")
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("    %s : %d\n", quote(name), totalByTag[name]))
	}
	sb.WriteString("```")
	return sb.String()
}

// quote wraps a label for Mermaid; embedded double quotes would end the label early.
func quote(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "'") + "\""
}

// headroom leaves space above the tallest bar.
func headroom(maxVal float64) int {
	return int(maxVal) + int(math.Max(1, math.Ceil(maxVal*0.2)))
}
