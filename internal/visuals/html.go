package visuals

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"crm-analytics/internal/analytics"

	"github.com/evanw/esbuild/pkg/api"
)

// dashboardScript makes the report tables sortable and renders the Mermaid blocks.
const dashboardScript = `
function sortTable(table, column, numeric) {
  const body = table.tBodies[0];
  const rows = Array.from(body.rows);
  const direction = table.dataset.sortColumn === String(column) && table.dataset.sortDirection === "desc" ? "asc" : "desc";
  rows.sort(function (a, b) {
    const left = a.cells[column].dataset.value || a.cells[column].textContent;
    const right = b.cells[column].dataset.value || b.cells[column].textContent;
    const order = numeric ? Number(left) - Number(right) : left.localeCompare(right);
    return direction === "asc" ? order : -order;
  });
  rows.forEach(function (row) { body.appendChild(row); });
  table.dataset.sortColumn = String(column);
  table.dataset.sortDirection = direction;
}

document.querySelectorAll("table.sortable").forEach(function (table) {
  Array.from(table.tHead.rows[0].cells).forEach(function (cell, column) {
    cell.addEventListener("click", function () {
      sortTable(table, column, cell.dataset.numeric === "true");
    });
  });
});

const growth = document.getElementById("growth");
if (growth) {
  const value = Number(growth.dataset.value);
  growth.classList.add(value > 0 ? "up" : value < 0 ? "down" : "flat");
}

if (window.mermaid) {
  window.mermaid.initialize({ startOnLoad: true, theme: "neutral" });
}
`

var minifiedScript = sync.OnceValues(func() (template.JS, error) {
	result := api.Transform(dashboardScript, api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2017,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		return "", fmt.Errorf("minify dashboard script: %s", result.Errors[0].Text)
	}
	return template.JS(result.Code), nil
})

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Desempenho {{.Tenant}}</title>
<style>
body{font-family:system-ui,sans-serif;margin:2rem;color:#1f2933}
.cards{display:flex;gap:1rem;flex-wrap:wrap}
.card{border:1px solid #d9e2ec;border-radius:8px;padding:1rem;min-width:10rem}
.card strong{display:block;font-size:1.6rem}
table{border-collapse:collapse;margin:1rem 0;width:100%}
th,td{border-bottom:1px solid #d9e2ec;padding:.4rem .6rem;text-align:left}
th{cursor:pointer}
.up{color:#2f855a}.down{color:#c53030}.flat{color:#52606d}
.swatch{display:inline-block;width:.8rem;height:.8rem;border-radius:2px;margin-right:.4rem}
</style>
</head>
<body>
<h1>Desempenho {{.Tenant}}</h1>
{{with .Bundle.Company.Window}}<p>Período: {{.From.Format "02/01/2006"}} a {{.To.Format "02/01/2006"}}</p>{{end}}
<section class="cards">
<div class="card">Leads<strong>{{.Bundle.Dashboard.TotalLeads}}</strong></div>
<div class="card">Conversão<strong>{{printf "%.1f" .Bundle.Dashboard.Conversion}}%</strong></div>
<div class="card">Crescimento<strong id="growth" data-value="{{.Bundle.Dashboard.Growth}}">{{printf "%.1f" .Bundle.Dashboard.Growth}}%</strong></div>
<div class="card">Tempo médio de resposta<strong>{{printf "%.1f" .Bundle.Dashboard.AvgResponseHours}}h</strong></div>
{{with .Bundle.Dashboard.TopPerformer}}<div class="card">Top corretor<strong>{{.Name}}</strong>{{printf "%.1f" .Conversion}}%</div>{{end}}
{{with .Bundle.Dashboard.TopTeam}}<div class="card">Top equipe<strong>{{.Name}}</strong>{{.Leads}} leads</div>{{end}}
</section>

<h2>Funil</h2>
<table class="sortable" id="funnel">
<thead><tr><th>Etapa</th><th data-numeric="true">Leads</th></tr></thead>
<tbody>
{{range .Bundle.Company.ByStage}}<tr><td>{{if .Color}}<span class="swatch" style="background:{{.Color}}"></span>{{end}}{{.Stage}}</td><td data-value="{{.Count}}">{{.Count}}</td></tr>
{{end}}{{if .Bundle.Company.Unplaced}}<tr><td>Sem etapa</td><td data-value="{{.Bundle.Company.Unplaced}}">{{.Bundle.Company.Unplaced}}</td></tr>
{{end}}</tbody>
</table>
{{range .Charts}}<pre class="mermaid">{{.}}</pre>
{{end}}
<h2>Equipes</h2>
<table class="sortable" id="teams">
<thead><tr><th>Equipe</th><th data-numeric="true">Membros</th><th data-numeric="true">Leads</th><th data-numeric="true">Vendas</th><th data-numeric="true">Conversão</th><th data-numeric="true">Ranking</th></tr></thead>
<tbody>
{{range .Bundle.Teams}}<tr><td>{{.TeamName}}</td><td data-value="{{.Members}}">{{.Members}}</td><td data-value="{{.TotalLeads}}">{{.TotalLeads}}</td><td data-value="{{.Sales}}">{{.Sales}}</td><td data-value="{{.Conversion}}">{{printf "%.1f" .Conversion}}%</td><td data-value="{{with .Ranking}}{{.}}{{else}}999{{end}}">{{with .Ranking}}{{.}}º{{end}}</td></tr>
{{end}}</tbody>
</table>

<h2>Corretores</h2>
<table class="sortable" id="users">
<thead><tr><th>Nome</th><th data-numeric="true">Leads</th><th data-numeric="true">Vendas</th><th data-numeric="true">Conversão</th><th data-numeric="true">Resposta (h)</th><th data-numeric="true">Ranking</th></tr></thead>
<tbody>
{{range .Bundle.Users}}<tr><td>{{.Name}}</td><td data-value="{{.TotalLeads}}">{{.TotalLeads}}</td><td data-value="{{.Sales}}">{{.Sales}}</td><td data-value="{{.Conversion}}">{{printf "%.1f" .Conversion}}%</td><td data-value="{{.AvgResponseHours}}">{{printf "%.1f" .AvgResponseHours}}</td><td data-value="{{with .Ranking}}{{.}}{{else}}999{{end}}">{{with .Ranking}}{{.}}º{{end}}</td></tr>
{{end}}</tbody>
</table>

<p><small>Gerado em {{.Bundle.GeneratedAt.Format "02/01/2006 15:04"}}</small></p>
{{if .Charts}}<script src="https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"></script>
{{end}}<script>{{.Script}}</script>
</body>
</html>
`))

type dashboardPage struct {
	Tenant string
	Bundle *analytics.Bundle
	Charts []string
	Script template.JS
}

// RenderDashboard writes a self-contained HTML page for a report bundle.
func RenderDashboard(w io.Writer, tenant string, b *analytics.Bundle) error {
	script, err := minifiedScript()
	if err != nil {
		return err
	}

	page := dashboardPage{Tenant: tenant, Bundle: b, Script: script}
	for _, chart := range []string{
		GenerateFunnelChart(b.Company.ByStage, b.Company.Unplaced),
		GenerateEvolutionChart(b.Company.Evolution),
		GenerateTeamChart(b.Teams),
		GenerateTagPie(b.Company.TotalByTag),
	} {
		if chart != "" {
			page.Charts = append(page.Charts, chartBody(chart))
		}
	}

	if err := dashboardTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

// WriteDashboard renders the dashboard into dir and returns the file path.
func WriteDashboard(dir, tenant string, b *analytics.Bundle) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-dashboard.html", tenant))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create dashboard file: %w", err)
	}

	if err := RenderDashboard(file, tenant, b); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close dashboard file: %w", err)
	}
	return path, nil
}

// chartBody strips the markdown fence; the page renders the diagram source directly.
func chartBody(chart string) string {
	body := strings.TrimPrefix(chart, "```mermaid\n")
	return strings.TrimSuffix(body, "```")
}
