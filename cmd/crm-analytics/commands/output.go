package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"crm-analytics/internal/analytics"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML renders v with its JSON field names. The JSON document is decoded
// into a node tree and re-emitted in block style.
func writeYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("convert report to yaml: %w", err)
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

var (
	heading  = color.New(color.Bold, color.FgCyan)
	positive = color.New(color.FgGreen)
	negative = color.New(color.FgRed)
)

func signed(v float64) *color.Color {
	if v < 0 {
		return negative
	}
	return positive
}

// writeText prints a terminal summary of a bundle.
func writeText(w io.Writer, tenant string, b *analytics.Bundle) error {
	d := b.Dashboard
	heading.Fprintf(w, "Desempenho %s\n", tenant)
	if win := b.Company.Window; win != nil {
		fmt.Fprintf(w, "Período: %s a %s\n", win.From.Format("02/01/2006"), win.To.Format("02/01/2006"))
	}
	fmt.Fprintf(w, "Leads: %d  Vendas: %d  Visitas: %d\n", d.TotalLeads, b.Company.Sales, b.Company.Visits)
	fmt.Fprintf(w, "Conversão: %.1f%%  Resposta média: %.1fh  Primeira abertura: %.1fh\n",
		d.Conversion, d.AvgResponseHours, b.Company.AvgOpenHours)
	fmt.Fprint(w, "Crescimento: ")
	signed(d.Growth).Fprintf(w, "%+.1f%%\n", d.Growth)

	heading.Fprintln(w, "\nFunil")
	for _, sc := range d.ByStage {
		fmt.Fprintf(w, "  %-24s %5d\n", sc.Stage, sc.Count)
	}
	if d.Unplaced > 0 {
		fmt.Fprintf(w, "  %-24s %5d\n", "Sem etapa", d.Unplaced)
	}

	heading.Fprintln(w, "\nEquipes")
	for _, t := range b.Teams {
		fmt.Fprintf(w, "  %s %-20s %5d leads %6.1f%%\n", rankMark(t.Ranking), t.TeamName, t.TotalLeads, t.Conversion)
	}

	heading.Fprintln(w, "\nCorretores")
	for _, u := range b.Users {
		fmt.Fprintf(w, "  %s %-20s %5d leads %3d vendas ", rankMark(u.Ranking), u.Name, u.TotalLeads, u.Sales)
		signed(u.Conversion-d.Conversion).Fprintf(w, "%6.1f%%\n", u.Conversion)
	}
	return nil
}

func rankMark(r *int) string {
	if r == nil {
		return "   "
	}
	return fmt.Sprintf("%2d.", *r)
}
