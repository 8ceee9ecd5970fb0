package mcp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"crm-analytics/internal/analytics"
)

// query turns tool arguments into a report query anchored at now.
func (s *Server) query(args ReportArgs, now time.Time) (analytics.ReportQuery, error) {
	w, err := analytics.ParseWindow(args.From, args.To, now, s.cfg.DefaultWindowDays)
	if err != nil {
		return analytics.ReportQuery{}, err
	}
	return analytics.ReportQuery{
		Window: w,
		Now:    now,
		TeamID: strings.TrimSpace(args.TeamID),
		UserID: strings.TrimSpace(args.UserID),
	}, nil
}

func (s *Server) formatResult(data any) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}

// withCharts appends the non-empty charts when Mermaid output is enabled.
func (s *Server) withCharts(text string, charts ...string) string {
	if !s.cfg.EnableMermaidCharts {
		return text
	}

	var sb strings.Builder
	sb.WriteString(text)
	for _, chart := range charts {
		if chart == "" {
			continue
		}
		sb.WriteString("\n\n")
		sb.WriteString(chart)
	}
	return sb.String()
}

// cachedTenants lists tenants that have a metadata or lead file in the cache directory.
func cachedTenants(cacheDir string) ([]string, error) {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache directory: %w", err)
	}

	seen := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case strings.HasSuffix(name, "-leads.jsonl"):
			seen[strings.TrimSuffix(name, "-leads.jsonl")] = true
		case filepath.Ext(name) == ".json":
			seen[strings.TrimSuffix(name, ".json")] = true
		}
	}

	tenants := make([]string, 0, len(seen))
	for id := range seen {
		tenants = append(tenants, id)
	}
	sort.Strings(tenants)
	return tenants, nil
}
