package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"crm-analytics/internal/analytics"
	"crm-analytics/internal/snapshot"
	"crm-analytics/internal/visuals"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var reportFlags struct {
	tenant string
	from   string
	to     string
	team   string
	user   string
	format string
	open   bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build every report for a cached tenant snapshot",
	Example: `  crm-analytics report --tenant imob-1 --from 2025-01-01 --to 2025-01-31
  crm-analytics report --tenant imob-1 --team T1 --format text
  crm-analytics report --tenant imob-1 --format html --open`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	f := reportFlags

	w, err := analytics.ParseWindow(f.from, f.to, time.Now(), cfg.DefaultWindowDays)
	if err != nil {
		return err
	}

	store := snapshot.NewStore()
	if err := store.Load(cfg.CacheDir, f.tenant); err != nil {
		return fmt.Errorf("load tenant %s: %w", f.tenant, err)
	}
	snap, ok := store.Get(f.tenant)
	if !ok {
		return fmt.Errorf("no snapshot cached for tenant %q in %s", f.tenant, cfg.CacheDir)
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	q := analytics.ReportQuery{Window: w, Now: time.Now(), TeamID: f.team, UserID: f.user}
	b, err := engine.BuildBundle(cmd.Context(), snap, q)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch f.format {
	case "json":
		return writeJSON(out, b)
	case "yaml":
		return writeYAML(out, b)
	case "text":
		return writeText(out, f.tenant, b)
	case "html":
		path, err := visuals.WriteDashboard(filepath.Join(cfg.DataPath, "reports"), f.tenant, b)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, path)
		if f.open {
			if err := browser.OpenFile(path); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Failed to open dashboard in browser")
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json, yaml, text or html)", f.format)
	}
}

func init() {
	flags := reportCmd.Flags()
	flags.StringVarP(&reportFlags.tenant, "tenant", "t", "", "tenant identifier of the cached snapshot")
	flags.StringVar(&reportFlags.from, "from", "", "window start (YYYY-MM-DD or RFC3339)")
	flags.StringVar(&reportFlags.to, "to", "", "window end (YYYY-MM-DD is that day at midnight)")
	flags.StringVar(&reportFlags.team, "team", "", "restrict to one team's active members")
	flags.StringVar(&reportFlags.user, "user", "", "restrict to one broker")
	flags.StringVarP(&reportFlags.format, "format", "f", "json", "output format: json, yaml, text or html")
	flags.BoolVar(&reportFlags.open, "open", false, "open the html dashboard in the default browser")
	_ = reportCmd.MarkFlagRequired("tenant")
}
