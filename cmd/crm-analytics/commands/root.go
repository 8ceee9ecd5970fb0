package commands

import (
	"crm-analytics/internal/analytics"
	"crm-analytics/internal/config"
	"crm-analytics/internal/logging"
	"crm-analytics/internal/mcp"
	"crm-analytics/internal/snapshot"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "crm-analytics",
	Short: "Performance analytics for real-estate CRM tenants",
	Long: `Aggregates cached CRM snapshots (leads, pipeline stages, brokers, teams) into
funnel, conversion, response-time and ranking reports. Without a subcommand it
serves the reports as MCP tools over stdio.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("crm-analytics starting")
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reports as MCP tools over stdio",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	server := mcp.NewServer(cfg, engine, snapshot.NewStore())
	return server.Serve(cmd.Context())
}

func newEngine() (*analytics.Engine, error) {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	return analytics.NewEngine(opts), nil
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(serveCmd, reportCmd, rulesCmd)
}
