package commands

import (
	"fmt"

	"crm-analytics/internal/config"

	"github.com/spf13/cobra"
)

var rulesOut string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the stage classification rules",
}

var rulesDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the effective stage rules as YAML",
	Long: `Prints the keyword table used to find the sales and visit stages. The output
is a valid STAGE_RULES_PATH file and can be edited and loaded back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}

		if rulesOut != "" {
			if err := config.WriteStageRules(rulesOut, engine.Rules()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stage rules written to %s\n", rulesOut)
			return nil
		}

		buf, err := config.MarshalStageRules(engine.Rules())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(buf)
		return err
	},
}

func init() {
	rulesDumpCmd.Flags().StringVarP(&rulesOut, "out", "o", "", "write to a file instead of stdout")
	rulesCmd.AddCommand(rulesDumpCmd)
}
