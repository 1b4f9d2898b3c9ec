package main

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/straja-ai/resocheck/internal/analyzer"
)

func newRulesCmd(_ *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := analyzer.RuleSet()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			s := cliStyles()
			fmt.Fprintf(out, "%s (baseline %d, hard flag score %d)\n\n", info, info.Baseline, info.HardFlagScore)

			hard := table.New().Border(lipgloss.RoundedBorder()).BorderStyle(s.border).
				Headers("HARD FLAG", "DESCRIPTION")
			for _, r := range info.HardFlags {
				hard.Row(r.ID, r.Description)
			}
			fmt.Fprintln(out, hard.String())

			scoring := table.New().Border(lipgloss.RoundedBorder()).BorderStyle(s.border).
				Headers("RULE", "DELTA", "DESCRIPTION")
			for _, r := range info.ScoringRules {
				scoring.Row(r.ID, fmt.Sprintf("%+d", r.Delta), r.Description)
			}
			fmt.Fprintln(out, scoring.String())
			fmt.Fprintf(out, "score >= %d achievable, >= %d optimistic, otherwise delusional\n", info.AchievableMin, info.OptimisticMin)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the rule set as JSON")
	return cmd
}
