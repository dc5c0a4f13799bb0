package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andywolf/codelens/internal/config"
	"github.com/andywolf/codelens/internal/history"
	"github.com/andywolf/codelens/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous analysis runs",
	Long: `List runs recorded by 'codelens analyze --history', newest first.

Rows are rendered from a template. Available variables: run_id, timestamp,
when, root, primary_language, structure, quality_score, risk_level,
total_files, analysis_time_ms.

Example:
  codelens history
  codelens history --limit 5
  codelens history --template "{{timestamp}} {{quality_score}} {{root}}"`,
	RunE: listHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show (0 for all)")
	historyCmd.Flags().String("template", report.DefaultHistoryTemplate, "Row template")
}

func listHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	tmpl, _ := cmd.Flags().GetString("template")

	records, err := history.NewStore(cfg.History.Path).List(limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintf(out, "No runs recorded in %s\n", cfg.History.Path)
		return nil
	}

	now := time.Now()
	for _, rec := range records {
		fmt.Fprintln(out, report.Expand(tmpl, report.RecordVars(rec, now)))
	}
	return nil
}
