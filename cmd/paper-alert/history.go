// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-alert/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent alert runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 10, "number of runs to show")
	historyCmd.Flags().Int64("run", 0, "show the papers recorded for one run id")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadAlertConfig()

	store, err := history.Open(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	if runID, _ := cmd.Flags().GetInt64("run"); runID > 0 {
		papers, err := store.Papers(runID)
		if err != nil {
			return err
		}
		if len(papers) == 0 {
			fmt.Println("No papers recorded for run", runID)
			return nil
		}
		for _, p := range papers {
			fmt.Fprintf(os.Stdout, "[%s #%d] %s (%s, %s) %s\n",
				p.Query, p.Rank, p.Title, p.Year, p.Source, p.URL)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.RecentRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-20s  %-7s  %s\n", "ID", "Run at", "Papers", "Queries")
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-5d  %-20s  %-7d  %s\n",
			r.ID, r.RunAt.Local().Format("2006-01-02 15:04"), r.PapersSent, r.Queries)
	}
	return nil
}
