// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-alert/internal/pipeline"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one query and print the ranked papers",
	Long: `Search runs a single keyword query through the fetch, merge, rank, and
enrichment pipeline and prints the result without mailing anything or
touching the history database. Useful for tuning queries before putting
them in the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("top", 0, "number of papers to keep (default from config)")
	searchCmd.Flags().Int("rows", 0, "candidates to request per source (default from config)")
	searchCmd.Flags().Bool("json", false, "output records as JSON")
	searchCmd.Flags().String("save", "", "save the result to a YAML file")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadAlertConfig()

	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		cfg.Pipeline.TopN = top
	}
	if rows, _ := cmd.Flags().GetInt("rows"); rows > 0 {
		cfg.Fetch.Rows = rows
	}

	p := buildPipeline(cfg, false)
	result := p.Run(cmd.Context(), args[0])

	if save, _ := cmd.Flags().GetString("save"); save != "" {
		if err := pipeline.WriteResultFile(save, result, cfg.Pipeline.TopN, cfg.Fetch.Rows); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved result to %s\n", save)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return pipeline.FormatJSON(result, os.Stdout)
	}
	pipeline.FormatTable(result, os.Stdout)
	return nil
}
