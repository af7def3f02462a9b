// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-alert CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-alert/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the paper-alert CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-alert",
	Short: "Periodic literature alerts from Crossref and PubMed",
	Long: `paper-alert queries Crossref and PubMed for configured keyword queries,
deduplicates the results across both sources, ranks them by title relevance,
enriches the top papers with abstracts and publication types, and emails a
digest. A scheduler such as cron runs "paper-alert run" periodically.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadedSecrets = secrets.Load(".secrets/")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-alert.yaml or ~/.config/paper-alert/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-alert")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-alert"))
		}
	}

	viper.SetEnvPrefix("PAPER_ALERT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
