// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-alert/internal/history"
	"github.com/pdiddy/paper-alert/internal/mail"
	"github.com/pdiddy/paper-alert/internal/pipeline"
	"github.com/pdiddy/paper-alert/internal/source"
	"github.com/pdiddy/paper-alert/internal/translate"
	"github.com/pdiddy/paper-alert/pkg/types"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultRows          = 20
	defaultTopN          = 3
	defaultFromDate      = "2010-01-01"
	defaultAbstractLimit = 500
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full alert and email the digest",
	Long: `Run executes every configured query through the fetch, merge, rank, and
enrichment pipeline, renders the digest, emails it, and records the run in
the history database. A source failure is reported inside the digest rather
than aborting the run.`,
	RunE: runAlert,
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "print the digest instead of mailing it")

	rootCmd.AddCommand(runCmd)
}

// loadAlertConfig assembles the run configuration from the config file,
// environment, and secrets.
func loadAlertConfig() types.AlertConfig {
	viper.SetDefault("fetch.rows", defaultRows)
	viper.SetDefault("fetch.from_date", defaultFromDate)
	viper.SetDefault("pipeline.top_n", defaultTopN)
	viper.SetDefault("pipeline.abstract_char_limit", defaultAbstractLimit)
	viper.SetDefault("translation.api_url", translate.DefaultAPIURL)
	viper.SetDefault("translation.target_lang", "JA")
	viper.SetDefault("mail.smtp_host", "smtp.gmail.com")
	viper.SetDefault("mail.smtp_port", 587)
	viper.SetDefault("history.path", "paper-alert.db")

	contact := loadedSecrets.ContactEmail
	if contact == "" {
		contact = viper.GetString("fetch.contact_email")
	}

	cfg := types.AlertConfig{
		Queries: viper.GetStringSlice("queries"),
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   defaultTimeout,
				UserAgent: fmt.Sprintf("paper-alert/0.1 (mailto:%s)", contact),
			},
			Rows:         viper.GetInt("fetch.rows"),
			FromDate:     viper.GetString("fetch.from_date"),
			ContactEmail: contact,
			NCBIAPIKey:   loadedSecrets.NCBIAPIKey,
		},
		Pipeline: types.PipelineConfig{
			TopN:              viper.GetInt("pipeline.top_n"),
			AbstractCharLimit: viper.GetInt("pipeline.abstract_char_limit"),
		},
		Translation: types.TranslationConfig{
			HTTPConfig: types.HTTPConfig{Timeout: 30 * time.Second},
			APIURL:     viper.GetString("translation.api_url"),
			AuthKey:    loadedSecrets.DeepLAuthKey,
			TargetLang: viper.GetString("translation.target_lang"),
		},
		Mail: types.MailConfig{
			SMTPHost: viper.GetString("mail.smtp_host"),
			SMTPPort: viper.GetInt("mail.smtp_port"),
			Username: viper.GetString("mail.username"),
			Password: loadedSecrets.GmailAppPassword,
			To:       viper.GetString("mail.to"),
		},
		History: types.HistoryConfig{
			Path: viper.GetString("history.path"),
		},
	}
	return cfg
}

// buildPipeline wires the providers and enrichment into a Pipeline.
func buildPipeline(cfg types.AlertConfig, withTranslation bool) *pipeline.Pipeline {
	client := &http.Client{Timeout: cfg.Fetch.Timeout}

	ef := source.NewEFetch(client, cfg.Fetch.NCBIAPIKey, cfg.Fetch)

	var translateFn pipeline.TranslateFunc
	if withTranslation && cfg.Translation.Enabled() {
		tc := &translate.Client{
			HTTP: &http.Client{Timeout: cfg.Translation.Timeout},
			Cfg:  cfg.Translation,
		}
		translateFn = tc.Translate
	}

	return &pipeline.Pipeline{
		Sources: []pipeline.Source{
			&source.Crossref{Client: client},
			source.NewPubMed(client, cfg.Fetch.NCBIAPIKey),
		},
		Fetch:       cfg.Fetch,
		TopN:        cfg.Pipeline.TopN,
		EnrichFetch: ef.Fetch,
		Translate:   translateFn,
		Log:         os.Stderr,
	}
}

func runAlert(cmd *cobra.Command, args []string) error {
	cfg := loadAlertConfig()
	if len(cfg.Queries) == 0 {
		return fmt.Errorf("no queries configured: set \"queries\" in the config file")
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	p := buildPipeline(cfg, true)

	runAt := time.Now()
	results := make([]pipeline.QueryResult, 0, len(cfg.Queries))
	for _, q := range cfg.Queries {
		results = append(results, p.Run(cmd.Context(), q))
	}

	digest := mail.Digest{
		RunTime:            runAt,
		Sections:           results,
		TranslationEnabled: cfg.Translation.Enabled(),
		AbstractCharLimit:  cfg.Pipeline.AbstractCharLimit,
	}

	if dryRun {
		fmt.Fprintf(os.Stdout, "Subject: %s\n\n%s", digest.Subject(), digest.PlainBody())
	} else {
		if err := mail.Send(cfg.Mail, digest); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "digest sent to %s\n", cfg.Mail.To)
	}

	// History is bookkeeping; a failure here should not fail the run.
	store, err := history.Open(cfg.History)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open history: %v\n", err)
		return nil
	}
	defer store.Close()
	if _, err := store.RecordRun(runAt, results); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record run: %v\n", err)
	}
	return nil
}
