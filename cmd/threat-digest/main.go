// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the threat-digest CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/threat-digest/internal/secrets"
	"github.com/pdiddy/threat-digest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// secretToConfig maps .secrets/ key files onto config keys. Secrets sit
// below env vars and the config file in precedence.
var secretToConfig = map[string]string{
	"smtp-server":    "mail.server",
	"sender-email":   "mail.sender",
	"receiver-email": "mail.receiver",
	"email-password": "mail.password",
}

// rootCmd is the base command for the threat-digest CLI.
var rootCmd = &cobra.Command{
	Use:   "threat-digest",
	Short: "Weekly digest agent for the ECDC threat report",
	Long: `threat-digest turns the weekly ECDC Communicable Disease Threats Report
into a short translated email. A single run locates the newest report PDF,
downloads it, extracts and summarizes its text, translates the summary,
and sends the digest over SMTP.

Each pipeline stage is also a subcommand (locate, fetch, extract,
summarize, translate) so stages can be exercised in isolation; run
executes the whole pipeline and history lists past digests.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		for key, cfgKey := range secretToConfig {
			if v, ok := s[key]; ok {
				viper.SetDefault(cfgKey, v)
			}
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./threat-digest.yaml or ~/.config/threat-digest/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("threat-digest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "threat-digest"))
		}
	}

	viper.SetEnvPrefix("THREAT_DIGEST")
	viper.AutomaticEnv()

	// The deployment contract uses these exact names in CI secrets.
	viper.BindEnv("mail.server", "SMTP_SERVER")
	viper.BindEnv("mail.port", "SMTP_PORT")
	viper.BindEnv("mail.sender", "SENDER_EMAIL")
	viper.BindEnv("mail.receiver", "RECEIVER_EMAIL")
	viper.BindEnv("mail.password", "EMAIL_PASSWORD")
	viper.BindEnv("mail.dry_run", "DRY_RUN")
	viper.BindEnv("summary.sentences", "SUMMARY_SENTENCES")

	viper.SetDefault("mail.port", 465)
	viper.SetDefault("summary.sentences", 12)
	viper.SetDefault("state.dir", "state")
	viper.SetDefault("archive.digests_dir", "digests")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles stage configuration from viper. Stage
// constructors fill in the remaining defaults.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Locate: types.LocateConfig{
			HTTPConfig:        types.HTTPConfig{Timeout: viper.GetDuration("http.timeout")},
			ListingURL:        viper.GetString("locate.listing_url"),
			DirectURLTemplate: viper.GetString("locate.direct_url_template"),
			MaxWeeksBack:      viper.GetInt("locate.max_weeks_back"),
		},
		Fetch: types.FetchConfig{
			HTTPConfig:  types.HTTPConfig{Timeout: viper.GetDuration("http.timeout")},
			MaxPDFBytes: viper.GetInt64("fetch.max_pdf_bytes"),
		},
		Extract: types.ExtractConfig{
			Backends: extractBackends(viper.GetStringSlice("extract.backends")),
		},
		Summary: types.SummaryConfig{
			Sentences: viper.GetInt("summary.sentences"),
		},
		Translate: types.TranslateConfig{
			HTTPConfig:     types.HTTPConfig{Timeout: viper.GetDuration("http.timeout")},
			Endpoint:       viper.GetString("translate.endpoint"),
			TargetLanguage: viper.GetString("translate.target_language"),
		},
		Mail: types.MailConfig{
			Server:   viper.GetString("mail.server"),
			Port:     viper.GetInt("mail.port"),
			Sender:   viper.GetString("mail.sender"),
			Receiver: viper.GetString("mail.receiver"),
			Password: viper.GetString("mail.password"),
			DryRun:   viper.GetBool("mail.dry_run"),
		},
		State: types.StateConfig{
			StateDir: viper.GetString("state.dir"),
		},
		Archive: types.ArchiveConfig{
			DigestsDir: viper.GetString("archive.digests_dir"),
		},
	}
}

func extractBackends(names []string) []types.ExtractBackend {
	backends := make([]types.ExtractBackend, 0, len(names))
	for _, n := range names {
		backends = append(backends, types.ExtractBackend(n))
	}
	return backends
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
