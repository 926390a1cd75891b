// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/threat-digest/internal/digest"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the full digest pipeline once",
	Long: `Run locates the newest weekly report, downloads and summarizes it,
translates the summary, and sends the digest email. Reports that were
already digested are skipped; with --dry-run the pipeline stops right
before dispatch.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "execute the pipeline without sending the email")
	runCmd.Flags().Int("sentences", 0, "summary length in sentences (default 12)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		cfg.Mail.DryRun = true
	}
	if n, _ := cmd.Flags().GetInt("sentences"); n > 0 {
		cfg.Summary.Sentences = n
	}

	p, err := digest.New(cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer p.Close()

	_, err = p.Run(context.Background(), os.Stdout)
	return err
}
