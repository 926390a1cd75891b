// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/threat-digest/internal/locate"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Find the newest weekly report PDF",
	Long: `Locate probes the direct per-week PDF URL first, walking back a few
ISO weeks, and falls back to scraping the publications listing page.
It prints the URL of the newest report that validates as a PDF.`,
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().Bool("direct-only", false, "only probe direct URLs, skip the listing page")
	locateCmd.Flags().Bool("listing-only", false, "only scan the listing page, skip direct probing")
	locateCmd.Flags().Int("weeks-back", 0, "how many ISO weeks to walk back (default 4)")
	locateCmd.Flags().Bool("json", false, "print the result as JSON")

	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig().Locate
	if back, _ := cmd.Flags().GetInt("weeks-back"); back > 0 {
		cfg.MaxWeeksBack = back
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	l := locate.New(&http.Client{Timeout: cfg.Timeout}, cfg)

	ctx := context.Background()
	directOnly, _ := cmd.Flags().GetBool("direct-only")
	listingOnly, _ := cmd.Flags().GetBool("listing-only")

	var report *locate.Report
	var err error
	switch {
	case directOnly:
		report, err = l.Probe(ctx)
	case listingOnly:
		report, err = l.Scan(ctx)
	default:
		report, err = l.Latest(ctx)
	}
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	fmt.Printf("%s (week %d, %d)\n", report.URL, report.Week, report.Year)
	return nil
}
