// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/threat-digest/internal/fetch"
	"github.com/pdiddy/threat-digest/internal/locate"
)

const rawDir = "raw"

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Download a report PDF",
	Long: `Fetch downloads a report PDF to digests/raw/. Without a URL argument
it locates the newest report first. Existing files are not re-downloaded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("out", "", "destination path (default digests/raw/<report>.pdf)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	ctx := context.Background()

	pdfURL := ""
	if len(args) == 1 {
		pdfURL = args[0]
	} else {
		lcfg := cfg.Locate
		if lcfg.Timeout <= 0 {
			lcfg.Timeout = 30 * time.Second
		}
		report, err := locate.New(&http.Client{Timeout: lcfg.Timeout}, lcfg).Latest(ctx)
		if err != nil {
			return err
		}
		pdfURL = report.URL
	}

	dest, _ := cmd.Flags().GetString("out")
	if dest == "" {
		name := "report.pdf"
		if week, year, ok := locate.ParseReportURL(pdfURL); ok {
			name = fmt.Sprintf("week-%d-%d.pdf", week, year)
		}
		dest = filepath.Join(cfg.Archive.DigestsDir, rawDir, name)
	}

	if _, err := os.Stat(dest); err == nil {
		fmt.Printf("skipped: %s (already exists)\n", dest)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	fcfg := cfg.Fetch
	if fcfg.Timeout <= 0 {
		fcfg.Timeout = 60 * time.Second
	}
	f := fetch.New(&http.Client{Timeout: fcfg.Timeout}, fcfg)
	if err := f.Download(ctx, pdfURL, dest); err != nil {
		return err
	}
	fmt.Printf("downloaded: %s\n", dest)
	return nil
}
