// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/threat-digest/internal/extract"
	"github.com/pdiddy/threat-digest/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf]",
	Short: "Extract text from a report PDF",
	Long: `Extract prints the plain text of a PDF to stdout. The native parser
runs first; pdftotext is the fallback. Use --backend to force one.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("backend", "", "extraction backend: native or pdftotext")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig().Extract
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Backends = []types.ExtractBackend{types.ExtractBackend(backend)}
	}

	warn := func(format string, a ...any) {
		fmt.Fprintf(os.Stderr, "warning: "+format, a...)
	}
	chain, err := extract.FromConfig(cfg, warn)
	if err != nil {
		return err
	}

	text, err := chain.Extract(context.Background(), args[0])
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
