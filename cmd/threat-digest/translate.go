// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/threat-digest/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [file]",
	Short: "Translate a text file into the target language",
	Long: `Translate reads plain text from a file (or stdin when the argument
is "-") and prints its translation. The default target is Spanish.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().String("to", "", "target language tag (default es)")

	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	text, err := readInput(args[0])
	if err != nil {
		return err
	}

	cfg := pipelineConfig().Translate
	if to, _ := cmd.Flags().GetString("to"); to != "" {
		cfg.TargetLanguage = to
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	tr := translate.New(&http.Client{Timeout: cfg.Timeout}, cfg)
	out, err := tr.Translate(context.Background(), text)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
