// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/threat-digest/internal/summarize"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Produce an extractive summary of a text file",
	Long: `Summarize reads plain text from a file (or stdin when the argument
is "-") and prints a LexRank summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().Int("sentences", 0, "summary length in sentences (default 12)")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	text, err := readInput(args[0])
	if err != nil {
		return err
	}

	cfg := pipelineConfig().Summary
	n, _ := cmd.Flags().GetInt("sentences")

	summary, err := summarize.New(cfg).Summarize(text, n)
	if err != nil {
		return err
	}
	fmt.Println(summary)
	return nil
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
