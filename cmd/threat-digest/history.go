// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/threat-digest/internal/state"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously sent digests",
	Long:  `History lists processed reports from the state store, newest first.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 10, "maximum number of entries (0 for all)")
	historyCmd.Flags().Bool("json", false, "print entries as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := state.NewStore(pipelineConfig().State)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	digests, err := store.History(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(digests)
	}

	if len(digests) == 0 {
		fmt.Println("no digests sent yet")
		return nil
	}
	for _, d := range digests {
		fmt.Printf("%s  week %d, %d  %s\n", d.SentAt.Format("2006-01-02"), d.Week, d.Year, d.URL)
	}
	return nil
}
