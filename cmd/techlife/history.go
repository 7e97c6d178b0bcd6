// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/techlife/internal/archive"
)

var historyCmd = &cobra.Command{
	Use:   "history [technology]",
	Short: "List archived runs or the archived stages of a technology",
	Long: `History lists the stage and risk bucket a technology received in each
archived run, newest first. Without an argument it lists the archived runs
themselves. Runs are archived when archive.db_path (or --archive-db) is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath := viper.GetString("archive.db_path")
	if dbPath == "" {
		return fmt.Errorf("no archive configured: set archive.db_path or --archive-db")
	}

	store, err := archive.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	w := cmd.OutOrStdout()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if len(args) == 0 {
		runs, err := store.Runs(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return encodeJSON(w, runs)
		}
		return formatRuns(w, runs)
	}

	name := strings.TrimSpace(args[0])
	hist, err := store.History(cmd.Context(), name)
	if err != nil {
		return err
	}
	if jsonOutput {
		return encodeJSON(w, hist)
	}

	if len(hist) == 0 {
		fmt.Fprintf(w, "No archived runs mention %q.\n", name)
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-8s  %-12s  %s\n", "Recorded", "Stage", "Bucket", "Run")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, c := range hist {
		fmt.Fprintf(w, "%-20s  %-8s  %-12s  %s\n",
			c.RecordedAt.Format("2006-01-02 15:04:05"), c.Stage, c.Bucket, c.RunID)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(hist))
	return nil
}

func formatRuns(w io.Writer, runs []archive.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No archived runs.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-36s  %6s  %s\n", "Recorded", "Run", "Techs", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range runs {
		fmt.Fprintf(w, "%-20s  %-36s  %6d  %s\n",
			r.RecordedAt.Format("2006-01-02 15:04:05"), r.ID, r.Total, r.OutputPath)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	historyCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(historyCmd)
}
