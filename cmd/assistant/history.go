// cmd/assistant/history.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent interactions from the first configured sink",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of interactions to show")
	historyCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(cfg.Storage.Sinks) == 0 {
		return fmt.Errorf("no interaction sinks configured")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app, err := newApplication(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer app.close(context.Background())

	records, err := app.recorder.Recent(ctx, limit)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tDURATION\tQUESTION\tRESPONSE")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%dms\t%s\t%s\n",
			r.Timestamp.Local().Format(time.DateTime), r.DurationMS, clip(r.Question, 50), clip(r.Answer, 70))
	}
	return w.Flush()
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
