// cmd/assistant/ask.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"web-assistant/internal/interactions"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question and print the result",
	Long: `Ask runs a single question through the same pipeline as POST /ask and
prints the response. Use --json to print the full result including details.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Bool("json", false, "print the full result as JSON")
	askCmd.Flags().Bool("record", false, "write the interaction to the configured sinks")
	askCmd.Flags().Duration("timeout", 2*time.Minute, "overall deadline for the answer")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question cannot be empty")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	record, _ := cmd.Flags().GetBool("record")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	app, err := newApplication(ctx, cfg, record)
	if err != nil {
		return err
	}
	defer app.close(context.Background())

	start := time.Now()
	result, err := app.orchestrator.Answer(ctx, question)
	if err != nil {
		return err
	}

	if record {
		app.recorder.Submit(interactions.NewRecord(
			"cli", question, result.Response, app.orchestrator.Model(), time.Since(start), result.Details,
		))
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Println(result.Response)
	if result.Details != nil {
		fmt.Fprintf(os.Stderr, "[%s via %s]\n", result.Details.Type, result.Details.FinalSource)
	}
	return nil
}
