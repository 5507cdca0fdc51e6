// cmd/assistant/main.go
package main

import (
	"os"

	"github.com/spf13/cobra"

	"web-assistant/internal/common/config"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Conversational web assistant",
	Long: `assistant answers free-form questions over HTTP. Each question is routed
through weather, routing and web-search classifiers; a match is answered from
live data, everything else from general model knowledge.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./configs/config.yaml merged with config.<APP_ENVIRONMENT>.yaml)")
}

// loadConfig honours --config and falls back to the layered lookup.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
