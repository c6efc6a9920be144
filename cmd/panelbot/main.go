// Command panelbot runs the panel bot and inspects its local data.
//
// Usage:
//
//	export DISCORD_TOKEN="your-bot-token"
//	panelbot run --config panelbot.toml
//
// The embed templates and the per-guild configuration can be inspected offline:
//
//	panelbot templates list
//	panelbot templates render panel --param author=Sky
//	panelbot config view --guild 123456789012345678
package main

import (
	"os"

	"github.com/oklahomer/go-kasumi/logger"
	"github.com/skylounge/panelbot/settings"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:           "panelbot <command>",
	Short:         "Discord bot posting configurable embed panels",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			logger.SetOutputLevel(logger.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", settings.DefaultPath, "settings file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
