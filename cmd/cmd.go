package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/configured/adobe-launch-analyzer/internal/pkg/config"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/log"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "launch-analyzer",
	Short: "Recover tag-management containers embedded in deployed scripts",
	Long: `launch-analyzer recovers the configuration container (rules, data
elements, extensions) that a tag-management runtime embeds in its
deployed script bundles, and discovers all such bundles reachable from a
starting URL.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Initialize config here, after cobra has parsed command line flags
		if err := config.InitConfig(); err != nil {
			fmt.Printf("error initializing config: %s", err)
			os.Exit(1)
		}

		cfg = config.Get()

		if err := log.Start(&log.Config{
			StdoutLevel: cfg.StdoutLogLevel,
			NoStdout:    cfg.NoStdoutLogging,
			JSON:        cfg.LogJSON,
			File:        cfg.LogFile,
			FileLevel:   cfg.LogFileLevel,
		}); err != nil {
			fmt.Printf("error initializing logging: %s", err)
			os.Exit(1)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Run the root command
func Run() error {
	defer log.Stop()

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/launch-analyzer-config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "stdout log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "output logs in JSON")
	rootCmd.PersistentFlags().Bool("no-stdout-log", false, "disable stdout logging")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file as well")
	rootCmd.PersistentFlags().String("log-file-level", "info", "log file level (debug, info, warn, error)")

	config.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(discoverCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd.Execute()
}
