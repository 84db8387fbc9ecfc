package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deskhound/itglue-go/pkg/logging"
)

var (
	version = "1.0.0"
	commit  = "dev"
	date    = "unknown"
)

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "itglue",
	Short: "IT Glue API client",
	Long: `itglue is a command line client for the IT Glue documentation platform.

It authenticates with an API key or user credentials, retrieves complete
resource collections with automatic pagination and retry, and prints the
results as JSON.

Examples:
  itglue orgs list
  itglue orgs list --name 'Acme'
  itglue configs list --org-id 42
  itglue assets list --type-id 9 --org-id 42
  itglue version`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := logging.DefaultConfig()
		cfg.Level = logging.LogLevel(logLevel)
		cfg.Pretty = true
		logging.Setup(cfg)
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("itglue v%s\n", version)
		fmt.Println("Use 'itglue --help' for available commands")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $HOME/.itglue.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (verbose, info, warning, error)")

	rootCmd.AddCommand(orgsCmd)
	rootCmd.AddCommand(configsCmd)
	rootCmd.AddCommand(assetsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
