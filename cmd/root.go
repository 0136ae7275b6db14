package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/axellelanca/coursecatalog/internal/config"
)

// configDir is the directory holding config.yaml, set by --config.
var configDir string

// RootCmd is the base command for the CLI application.
// Subcommands (run-server, migrate, create, stats, seed, check-links)
// register themselves from their own init() functions.
var RootCmd = &cobra.Command{
	Use:   "coursecatalog",
	Short: "An affiliate catalog of online courses",
	Long: `A catalog of third-party online courses with filtering, search and
click-tracking affiliate redirects, plus a token-protected admin area.`,
	SilenceUsage: true,
}

// Execute is the main entry point for the Cobra application.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// LoadConfig loads the configuration from the --config directory.
func LoadConfig() (*config.Config, error) {
	return config.LoadConfig(configDir)
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config", config.DefaultDir, "directory containing config.yaml")
}
