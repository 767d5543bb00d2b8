// Package handlers contains the cobra command tree.
package handlers

import (
	"fmt"
	"os"

	"autopress/internal/config"
	"autopress/internal/logger"

	"github.com/spf13/cobra"
)

var cfgFile string

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "autopress",
		Short: "Automated article generation for your blog",
		Long: `Autopress - Automated Content Generation Pipeline

Generates complete blog articles (title, body, images, tags) from a stored
configuration, on demand or on a schedule.

Core workflows:
  • Serve: HTTP server with the authenticated generation trigger
  • Generate: run the pipeline once from the command line
  • Config: inspect and seed the stored generation configuration

Examples:
  # Start the HTTP server
  autopress serve

  # Trigger one generation run locally
  autopress generate

  # Inspect the stored configuration
  autopress config show`,
		Version: "1.2.0",
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .autopress.yaml)")

	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewConfigCmd())

	cobra.OnInitialize(initConfig)

	return rootCmd
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config: %v\n", err)
		// Don't exit - allow running with just environment variables
	}
	logger.Init()
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
