// Cellarctl is a command-line client for Cellarly cellar servers.
//
// It provides an interactive wizard for sharing bottles with other users,
// plus direct commands for listing bottles and recipients, discovering
// servers on the local network, and watching the server's event feed.
//
// Usage:
//
//	cellarctl [command] [flags]
//
// Running without arguments launches the interactive share wizard.
// See 'cellarctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cellarly/cellarctl/internal/logging"
	"github.com/cellarly/cellarctl/internal/version"
)

func main() {
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cellarctl",
	Short: "Cellarly Cellar Client",
	Long: `A command-line client for Cellarly cellar servers.

Provides an interactive wizard for sharing bottles with fellow surfers,
plus direct commands for listing bottles and recipients, discovering
servers via mDNS, and watching the server's event feed.

If no command is specified, the interactive share wizard will launch
automatically.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeFromEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the share wizard when no subcommand provided
		return runShare(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cellarctl %s\n", version.Full())
	},
}
