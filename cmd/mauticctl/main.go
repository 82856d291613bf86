package main

import (
	"fmt"
	"os"

	"github.com/natserract/mautic/cmd/mauticctl/commands"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	app := commands.NewApp(logger, os.Stdout, os.Stderr)

	rootCmd := &cobra.Command{
		Use:   "mauticctl",
		Short: "Mautic REST API client",
		Long: `A command-line client for the Mautic REST API.

Connection settings are read from MAUTIC_* environment variables or a .env
file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewGetCommand(app))
	rootCmd.AddCommand(commands.NewListCommand(app))
	rootCmd.AddCommand(commands.NewCreateCommand(app))
	rootCmd.AddCommand(commands.NewEditCommand(app))
	rootCmd.AddCommand(commands.NewDeleteCommand(app))
	rootCmd.AddCommand(commands.NewSubmitCommand(app))
	rootCmd.AddCommand(commands.NewAuthorizeURLCommand(app))

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
