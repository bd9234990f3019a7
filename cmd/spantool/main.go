// Package main provides the entry point for the spantool CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/spanlib/cmd/spantool/commands"
	"github.com/Sumatoshi-tech/spanlib/pkg/version"
)

var (
	verbose    bool
	configPath string
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "spantool",
		Short: "Spantool - layered interval inspection tool",
		Long: `Spantool loads interval layer files and runs the spanlib
operations over them.

Commands:
  surface   Compose all layers into the visible decomposition
  setops    Set algebra over two layer files
  validate  Check a layer file against the layer schema
  render    Plot the layer stack and its surface as HTML`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			setupLogging()

			return commands.LoadConfig(configPath)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default spantool.yaml)")

	// Add commands.
	rootCmd.AddCommand(commands.NewSurfaceCommand())
	rootCmd.AddCommand(commands.NewSetopsCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "spantool %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
