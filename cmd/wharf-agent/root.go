package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/wharf-ops/wharf/internal/config"
)

var (
	verbose   bool
	yesFlag   bool
	localFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "wharf-agent",
	Short: "Runs scheduled backups for one host in a fleet",
	Long: `wharf-agent reads a shared catalog of hosts and backup blueprints,
decides which blueprints are due, and ships each one's archive to its
configured destinations over SSH.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.PersistentFlags().BoolVar(&localFlag, "local", false, "run every session through the local filesystem instead of SSH, for single-machine dry-runs")

	rootCmd.AddCommand(runCmd, planCmd, hostsCmd, versionCmd)

	cobra.OnInitialize(initLogging)
}

func initLogging() {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

// formatError renders a UserError with its suggestion, or falls back to the
// bare error text for anything else.
func formatError(err error) string {
	var userErr *config.UserError
	if errors.As(err, &userErr) {
		return userErr.Error()
	}
	return err.Error()
}

func printError(err error) {
	printErrorTo(os.Stderr, err)
}

func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}
