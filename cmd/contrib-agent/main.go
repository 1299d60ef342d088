package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "contrib-agent",
	Short: "Find, plan, and rehearse open source contributions",
	Long: `contrib-agent discovers repositories worth contributing to, analyzes
them for concrete contribution opportunities, drafts a prioritized plan,
and simulates the review lifecycle of a submission before you invest
real work.

The agent learns from your feedback: every recorded outcome adjusts the
preference weights used for scoring.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON instead of formatted output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

// setupLogger configures the global zerolog logger the way the long-running
// agent does: JSON to stdout, console writer in development.
func setupLogger(environment, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if environment == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if verbose {
		level = "debug"
	}
	if lv, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lv)
	}

	log.Logger = logger
	return logger
}

// cliLogger is the quiet logger used by one-shot commands so structured logs
// don't interleave with formatted output. --verbose turns it back on.
func cliLogger() zerolog.Logger {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.Nop()
}

func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
