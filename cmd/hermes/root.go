package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"mercator-hq/hermes/pkg/cli"
)

var (
	// Global flags
	cfgFile     string
	verbose     bool
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "hermes",
	Short: "Hermes - multi-provider LLM chat for the command line",
	Long: `Hermes talks to OpenAI, Anthropic, and AI gateway chat endpoints through
one provider abstraction.

It provides:
  - Streaming and non-streaming chat completions
  - Typed error classification with automatic retry and backoff
  - A merged model catalog with gateway discovery and TTL caching
  - Local SQLite chat history with retention pruning

For more information, visit: https://github.com/mercator-hq/hermes`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command under a signal-aware context. SIGINT and
// SIGTERM cancel the context so an in-flight stream stops cleanly and keeps
// the partial output it already printed. The process exit code follows the
// error classification in pkg/cli; an interrupted run exits 130 without an
// extra error line.
func Execute() {
	ctx, stop := cli.SetupSignalHandler()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while the command runs")
}
