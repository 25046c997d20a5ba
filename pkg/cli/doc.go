/*
Package cli provides shared helpers for the hermes command: output
formatting, exit-code mapping, and signal-aware cancellation.

Output Formatting:

Command results render as text or JSON. The -o flag value parses with
ParseFormat and selects a Formatter:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	formatter := cli.NewFormatter(format)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Exit Codes:

ExitCode maps the error a command returns to the process exit code, using
the provider error classification so that scripts can branch on the failure
category:

	if err := rootCmd.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}

Signal Handling:

SetupSignalHandler ties SIGINT and SIGTERM to context cancellation so a
streaming response stops cleanly at the chunk boundary:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
