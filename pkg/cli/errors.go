package cli

import (
	"context"
	"errors"
	"fmt"

	"mercator-hq/hermes/pkg/config"
	"mercator-hq/hermes/pkg/providers"
)

// Process exit codes. Scripts branch on these values, so they are part of
// the command-line contract and must not be renumbered.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitError indicates an unclassified failure.
	ExitError = 1
	// ExitUsage indicates invalid arguments or a request the local
	// validation rejected before any provider was contacted.
	ExitUsage = 2
	// ExitConfig indicates a configuration file problem.
	ExitConfig = 3
	// ExitAuth indicates a rejected or missing credential.
	ExitAuth = 4
	// ExitUnavailable indicates a provider network, server, or throttling
	// failure.
	ExitUnavailable = 5
	// ExitTimeout indicates a request that exceeded its time bound.
	ExitTimeout = 6
	// ExitInterrupted indicates cancellation by SIGINT, following the
	// 128+signal shell convention.
	ExitInterrupted = 130
)

// ExitCode maps an error to the process exit code for it. Cancellation is
// checked before classification because a canceled context is the user
// interrupting, not a provider failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}

	var confErr *ConfigError
	var provConfErr *providers.ConfigError
	var valErr config.ValidationError
	if errors.As(err, &confErr) || errors.As(err, &provConfErr) || errors.As(err, &valErr) {
		return ExitConfig
	}

	switch providers.Classify(err).Code {
	case providers.CodeValidation, providers.CodeModel, providers.CodeContextLength:
		return ExitUsage
	case providers.CodeAuth:
		return ExitAuth
	case providers.CodeNetwork, providers.CodeServer, providers.CodeRateLimit:
		return ExitUnavailable
	case providers.CodeTimeout:
		return ExitTimeout
	default:
		return ExitError
	}
}

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}
