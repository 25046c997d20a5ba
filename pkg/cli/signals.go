package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context that is canceled on SIGINT or
// SIGTERM, plus a stop function releasing the signal registration. Callers
// should defer stop: once it runs, further signals get the default handler
// again, so a second interrupt terminates the process instead of waiting on
// a shutdown that may be stuck.
func SetupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
