package cli

import (
	"os"
	"syscall"
	"testing"
	"time"
)

func TestSetupSignalHandler(t *testing.T) {
	ctx, stop := SetupSignalHandler()
	defer stop()

	// Context should not be cancelled initially
	select {
	case <-ctx.Done():
		t.Error("Context should not be cancelled initially")
	default:
		// Expected
	}

	if ctx.Done() == nil {
		t.Error("Context should have a Done channel")
	}
}

func TestSetupSignalHandlerStop(t *testing.T) {
	ctx, stop := SetupSignalHandler()

	stop()

	select {
	case <-ctx.Done():
		// Expected: stop cancels the context
	case <-time.After(100 * time.Millisecond):
		t.Error("Context should be cancelled after stop")
	}
}

func TestSetupSignalHandlerReceivesSignal(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping signal test in short mode")
	}

	// The registration is deliberately not released in this test: calling
	// stop while the signal may still be in flight would reinstate the
	// default handler and kill the test process.
	ctx, _ := SetupSignalHandler()

	go func() {
		time.Sleep(50 * time.Millisecond)
		p, _ := os.FindProcess(os.Getpid())
		_ = p.Signal(syscall.SIGTERM)
	}()

	select {
	case <-ctx.Done():
		// Expected: SIGTERM cancelled the context
	case <-time.After(2 * time.Second):
		// This might timeout on some systems, which is okay
		t.Skip("Signal not received within timeout (this is okay)")
	}
}

func TestContextCancellationFlow(t *testing.T) {
	// Test the typical stream shutdown flow: a consumer goroutine winds
	// down when the signal context is cancelled.
	ctx, stop := SetupSignalHandler()

	streamDone := make(chan bool)

	go func() {
		<-ctx.Done()
		streamDone <- true
	}()

	// Context should still be active
	select {
	case <-streamDone:
		t.Error("Stream should not be done yet")
	case <-time.After(10 * time.Millisecond):
		// Expected
	}

	stop()

	select {
	case <-streamDone:
		// Expected
	case <-time.After(100 * time.Millisecond):
		t.Error("Stream should wind down after cancellation")
	}
}
