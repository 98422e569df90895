package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func signalCancelContext() (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(context.Background())
	sigCh := make(chan os.Signal, 1)
	stopCh := make(chan struct{})
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for {
			select {
			case sig := <-sigCh:
				cancel(fmt.Errorf("stopped by signal %s", sig.String()))
			case <-stopCh:
				return
			}
		}
	}()
	cleanup := func() {
		signal.Stop(sigCh)
		close(stopCh)
		cancel(nil)
	}
	return ctx, cleanup
}

func main() {
	ctx, cleanup := signalCancelContext()
	err := newRootCmd().ExecuteContext(ctx)
	cleanup()
	os.Exit(exitCode(err))
}

// exitCode prints err (unless the failures were already logged per file)
// and maps it to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, errFilesFailed) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return 1
}
