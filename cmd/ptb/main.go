package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	c := newCLI(os.Stdin, os.Stdout, os.Stderr)
	err := newRootCommand(c).ExecuteContext(ctx)

	c.close()
	stop()

	if err != nil {
		// the status line already told the user what went wrong
		if !stderrors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
