package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/practicetestbulk/client/internal/config"
	"codeberg.org/practicetestbulk/client/internal/logger"
	"codeberg.org/practicetestbulk/client/internal/tokenstore"
	"codeberg.org/practicetestbulk/client/internal/tui"
)

func main() {
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		fmt.Printf("error loading config: %v\n", err)
		os.Exit(1)
	}

	// the alt screen owns the terminal; logs go to a file or nowhere
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fmt.Printf("error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		logger.Init(cfg.Environment, f)
	} else {
		logger.Discard()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := tokenstore.New(ctx, cfg)
	if err != nil {
		fmt.Printf("error opening session store: %v\n", err)
		os.Exit(1)
	}

	entry := ""
	if len(os.Args) > 1 {
		entry = os.Args[1]
	}

	if err := tui.Run(ctx, tui.NewApp(ctx, cfg, store, entry)); err != nil {
		fmt.Printf("error running ptb: %v\n", err)
		stop()
		os.Exit(1) //nolint:gocritic // exitAfterDefer: log file is append-only
	}
}
