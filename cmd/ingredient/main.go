package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ingredient"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := ingredient.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	if err := newApp(cfg, os.Stdin, os.Stdout).Run(ctx, os.Args); err != nil {
		slog.Error("RESULT: Command failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
