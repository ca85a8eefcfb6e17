package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/law-makers/reviews/internal/cli"
	"github.com/law-makers/reviews/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, os.Args[1:]); err != nil {
		ui.Fprintln(os.Stderr, ui.Error, "Error: "+err.Error())
		stop()
		os.Exit(1)
	}
}
