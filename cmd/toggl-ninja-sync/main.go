package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/goevexx/toggl-invoiceninja-sync/internal/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, version); err != nil {
		stop()
		os.Exit(1)
	}
}
