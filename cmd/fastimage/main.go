// Package main is the entry point for the fastimage CLI
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"fastimage/internal/cli"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx, version, os.Args[1:], os.Stdout, os.Stderr)
	if err != nil && !errors.Is(err, cli.ErrAnalysisFailed) {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
	}
	stop()
	os.Exit(cli.ExitCode(err))
}
