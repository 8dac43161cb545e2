// Package main provides the entry point for the egide CLI: the server
// process itself plus thin HTTP clients for operator and secret
// management.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// appVersion is reported by the server's health endpoint and the --version
// flag.
const appVersion = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:     "egide",
		Usage:    "Egide secrets vault",
		Version:  appVersion,
		Commands: getCommands(appVersion),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
