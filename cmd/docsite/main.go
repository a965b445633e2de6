package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/pabpereza/docsite/cmd/docsite/commands"
	"github.com/pabpereza/docsite/internal/config"
	ferrors "github.com/pabpereza/docsite/internal/foundation/errors"
	"github.com/pabpereza/docsite/internal/observability"
)

func main() {
	// .env files only provide DOCSITE_* defaults for the flags below.
	if _, err := config.LoadEnv(); err != nil {
		slog.Warn("Failed to load .env file", slog.String("error", err.Error()))
	}

	ctx := observability.WithRunID(context.Background(), observability.NewRunID())
	cli := &commands.CLI{}
	g := commands.NewGlobal()

	err := commands.Execute(ctx, cli, g, os.Args[1:])
	cli.Close(g)
	if err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
