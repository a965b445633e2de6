package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pabpereza/docsite/internal/build"
	"github.com/pabpereza/docsite/internal/generator"
	"github.com/pabpereza/docsite/internal/logfields"
	"github.com/pabpereza/docsite/internal/metrics"
	"github.com/pabpereza/docsite/internal/observability"
	"github.com/pabpereza/docsite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	SiteDir  string        `name:"site-dir" help:"Site directory to watch" default:"."`
	Output   string        `short:"o" help:"Configuration file rewritten on every change" default:"docusaurus.config.mjs"`
	Format   string        `short:"f" help:"Output format (json|yaml|js); defaults to the output extension"`
	Debounce time.Duration `help:"Quiet period before re-evaluating after a change" default:"500ms"`
	Schedule string        `help:"Extra cron schedule for periodic re-evaluation" env:"DOCSITE_SCHEDULE"`
	CheckGit bool          `name:"check-git" help:"Compare edit URLs with the origin remote"`
}

func (w *WatchCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	var format generator.Format
	if w.Format != "" {
		f, err := generator.ParseFormat(w.Format)
		if err != nil {
			return err
		}
		format = f
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := build.NewService(build.WithRecorder(g.Recorder))
	req := build.Request{
		ConfigPath: root.ConfigPath(),
		SiteRoot:   w.SiteDir,
		Output:     w.Output,
		Format:     format,
		Options:    build.Options{CheckGit: w.CheckGit},
	}
	eval := func(ctx context.Context, trigger string) error {
		ctx = observability.WithRunID(ctx, observability.NewRunID())
		observability.DebugContext(ctx, "Evaluating", slog.String("trigger", trigger))
		_, err := svc.Run(ctx, req)
		if root.MetricsFile != "" {
			if werr := metrics.WriteTextfile(root.MetricsFile, g.Registry); werr != nil {
				slog.Warn("Failed to write metrics", logfields.Path(root.MetricsFile), logfields.Error(werr))
			}
		}
		return err
	}

	watcher, err := watch.New(watch.Options{
		ConfigPath: req.ConfigPath,
		SiteRoot:   w.SiteDir,
		Debounce:   w.Debounce,
		Schedule:   w.Schedule,
		Recorder:   g.Recorder,
	}, eval)
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}
