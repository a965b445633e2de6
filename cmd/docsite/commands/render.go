package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pabpereza/docsite/internal/build"
	"github.com/pabpereza/docsite/internal/config"
	"github.com/pabpereza/docsite/internal/generator"
	"github.com/pabpereza/docsite/internal/logfields"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Output string `short:"o" help:"Write the document to this file (stdout when empty)"`
	Format string `short:"f" help:"Output format (json|yaml|js); defaults to the output extension, or json on stdout"`
	Year   int    `help:"Pin the copyright year instead of using the current date"`
}

func (r *RenderCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	var format generator.Format
	if r.Format != "" {
		f, err := generator.ParseFormat(r.Format)
		if err != nil {
			return err
		}
		format = f
	}

	if r.Output != "" {
		svc := build.NewService(build.WithClock(yearClock(r.Year)), build.WithRecorder(g.Recorder))
		res, err := svc.Run(ctx, build.Request{
			ConfigPath: root.ConfigPath(),
			Output:     r.Output,
			Format:     format,
		})
		if err != nil {
			return err
		}
		slog.Info("Configuration written", logfields.Path(res.OutputPath))
		return nil
	}

	cfg, findings, err := config.Load(root.ConfigPath())
	if err != nil {
		return err
	}
	for _, f := range findings.Warnings() {
		slog.Warn(f.Message, logfields.Field(f.Field))
	}
	if format == "" {
		format = generator.FormatJSON
	}
	data, err := generator.New(cfg,
		generator.WithClock(yearClock(r.Year)),
		generator.WithRecorder(g.Recorder),
	).Render(format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(g.Out, string(data))
	return err
}
