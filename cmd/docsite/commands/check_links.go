package commands

import (
	"context"
	"fmt"

	"github.com/pabpereza/docsite/internal/build"
	"github.com/pabpereza/docsite/internal/linkcheck"
)

// CheckLinksCmd implements the 'check-links' command.
type CheckLinksCmd struct {
	SiteDir string `name:"site-dir" help:"Site directory containing docs/, blog/ and src/pages/" default:"."`
	Routes  bool   `help:"Also print every known route"`
}

func (c *CheckLinksCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	svc := build.NewService(build.WithRecorder(g.Recorder))
	res, err := svc.Run(ctx, build.Request{
		ConfigPath: root.ConfigPath(),
		SiteRoot:   c.SiteDir,
		Options:    build.Options{SkipPreflight: true},
	})
	if res.Links != nil {
		printReport(g, res.Links, c.Routes)
	}
	return err
}

func printReport(g *Global, report *linkcheck.Report, routes bool) {
	if routes {
		for _, r := range report.Routes.Sorted() {
			fmt.Fprintln(g.Out, r)
		}
	}
	for _, kind := range []linkcheck.Kind{linkcheck.KindBrokenLink, linkcheck.KindBrokenMarkdownLink} {
		for _, f := range report.Of(kind) {
			fmt.Fprintf(g.Out, "%s: %s\n", kind, f)
		}
	}
	fmt.Fprintf(g.Out, "%d page(s), %d link(s), %d broken\n", report.Pages, report.Links, len(report.Findings))
}
