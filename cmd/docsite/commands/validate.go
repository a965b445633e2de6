package commands

import (
	"context"
	"fmt"

	"github.com/pabpereza/docsite/internal/build"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	SiteDir  string `name:"site-dir" help:"Site directory holding the referenced files" default:"."`
	CheckGit bool   `name:"check-git" help:"Compare edit URLs with the origin remote"`
}

func (v *ValidateCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	svc := build.NewService(build.WithRecorder(g.Recorder))
	res, err := svc.Run(ctx, build.Request{
		ConfigPath: root.ConfigPath(),
		SiteRoot:   v.SiteDir,
		Options:    build.Options{SkipLinks: true, CheckGit: v.CheckGit},
	})
	for _, f := range res.Findings {
		fmt.Fprintln(g.Out, f.String())
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "configuration is valid (%d warning(s))\n", len(res.Findings.Warnings()))
	return nil
}
