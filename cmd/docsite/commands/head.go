package commands

import (
	"github.com/pabpereza/docsite/internal/config"
	"github.com/pabpereza/docsite/internal/headtags"
)

// HeadCmd implements the 'head' command.
type HeadCmd struct{}

func (h *HeadCmd) Run(g *Global, root *CLI) error {
	cfg, _, err := config.Load(root.ConfigPath())
	if err != nil {
		return err
	}
	data, err := headtags.Render(cfg)
	if err != nil {
		return err
	}
	_, err = g.Out.Write(data)
	return err
}
