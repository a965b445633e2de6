package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pabpereza/docsite/internal/config"
	ferrors "github.com/pabpereza/docsite/internal/foundation/errors"
	"github.com/pabpereza/docsite/internal/logfields"
	"github.com/pabpereza/docsite/internal/metrics"
	"github.com/pabpereza/docsite/internal/observability"
	"github.com/pabpereza/docsite/internal/version"
)

// Global is shared state bound into every command.
type Global struct {
	Out      io.Writer
	Registry *prometheus.Registry
	Recorder metrics.Recorder
}

// NewGlobal returns Global writing to stdout with a fresh metrics registry.
func NewGlobal() *Global {
	reg := prometheus.NewRegistry()
	return &Global{
		Out:      os.Stdout,
		Registry: reg,
		Recorder: metrics.NewPrometheusRecorder(reg),
	}
}

// CLI definition & global flags. Every flag can default from a DOCSITE_*
// variable, which may come from a .env file.
type CLI struct {
	Config      string           `short:"c" help:"Override file (defaults to ./docsite.yaml when present)" env:"DOCSITE_CONFIG"`
	Verbose     bool             `short:"v" help:"Enable verbose logging" env:"DOCSITE_VERBOSE"`
	LogFormat   string           `name:"log-format" help:"Log format (text|json)" enum:"text,json" default:"text" env:"DOCSITE_LOG_FORMAT"`
	LogFile     string           `name:"log-file" help:"Also write logs to this rotated file" env:"DOCSITE_LOG_FILE"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics in textfile format to this path" env:"DOCSITE_METRICS_FILE"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render     RenderCmd     `cmd:"" help:"Render the generator configuration document"`
	Validate   ValidateCmd   `cmd:"" help:"Validate the configuration and the files it references"`
	Head       HeadCmd       `cmd:"" help:"Print the tags injected into every page head"`
	CheckLinks CheckLinksCmd `cmd:"" name:"check-links" help:"Check content links against the broken-link policies"`
	Watch      WatchCmd      `cmd:"" help:"Re-render and re-check whenever the configuration or content changes"`
	Init       InitCmd       `cmd:"" help:"Write an example override file"`

	logCloser io.Closer
}

// AfterApply runs after flag parsing; set up logging once.
func (c *CLI) AfterApply() error {
	logger, closer, err := observability.NewLogger(observability.LogOptions{
		Verbose: c.Verbose,
		Format:  c.LogFormat,
		File:    c.LogFile,
	})
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "set up logging").Build()
	}
	slog.SetDefault(logger)
	c.logCloser = closer
	return nil
}

// Close flushes metrics and releases the log file.
func (c *CLI) Close(g *Global) {
	if c.MetricsFile != "" {
		if err := metrics.WriteTextfile(c.MetricsFile, g.Registry); err != nil {
			slog.Warn("Failed to write metrics", logfields.Path(c.MetricsFile), logfields.Error(err))
		}
	}
	if c.logCloser != nil {
		_ = c.logCloser.Close()
	}
}

// ConfigPath resolves the override file to load.
func (c *CLI) ConfigPath() string {
	return config.Resolve(c.Config)
}

// NewParser builds the kong parser for cli with ctx bound for commands.
func NewParser(ctx context.Context, cli *CLI, extra ...kong.Option) (*kong.Kong, error) {
	opts := []kong.Option{
		kong.Name("docsite"),
		kong.Description("Configuration contract and tooling for the Pabpereza documentation site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.BindTo(ctx, (*context.Context)(nil)),
	}
	return kong.New(cli, append(opts, extra...)...)
}

// Execute parses args and runs the selected command.
func Execute(ctx context.Context, cli *CLI, g *Global, args []string, extra ...kong.Option) error {
	parser, err := NewParser(ctx, cli, extra...)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run(g, cli)
}

// yearClock returns a clock pinned to year, or time.Now when year is zero.
func yearClock(year int) func() time.Time {
	if year == 0 {
		return time.Now
	}
	return func() time.Time {
		now := time.Now()
		return time.Date(year, now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.UTC)
	}
}
