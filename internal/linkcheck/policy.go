package linkcheck

import (
	"context"
	"fmt"
	"log/slog"

	ferrors "github.com/pabpereza/docsite/internal/foundation/errors"
	"github.com/pabpereza/docsite/internal/logfields"
	"github.com/pabpereza/docsite/internal/metrics"
	"github.com/pabpereza/docsite/internal/observability"
	"github.com/pabpereza/docsite/internal/site"
)

// Stage is the metrics and log stage name for link checking.
const Stage = "links"

// Enforce applies the configured policies to report: ignore drops findings,
// log and warn report them at info and warning level, and throw logs them as
// errors and returns a fatal link error listing every thrown finding.
func (c *Checker) Enforce(ctx context.Context, cfg *site.Config, report *Report) error {
	var thrown []string
	for _, rule := range []struct {
		kind   Kind
		policy site.BrokenLinkPolicy
	}{
		{KindBrokenLink, cfg.OnBrokenLinks},
		{KindBrokenMarkdownLink, cfg.OnBrokenMarkdownLinks},
	} {
		findings := report.Of(rule.kind)
		if len(findings) == 0 || rule.policy == site.PolicyIgnore {
			continue
		}

		result := metrics.ResultWarning
		if rule.policy == site.PolicyThrow {
			result = metrics.ResultFatal
		}
		c.recorder.AddFindings(Stage, result, len(findings))

		for _, f := range findings {
			attrs := []slog.Attr{
				logfields.File(f.Source),
				logfields.Target(f.Target),
				logfields.Policy(string(rule.policy)),
				slog.String("kind", string(f.Kind)),
			}
			if f.Line > 0 {
				attrs = append(attrs, slog.Int("line", f.Line))
			}
			switch rule.policy {
			case site.PolicyLog:
				observability.InfoContext(ctx, "Unresolved link", attrs...)
			case site.PolicyWarn:
				observability.WarnContext(ctx, "Unresolved link", attrs...)
			case site.PolicyThrow:
				observability.ErrorContext(ctx, "Unresolved link", attrs...)
				thrown = append(thrown, f.String())
			}
		}
	}

	if len(thrown) == 0 {
		return nil
	}
	return ferrors.LinkError(fmt.Sprintf("%d broken link(s) found", len(thrown))).
		WithContext("links", thrown).
		Build()
}

// Run scans the site and enforces the link policies in one step.
func (c *Checker) Run(ctx context.Context, cfg *site.Config) (*Report, error) {
	ctx = observability.WithStage(ctx, Stage)
	report, err := c.Check(ctx, cfg)
	if err != nil {
		return nil, ferrors.FileSystemError("scan content tree").WithCause(err).
			WithContext("root", c.root).
			Build()
	}
	observability.DebugContext(ctx, "Link check scanned content",
		logfields.Count(report.Pages),
		slog.Int("links", report.Links),
		slog.Int("parsed", report.Parsed),
		slog.Int("cached", report.Cached))
	return report, c.Enforce(ctx, cfg, report)
}
