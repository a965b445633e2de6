package build

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/pabpereza/docsite/internal/config"
	ferrors "github.com/pabpereza/docsite/internal/foundation/errors"
	"github.com/pabpereza/docsite/internal/generator"
	"github.com/pabpereza/docsite/internal/linkcheck"
	"github.com/pabpereza/docsite/internal/logfields"
	"github.com/pabpereza/docsite/internal/metrics"
	"github.com/pabpereza/docsite/internal/observability"
	"github.com/pabpereza/docsite/internal/preflight"
)

const stageConfig = "config"

// Service evaluates the site. Link checkers are kept per site root so that
// repeated evaluations reuse their fingerprint caches.
type Service struct {
	now      func() time.Time
	recorder metrics.Recorder

	mu       sync.Mutex
	checkers map[string]*linkcheck.Checker
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for the copyright year.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRecorder sets the metrics recorder shared by every stage.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewService creates a Service with the system clock and no metrics.
func NewService(opts ...Option) *Service {
	s := &Service{
		now:      time.Now,
		recorder: metrics.NoopRecorder{},
		checkers: make(map[string]*linkcheck.Checker),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one evaluation. The result is always non-nil; the error is
// the first fatal failure.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	result := &Result{StartTime: s.now()}
	finish := func(status Status, err error) (*Result, error) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = StatusCancelled
		}
		result.Status = status
		result.EndTime = s.now()
		result.Duration = result.EndTime.Sub(result.StartTime)
		return result, err
	}

	// Stage 1: configuration
	stageCtx := observability.WithStage(ctx, stageConfig)
	cfg, findings, err := config.Load(req.ConfigPath)
	result.Findings = findings
	s.recordFindings(stageConfig, len(findings.Warnings()), len(findings.Fatal()))
	for _, f := range findings.Warnings() {
		observability.WarnContext(stageCtx, f.Message, logfields.Field(f.Field))
	}
	if err != nil {
		return finish(StatusFailed, err)
	}
	result.Config = cfg
	observability.DebugContext(stageCtx, "Configuration loaded", logfields.Path(req.ConfigPath))

	// Stage 2: preflight
	if req.SiteRoot != "" && !req.Options.SkipPreflight {
		pf, err := preflight.Run(ctx, cfg, preflight.Options{Root: req.SiteRoot, CheckGit: req.Options.CheckGit})
		result.Findings = append(result.Findings, pf...)
		s.recordFindings(preflight.Stage, len(pf.Warnings()), len(pf.Fatal()))
		if err != nil {
			return finish(StatusFailed, err)
		}
	}

	// Stage 3: render
	if req.Output != "" {
		format := req.Format
		if format == "" {
			if format, err = generator.FormatFromPath(req.Output); err != nil {
				return finish(StatusFailed, err)
			}
		}
		gen := generator.New(cfg, generator.WithClock(s.now), generator.WithRecorder(s.recorder))
		if err := gen.WriteFile(ctx, req.Output, format); err != nil {
			return finish(StatusFailed, err)
		}
		result.OutputPath = req.Output
	}

	// Stage 4: links
	if req.SiteRoot != "" && !req.Options.SkipLinks {
		checker, err := s.checker(req.SiteRoot)
		if err != nil {
			return finish(StatusFailed, err)
		}
		report, err := checker.Run(ctx, cfg)
		result.Links = report
		if err != nil {
			return finish(StatusFailed, err)
		}
	}

	res, _ := finish(StatusSuccess, nil)
	observability.InfoContext(ctx, "Evaluation complete",
		logfields.DurationMS(float64(res.Duration.Milliseconds())),
		slog.Int("warnings", len(res.Findings.Warnings())))
	return res, nil
}

func (s *Service) recordFindings(stage string, warnings, fatal int) {
	if warnings > 0 {
		s.recorder.AddFindings(stage, metrics.ResultWarning, warnings)
	}
	if fatal > 0 {
		s.recorder.AddFindings(stage, metrics.ResultFatal, fatal)
	}
}

func (s *Service) checker(root string) (*linkcheck.Checker, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve site root").
			WithContext("root", root).
			Build()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.checkers[abs]
	if !ok {
		c = linkcheck.New(abs, linkcheck.WithRecorder(s.recorder))
		s.checkers[abs] = c
	}
	return c, nil
}
