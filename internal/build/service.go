// Package build runs one evaluation of the site: load and validate the
// configuration, check file references, render the generator configuration
// and enforce the broken-link policies.
//
// All execution paths (the one-shot CLI commands and the watch daemon) route
// through Service, so every evaluation starts from scratch and produces the
// same result for the same inputs and clock.
package build

import (
	"time"

	"github.com/pabpereza/docsite/internal/generator"
	"github.com/pabpereza/docsite/internal/linkcheck"
	"github.com/pabpereza/docsite/internal/site"
)

// Request contains the inputs of one evaluation.
type Request struct {
	// ConfigPath is the override file; empty means built-in defaults.
	ConfigPath string

	// SiteRoot is the site directory. Preflight and link checks are skipped
	// when it is empty.
	SiteRoot string

	// Output is where the generator configuration is written. Nothing is
	// written when it is empty.
	Output string

	// Format of Output. Derived from the Output extension when empty.
	Format generator.Format

	Options Options
}

// Options toggles optional stages.
type Options struct {
	SkipPreflight bool
	SkipLinks     bool
	// CheckGit compares edit URLs with the origin remote during preflight.
	CheckGit bool
}

// Result is the outcome of one evaluation.
type Result struct {
	Status Status

	// Config is the validated configuration; nil when loading failed.
	Config *site.Config

	// Findings holds validation and preflight findings, warnings included.
	Findings site.Findings

	// Links is the link-check report; nil when the stage did not run.
	Links *linkcheck.Report

	// OutputPath is the written configuration file, if any.
	OutputPath string

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Status represents the outcome of an evaluation.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsSuccess reports whether the evaluation completed without a fatal error.
func (s Status) IsSuccess() bool { return s == StatusSuccess }
