// Package config loads the site configuration: the built-in defaults of
// site.Default, optionally overridden by a docsite.yaml file, then validated.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "github.com/pabpereza/docsite/internal/foundation/errors"
	"github.com/pabpereza/docsite/internal/site"
)

// DefaultFile is the override file picked up from the working directory
// when no path is given.
const DefaultFile = "docsite.yaml"

// Resolve returns the override file to load: path when set, otherwise
// DefaultFile if it exists, otherwise "" (defaults only).
func Resolve(path string) string {
	if path != "" {
		return path
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// Load builds the site configuration. An empty path yields the defaults.
// The returned findings include warnings; the error is non-nil when the file
// cannot be read or parsed, or when a fatal finding exists.
func Load(path string) (*site.Config, site.Findings, error) {
	cfg := site.Default()
	if path != "" {
		o, err := ReadOverride(path)
		if err != nil {
			return nil, nil, err
		}
		o.Apply(cfg)
	}
	findings := cfg.Validate()
	if err := findings.Err(); err != nil {
		return nil, findings, err
	}
	return cfg, findings, nil
}

// ReadOverride parses an override file. Unknown keys are rejected.
func ReadOverride(path string) (*Override, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ferrors.NotFoundError(fmt.Sprintf("configuration file not found: %s", path)).
			WithContext("path", path).
			Build()
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read configuration file").
			WithContext("path", path).
			Build()
	}
	return parseOverride(data, path)
}

func parseOverride(data []byte, path string) (*Override, error) {
	var o Override
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse configuration file").
			WithContext("path", path).
			Fatal().
			UserAction().
			Build()
	}
	if o.Version != "" && o.Version != CurrentVersion {
		return nil, ferrors.ConfigError(fmt.Sprintf("unsupported configuration version: %s (expected %s)", o.Version, CurrentVersion)).
			WithContext("path", path).
			Build()
	}
	return &o, nil
}
