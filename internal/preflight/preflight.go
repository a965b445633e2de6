// Package preflight verifies that the files a site configuration references
// exist under the site root before the generator is invoked.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	ferrors "github.com/pabpereza/docsite/internal/foundation/errors"
	"github.com/pabpereza/docsite/internal/logfields"
	"github.com/pabpereza/docsite/internal/observability"
	"github.com/pabpereza/docsite/internal/site"
)

// Stage is the log and metrics stage name for preflight checks.
const Stage = "preflight"

const originRemote = "origin"

// Options controls which checks run.
type Options struct {
	// Root is the site directory (the one holding docs/, blog/ and static/).
	Root string
	// CheckGit compares the edit URLs with the origin remote of the repository containing Root.
	CheckGit bool
}

type reference struct {
	field    string
	rel      string
	severity ferrors.ErrorSeverity
}

// Run checks the file references of cfg. Missing sidebar or stylesheet files
// are fatal; missing static assets and git mismatches are warnings. The error
// is non-nil when a fatal finding exists or the repository cannot be read.
func Run(ctx context.Context, cfg *site.Config, opts Options) (site.Findings, error) {
	ctx = observability.WithStage(ctx, Stage)
	root := opts.Root
	if root == "" {
		root = "."
	}

	refs := []reference{
		{"presets.classic.docs.sidebarPath", cfg.Preset.Docs.SidebarPath, ferrors.SeverityFatal},
		{"presets.classic.theme.customCss", cfg.Preset.Theme.CustomCSS, ferrors.SeverityFatal},
		{"favicon", staticPath(cfg.Identity.Favicon), ferrors.SeverityWarning},
		{"themeConfig.image", staticPath(cfg.Theme.Image), ferrors.SeverityWarning},
		{"organization.logo", staticPath(cfg.Organization.LogoPath), ferrors.SeverityWarning},
	}

	var findings site.Findings
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return findings, err
		}
		if ref.rel == "" {
			continue
		}
		p := filepath.Join(root, filepath.FromSlash(ref.rel))
		if _, err := os.Stat(p); err != nil {
			if !os.IsNotExist(err) {
				return findings, ferrors.WrapError(err, ferrors.CategoryFileSystem, "stat referenced file").
					WithContext("path", p).
					Build()
			}
			findings = append(findings, site.Finding{
				Field:    ref.field,
				Message:  fmt.Sprintf("file %s does not exist", ref.rel),
				Severity: ref.severity,
			})
		}
	}

	if opts.CheckGit {
		gitFindings, err := checkOrigin(root, cfg)
		if err != nil {
			return findings, err
		}
		findings = append(findings, gitFindings...)
	}

	for _, f := range findings.Warnings() {
		observability.WarnContext(ctx, f.Message, logfields.Field(f.Field))
	}
	if fatal := findings.Fatal(); len(fatal) > 0 {
		msgs := make([]string, 0, len(fatal))
		for _, f := range fatal {
			msgs = append(msgs, f.String())
		}
		return findings, ferrors.NotFoundError("referenced files are missing: "+strings.Join(msgs, "; ")).
			WithContext("root", root).
			Build()
	}
	return findings, nil
}

// staticPath maps a site-relative asset ("img/logo.png") to its source under static/.
func staticPath(asset string) string {
	if asset == "" || site.IsAbsoluteURL(asset) {
		return ""
	}
	return "static/" + strings.TrimLeft(asset, "/")
}

// checkOrigin warns when the docs or blog edit URL does not point at the
// repository that hosts the site.
func checkOrigin(root string, cfg *site.Config) (site.Findings, error) {
	var findings site.Findings
	warn := func(field, format string, args ...any) {
		findings = append(findings, site.Finding{Field: field, Message: fmt.Sprintf(format, args...), Severity: ferrors.SeverityWarning})
	}

	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		warn("git", "%s is not inside a git repository", root)
		return findings, nil
	}
	if err != nil {
		return nil, ferrors.GitError("open repository").WithCause(err).WithContext("root", root).Build()
	}

	remote, err := repo.Remote(originRemote)
	if errors.Is(err, git.ErrRemoteNotFound) {
		warn("git", "repository has no %q remote", originRemote)
		return findings, nil
	}
	if err != nil {
		return nil, ferrors.GitError("read origin remote").WithCause(err).Build()
	}

	origins := make(map[string]bool)
	for _, u := range remote.Config().URLs {
		if slug := repoSlug(u); slug != "" {
			origins[slug] = true
		}
	}

	for _, edit := range []struct{ field, url string }{
		{"presets.classic.docs.editUrl", cfg.Preset.Docs.EditURL},
		{"presets.classic.blog.editUrl", cfg.Preset.Blog.EditURL},
	} {
		if edit.url == "" {
			continue
		}
		if !origins[repoSlug(edit.url)] {
			warn(edit.field, "edit URL %s does not point at the %s remote %v", edit.url, originRemote, remote.Config().URLs)
		}
	}
	return findings, nil
}

// repoSlug reduces a remote or web URL to "host/owner/repo". It understands
// https URLs (including /tree/<branch>/ suffixes), ssh:// URLs and scp-like
// "git@host:owner/repo.git" remotes. It returns "" when raw has no owner/repo.
func repoSlug(raw string) string {
	raw = strings.TrimSpace(raw)
	var host, p string
	if at := strings.Index(raw, "@"); at >= 0 && !strings.Contains(raw, "://") {
		rest := raw[at+1:]
		colon := strings.Index(rest, ":")
		if colon < 0 {
			return ""
		}
		host, p = rest[:colon], rest[colon+1:]
	} else {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return ""
		}
		host, p = u.Hostname(), u.Path
	}

	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}
	return strings.ToLower(host + "/" + parts[0] + "/" + strings.TrimSuffix(parts[1], ".git"))
}
