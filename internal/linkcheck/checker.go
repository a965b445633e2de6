// Package linkcheck enforces the broken-link policies of the site against its
// content tree. It derives the routes the generator will publish from docs,
// blog posts, pages and static files, then resolves every markdown link and
// navbar/footer destination against them.
package linkcheck

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/inful/mdfp"

	"github.com/pabpereza/docsite/internal/metrics"
	"github.com/pabpereza/docsite/internal/site"
)

// Kind separates findings by the policy that governs them.
type Kind string

const (
	// KindBrokenLink is an internal route that no page publishes (onBrokenLinks).
	KindBrokenLink Kind = "broken-link"
	// KindBrokenMarkdownLink is a link to a .md/.mdx file that does not exist (onBrokenMarkdownLinks).
	KindBrokenMarkdownLink Kind = "broken-markdown-link"
)

// ConfigSource is the Finding.Source used for navbar and footer destinations.
const ConfigSource = "themeConfig"

type section string

const (
	sectionDocs  section = "docs"
	sectionBlog  section = "blog"
	sectionPages section = "src/pages"
)

var markdownExts = []string{".md", ".mdx"}

var pageExts = []string{".md", ".mdx", ".js", ".jsx", ".ts", ".tsx"}

// Finding is one unresolved link.
type Finding struct {
	Source string // file relative to the site root, or ConfigSource
	Line   int
	Target string
	Kind   Kind
}

func (f Finding) String() string {
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d -> %s", f.Source, f.Line, f.Target)
	}
	return fmt.Sprintf("%s -> %s", f.Source, f.Target)
}

// Report is the result of one scan of the content tree.
type Report struct {
	Routes   RouteSet
	Findings []Finding
	Pages    int
	Links    int
	Parsed   int // markdown files parsed during this scan
	Cached   int // markdown files reused from the fingerprint cache
}

// Of returns the findings of the given kind in discovery order.
func (r *Report) Of(kind Kind) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Option configures a Checker.
type Option func(*Checker)

// WithRecorder sets the metrics recorder used by Enforce.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Checker) {
		if r != nil {
			c.recorder = r
		}
	}
}

// Checker scans a site root for broken links. A Checker keeps per-file
// extraction results keyed by content fingerprint, so repeated scans only
// reparse changed files. It is safe for concurrent use.
type Checker struct {
	root     string
	recorder metrics.Recorder

	mu    sync.Mutex
	cache map[string]cachedPage
}

type cachedPage struct {
	fingerprint string
	meta        pageMeta
	links       []rawLink
}

// page is a routable source file.
type page struct {
	rel     string // slash path relative to the site root
	section section
	route   string
	meta    pageMeta
	links   []rawLink
}

// New creates a Checker for the site rooted at root.
func New(root string, opts ...Option) *Checker {
	c := &Checker{
		root:     root,
		recorder: metrics.NoopRecorder{},
		cache:    make(map[string]cachedPage),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Root returns the site root the checker scans.
func (c *Checker) Root() string { return c.root }

// Check scans the content tree, derives the published routes and classifies
// every internal link. It does not apply policies; see Enforce.
func (c *Checker) Check(ctx context.Context, cfg *site.Config) (*Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	report := &Report{Routes: make(RouteSet)}
	seen := make(map[string]struct{})

	var pages []*page
	for _, sec := range []section{sectionDocs, sectionBlog, sectionPages} {
		found, err := c.scanSection(ctx, sec, report, seen)
		if err != nil {
			return nil, err
		}
		pages = append(pages, found...)
	}
	for rel := range c.cache {
		if _, ok := seen[rel]; !ok {
			delete(c.cache, rel)
		}
	}

	if err := c.collectRoutes(cfg, pages, report.Routes); err != nil {
		return nil, err
	}
	report.Pages = len(pages)

	mdFiles := make(map[string]struct{})
	for _, p := range pages {
		if slices.Contains(markdownExts, strings.ToLower(path.Ext(p.rel))) {
			mdFiles[p.rel] = struct{}{}
		}
	}

	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, l := range p.links {
			report.Links++
			if kind, broken := c.classify(p, l.Destination, report.Routes, mdFiles, cfg.Identity.BaseURL); broken {
				report.Findings = append(report.Findings, Finding{Source: p.rel, Line: l.Line, Target: l.Destination, Kind: kind})
			}
		}
	}

	for _, dest := range cfg.InternalDestinations() {
		report.Links++
		if !report.Routes.Has(routePath(dest, cfg.Identity.BaseURL)) {
			report.Findings = append(report.Findings, Finding{Source: ConfigSource, Target: dest, Kind: KindBrokenLink})
		}
	}
	return report, nil
}

// scanSection walks one content directory. Files and directories starting
// with "_" are partials and never published.
func (c *Checker) scanSection(ctx context.Context, sec section, report *Report, seen map[string]struct{}) ([]*page, error) {
	dir := filepath.Join(c.root, filepath.FromSlash(string(sec)))
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var pages []*page
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), "_") && p != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(p))
		if sec == sectionPages {
			if !slices.Contains(pageExts, ext) {
				return nil
			}
		} else if !slices.Contains(markdownExts, ext) {
			return nil
		}

		rootRel, err := filepath.Rel(c.root, p)
		if err != nil {
			return err
		}
		secRel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		pg := &page{rel: filepath.ToSlash(rootRel), section: sec}

		if slices.Contains(markdownExts, ext) {
			seen[pg.rel] = struct{}{}
			if err := c.load(p, pg, report); err != nil {
				return err
			}
			if pg.meta.Draft {
				return nil
			}
		}

		rel := filepath.ToSlash(secRel)
		switch sec {
		case sectionDocs:
			pg.route = docRoute(rel, pg.meta)
		case sectionBlog:
			pg.route = blogPostRoute(rel, pg.meta)
		case sectionPages:
			pg.route = pageRoute(rel)
		}
		pages = append(pages, pg)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", sec, err)
	}
	return pages, nil
}

// load reads a markdown file and fills meta and links, reusing the cached
// extraction when the fingerprint is unchanged.
func (c *Checker) load(file string, pg *page, report *Report) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	fm, body, fmLines, err := splitFrontmatter(content)
	if err != nil {
		return fmt.Errorf("%s: %w", pg.rel, err)
	}
	fingerprint := mdfp.CalculateFingerprintFromParts(string(fm), string(body))

	if cached, ok := c.cache[pg.rel]; ok && cached.fingerprint == fingerprint {
		pg.meta = cached.meta
		pg.links = cached.links
		report.Cached++
		return nil
	}

	meta, err := parseMeta(fm)
	if err != nil {
		return fmt.Errorf("%s: %w", pg.rel, err)
	}
	pg.meta = meta
	pg.links = extractLinks(body, fmLines)
	c.cache[pg.rel] = cachedPage{fingerprint: fingerprint, meta: pg.meta, links: pg.links}
	report.Parsed++
	return nil
}

// collectRoutes adds page routes, listing routes, tag routes, plugin routes
// and static files to routes.
func (c *Checker) collectRoutes(cfg *site.Config, pages []*page, routes RouteSet) error {
	var posts, docs int
	for _, p := range pages {
		routes.add(p.route)
		switch p.section {
		case sectionDocs:
			docs++
			for _, tag := range p.meta.tagLabels() {
				routes.add(tagRoute(docsRoute, tag))
			}
		case sectionBlog:
			posts++
			for _, tag := range p.meta.tagLabels() {
				routes.add(tagRoute(blogRoute, tag))
			}
		}
	}
	if docs > 0 {
		routes.add(docsRoute + "/tags")
	}
	if posts > 0 {
		for _, r := range blogListingRoutes(posts, cfg.Preset.Blog.PostsPerPage) {
			routes.add(r)
		}
	}
	if slices.Contains(cfg.Plugins, lunrSearchPlugin) {
		routes.add("/search")
	}

	staticDir := filepath.Join(c.root, "static")
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		return nil
	}
	err := filepath.WalkDir(staticDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(staticDir, p)
		if err != nil {
			return err
		}
		routes.add("/" + filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan static: %w", err)
	}
	return nil
}

// classify reports whether dest, found in p, is broken and under which kind.
// External URLs, anchors and query-only links are never broken.
func (c *Checker) classify(p *page, dest string, routes RouteSet, mdFiles map[string]struct{}, baseURL string) (Kind, bool) {
	dest = strings.TrimSpace(dest)
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "//") {
		return "", false
	}
	u, err := url.Parse(dest)
	if err != nil {
		return KindBrokenLink, true
	}
	if u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	target := u.Path

	if slices.Contains(markdownExts, strings.ToLower(path.Ext(target))) {
		for _, candidate := range c.markdownCandidates(p, target) {
			if _, ok := mdFiles[candidate]; ok {
				return "", false
			}
		}
		return KindBrokenMarkdownLink, true
	}

	if !strings.HasPrefix(target, "/") {
		asset := path.Join(path.Dir(p.rel), target)
		if info, err := os.Stat(filepath.Join(c.root, filepath.FromSlash(asset))); err == nil && !info.IsDir() {
			return "", false
		}
		base := &url.URL{Path: p.route}
		target = base.ResolveReference(&url.URL{Path: target}).Path
	} else {
		target = routePath(target, baseURL)
	}
	if routes.Has(target) {
		return "", false
	}
	return KindBrokenLink, true
}

// markdownCandidates lists the site-relative files a markdown link may refer
// to. Absolute links resolve against the section directory and the site root.
func (c *Checker) markdownCandidates(p *page, target string) []string {
	if strings.HasPrefix(target, "/") {
		return []string{
			path.Join(string(p.section), strings.TrimPrefix(target, "/")),
			strings.TrimPrefix(path.Clean(target), "/"),
		}
	}
	return []string{path.Join(path.Dir(p.rel), target)}
}

// routePath strips the query, fragment and base URL from an absolute destination.
func routePath(dest, baseURL string) string {
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		dest = dest[:i]
	}
	if baseURL != "" && baseURL != "/" {
		prefix := "/" + strings.Trim(baseURL, "/")
		if dest == prefix || strings.HasPrefix(dest, prefix+"/") {
			dest = strings.TrimPrefix(dest, prefix)
		}
	}
	return normalizeRoute(dest)
}
