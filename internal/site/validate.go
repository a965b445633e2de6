package site

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	ferrors "github.com/pabpereza/docsite/internal/foundation/errors"
)

var (
	gtmPattern     = regexp.MustCompile(`^GTM-[A-Z0-9]+$`)
	gtagPattern    = regexp.MustCompile(`^G-[A-Z0-9]+$`)
	adSensePattern = regexp.MustCompile(`^ca-pub-[0-9]+$`)
)

var prismThemes = []string{
	"dracula", "duotoneDark", "duotoneLight", "github", "gruvboxMaterialDark",
	"gruvboxMaterialLight", "jettwaveDark", "jettwaveLight", "nightOwl",
	"nightOwlLight", "oceanicNext", "okaidia", "oneDark", "oneLight",
	"palenight", "shadesOfPurple", "synthwave84", "ultramin", "vsDark", "vsLight",
}

var headTagNames = []string{"base", "link", "meta", "noscript", "script", "style"}

// Finding is one validation result for a configuration field.
type Finding struct {
	Field    string
	Message  string
	Severity ferrors.ErrorSeverity
}

func (f Finding) String() string {
	return f.Field + ": " + f.Message
}

// Findings is the outcome of Validate.
type Findings []Finding

// Fatal returns the findings that make the configuration unusable.
func (fs Findings) Fatal() Findings {
	return fs.filter(ferrors.SeverityFatal)
}

// Warnings returns findings that are reported but do not stop the build.
func (fs Findings) Warnings() Findings {
	return fs.filter(ferrors.SeverityWarning)
}

func (fs Findings) filter(sev ferrors.ErrorSeverity) Findings {
	var out Findings
	for _, f := range fs {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

// Err returns a validation error listing every fatal finding, or nil.
func (fs Findings) Err() error {
	fatal := fs.Fatal()
	if len(fatal) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(fatal))
	fields := make([]string, 0, len(fatal))
	for _, f := range fatal {
		msgs = append(msgs, f.String())
		fields = append(fields, f.Field)
	}
	return ferrors.ValidationError("invalid site configuration: " + strings.Join(msgs, "; ")).
		WithContext("fields", fields).
		Build()
}

type validator struct {
	findings Findings
}

func (v *validator) fatal(field, format string, args ...any) {
	v.findings = append(v.findings, Finding{Field: field, Message: fmt.Sprintf(format, args...), Severity: ferrors.SeverityFatal})
}

func (v *validator) warn(field, format string, args ...any) {
	v.findings = append(v.findings, Finding{Field: field, Message: fmt.Sprintf(format, args...), Severity: ferrors.SeverityWarning})
}

// Validate checks the structural invariants of the configuration. It never
// touches the filesystem; see the preflight package for file references.
func (c *Config) Validate() Findings {
	v := &validator{}
	v.identity(c.Identity)
	v.policies(c)
	v.i18n(c.I18n)
	v.preset(c.Preset)
	v.navbar(c.Theme.Navbar)
	v.footer(c.Theme.Footer)
	v.theme(c.Theme)
	v.analytics(c.Analytics)
	if strings.TrimSpace(c.Organization.Name) == "" {
		v.fatal("organization.name", "must not be empty")
	}
	for i, p := range c.Plugins {
		if strings.TrimSpace(p) == "" {
			v.fatal(fmt.Sprintf("plugins[%d]", i), "must not be empty")
		}
	}
	for i, t := range c.Themes {
		if strings.TrimSpace(t) == "" {
			v.fatal(fmt.Sprintf("themes[%d]", i), "must not be empty")
		}
	}
	return v.findings
}

func (v *validator) identity(id Identity) {
	if strings.TrimSpace(id.Title) == "" {
		v.fatal("title", "must not be empty")
	}
	u, err := url.Parse(id.URL)
	switch {
	case err != nil:
		v.fatal("url", "unparsable: %v", err)
	case u.Scheme != "http" && u.Scheme != "https":
		v.fatal("url", "must be an absolute http(s) URL, got %q", id.URL)
	case u.Host == "":
		v.fatal("url", "missing host in %q", id.URL)
	case u.Path != "" && u.Path != "/":
		v.fatal("url", "must not contain a path (use baseUrl), got %q", u.Path)
	}
	if !strings.HasPrefix(id.BaseURL, "/") || !strings.HasSuffix(id.BaseURL, "/") {
		v.fatal("baseUrl", "must start and end with '/', got %q", id.BaseURL)
	}
	if _, err := url.ParseRequestURI(id.SiteRoot()); err != nil {
		v.fatal("baseUrl", "url and baseUrl do not compose into a valid URL: %v", err)
	}
	if strings.TrimSpace(id.Favicon) == "" {
		v.warn("favicon", "no favicon configured")
	}
}

func (v *validator) policies(c *Config) {
	if !c.OnBrokenLinks.Valid() {
		v.fatal("onBrokenLinks", "unknown policy %q", c.OnBrokenLinks)
	}
	if !c.OnBrokenMarkdownLinks.Valid() {
		v.fatal("onBrokenMarkdownLinks", "unknown policy %q", c.OnBrokenMarkdownLinks)
	}
}

func (v *validator) i18n(cfg I18n) {
	if len(cfg.Locales) == 0 {
		v.fatal("i18n.locales", "at least one locale is required")
	}
	for i, loc := range cfg.Locales {
		if _, err := language.Parse(loc); err != nil {
			v.fatal(fmt.Sprintf("i18n.locales[%d]", i), "invalid BCP 47 tag %q", loc)
		}
	}
	if !slices.Contains(cfg.Locales, cfg.DefaultLocale) {
		v.fatal("i18n.defaultLocale", "%q is not one of the configured locales %v", cfg.DefaultLocale, cfg.Locales)
	}
}

func (v *validator) preset(p PresetOptions) {
	if p.Name == "" {
		v.fatal("presets[0].name", "must not be empty")
	}
	if p.Docs.SidebarPath == "" {
		v.fatal("presets[0].docs.sidebarPath", "must not be empty")
	}
	v.editURL("presets[0].docs.editUrl", p.Docs.EditURL)
	v.editURL("presets[0].blog.editUrl", p.Blog.EditURL)
	if p.Blog.PostsPerPage <= 0 {
		v.fatal("presets[0].blog.postsPerPage", "must be positive, got %d", p.Blog.PostsPerPage)
	}
	if p.Blog.BlogSidebarCount != "ALL" {
		if n, err := strconv.Atoi(p.Blog.BlogSidebarCount); err != nil || n < 0 {
			v.fatal("presets[0].blog.blogSidebarCount", "must be \"ALL\" or a non-negative integer, got %q", p.Blog.BlogSidebarCount)
		}
	}
}

func (v *validator) editURL(field, raw string) {
	if raw == "" {
		return
	}
	if !IsAbsoluteURL(raw) {
		v.fatal(field, "must be an absolute URL, got %q", raw)
	}
}

func (v *validator) navbar(nb Navbar) {
	seen := make(map[string]int, len(nb.Items))
	for i, item := range nb.Items {
		field := fmt.Sprintf("themeConfig.navbar.items[%d]", i)
		if item.Position != PositionLeft && item.Position != PositionRight {
			v.fatal(field+".position", "must be left or right, got %q", item.Position)
		}
		switch {
		case item.To != "" && item.Href != "":
			v.fatal(field, "set either to or href, not both")
		case item.Destination() == "":
			v.fatal(field, "destination must not be empty")
		default:
			v.destination(field, item.Destination())
		}
		if item.Label == "" && item.ClassName == "" {
			v.fatal(field, "needs a label or a className")
		}
		if prev, ok := seen[item.Destination()]; ok {
			v.warn(field, "duplicates the destination of item %d", prev)
		} else {
			seen[item.Destination()] = i
		}
	}
}

func (v *validator) footer(f Footer) {
	if f.Style != "" && f.Style != "dark" && f.Style != "light" {
		v.fatal("themeConfig.footer.style", "must be dark or light, got %q", f.Style)
	}
	for gi, group := range f.Links {
		gfield := fmt.Sprintf("themeConfig.footer.links[%d]", gi)
		if strings.TrimSpace(group.Title) == "" {
			v.fatal(gfield+".title", "must not be empty")
		}
		for ii, item := range group.Items {
			field := fmt.Sprintf("%s.items[%d]", gfield, ii)
			if strings.TrimSpace(item.Label) == "" {
				v.fatal(field+".label", "must not be empty")
			}
			if item.Destination() == "" {
				v.fatal(field, "destination must not be empty")
				continue
			}
			v.destination(field, item.Destination())
		}
	}
}

// destination accepts internal routes and absolute URLs.
func (v *validator) destination(field, dest string) {
	if IsInternal(dest) || IsAbsoluteURL(dest) {
		return
	}
	v.fatal(field, "destination %q is neither an internal route nor an absolute URL", dest)
}

func (v *validator) theme(t ThemeConfig) {
	if !slices.Contains(prismThemes, t.Prism.Theme) {
		v.fatal("themeConfig.prism.theme", "unknown prism theme %q", t.Prism.Theme)
	}
	if !slices.Contains(prismThemes, t.Prism.DarkTheme) {
		v.fatal("themeConfig.prism.darkTheme", "unknown prism theme %q", t.Prism.DarkTheme)
	}
	for i, m := range t.Metadata {
		if m.Name == "" {
			v.fatal(fmt.Sprintf("themeConfig.metadata[%d].name", i), "must not be empty")
		}
	}
	for i, h := range t.HeadTags {
		if !slices.Contains(headTagNames, h.TagName) {
			v.fatal(fmt.Sprintf("themeConfig.headTags[%d].tagName", i), "unsupported head tag %q", h.TagName)
		}
	}
	if t.ColorMode.DisableSwitch && t.ColorMode.RespectPrefersColorScheme {
		v.warn("themeConfig.colorMode", "respectPrefersColorScheme has no visible effect while the switch is disabled")
	}
}

func (v *validator) analytics(a AnalyticsConfig) {
	if a.GTMContainerID != "" && !gtmPattern.MatchString(a.GTMContainerID) {
		v.fatal("presets[0].googleTagManager.containerId", "malformed container id %q", a.GTMContainerID)
	}
	if a.GtagTrackingID != "" && !gtagPattern.MatchString(a.GtagTrackingID) {
		v.fatal("presets[0].gtag.trackingID", "malformed tracking id %q", a.GtagTrackingID)
	}
	if a.AdSenseClient != "" && !adSensePattern.MatchString(a.AdSenseClient) {
		v.fatal("analytics.adsenseClient", "malformed AdSense client %q", a.AdSenseClient)
	}
}

// IsInternal reports whether dest is a site route ("/docs"), not a
// protocol-relative or absolute URL.
func IsInternal(dest string) bool {
	return strings.HasPrefix(dest, "/") && !strings.HasPrefix(dest, "//")
}

// IsAbsoluteURL reports whether dest is an absolute http(s) URL with a host.
func IsAbsoluteURL(dest string) bool {
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
