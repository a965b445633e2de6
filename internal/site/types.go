package site

import (
	"net/url"
	"strings"
)

// BrokenLinkPolicy selects how the generator reacts to an unresolved link.
type BrokenLinkPolicy string

const (
	PolicyIgnore BrokenLinkPolicy = "ignore"
	PolicyLog    BrokenLinkPolicy = "log"
	PolicyWarn   BrokenLinkPolicy = "warn"
	PolicyThrow  BrokenLinkPolicy = "throw"
)

// Valid reports whether p is one of the policies the generator accepts.
func (p BrokenLinkPolicy) Valid() bool {
	switch p {
	case PolicyIgnore, PolicyLog, PolicyWarn, PolicyThrow:
		return true
	}
	return false
}

// Config is the complete site configuration handed to the external generator.
// It is built once per evaluation and treated as immutable afterwards.
type Config struct {
	Identity              Identity
	OnBrokenLinks         BrokenLinkPolicy
	OnBrokenMarkdownLinks BrokenLinkPolicy
	Markdown              MarkdownOptions
	I18n                  I18n
	Preset                PresetOptions
	Theme                 ThemeConfig
	Analytics             AnalyticsConfig
	Organization          Organization
	Themes                []string
	Plugins               []string
}

// Identity is the site's title, canonical location and deployment identifiers.
type Identity struct {
	Title            string
	Tagline          string
	Favicon          string
	URL              string
	BaseURL          string
	TrailingSlash    *bool // nil leaves the generator default
	OrganizationName string
	ProjectName      string
}

// SiteRoot joins URL and BaseURL into the absolute root of the published site.
func (i Identity) SiteRoot() string {
	base := i.BaseURL
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return strings.TrimRight(i.URL, "/") + base
}

// Origin returns the scheme and host of URL, or "" when URL is not absolute.
func (i Identity) Origin() string {
	u, err := url.Parse(i.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Absolute resolves a site-relative path (e.g. "img/logo.png") against SiteRoot.
func (i Identity) Absolute(path string) string {
	return i.SiteRoot() + strings.TrimLeft(path, "/")
}

type MarkdownOptions struct {
	Mermaid bool
}

// I18n is the locale configuration.
type I18n struct {
	DefaultLocale string
	Locales       []string
}

// PresetOptions is passed opaquely to the classic preset.
type PresetOptions struct {
	Name  string
	Docs  DocsOptions
	Blog  BlogOptions
	Theme ThemeOptions
}

type DocsOptions struct {
	SidebarPath string
	EditURL     string
}

type BlogOptions struct {
	ShowReadingTime  bool
	EditURL          string
	PostsPerPage     int
	BlogSidebarCount string // "ALL" or a non-negative integer
}

type ThemeOptions struct {
	CustomCSS string
}

// ThemeConfig is the UI configuration: navbar, footer, color mode, highlighting and head tags.
type ThemeConfig struct {
	Image     string
	Docs      ThemeDocs
	Navbar    Navbar
	Footer    Footer
	ColorMode ColorMode
	Metadata  []MetaTag
	Prism     Prism
	HeadTags  []HeadTag
}

type ThemeDocs struct {
	Sidebar DocsSidebar
}

type DocsSidebar struct {
	Hideable               bool
	AutoCollapseCategories bool
}

type Navbar struct {
	Title        string
	HideOnScroll bool
	Items        []NavbarItem
}

// NavbarPosition is the side of the navbar an item is rendered on.
type NavbarPosition string

const (
	PositionLeft  NavbarPosition = "left"
	PositionRight NavbarPosition = "right"
)

// NavbarItem is one navbar link. Exactly one of To and Href is set; Label may be
// empty when ClassName renders an icon.
type NavbarItem struct {
	To        string
	Href      string
	Label     string
	Position  NavbarPosition
	ClassName string
}

// Destination returns whichever of To and Href is set.
func (n NavbarItem) Destination() string {
	if n.To != "" {
		return n.To
	}
	return n.Href
}

type Footer struct {
	Style string
	Links []FooterGroup
}

type FooterGroup struct {
	Title string
	Items []FooterItem
}

type FooterItem struct {
	Label string
	To    string
	Href  string
}

func (f FooterItem) Destination() string {
	if f.To != "" {
		return f.To
	}
	return f.Href
}

type ColorMode struct {
	DisableSwitch             bool
	RespectPrefersColorScheme bool
}

// MetaTag is a <meta name=... content=...> entry.
type MetaTag struct {
	Name    string
	Content string
}

// Prism names the light and dark syntax-highlighting themes.
type Prism struct {
	Theme     string
	DarkTheme string
}

// Attribute is an HTML attribute. Order is preserved when rendering.
type Attribute struct {
	Name  string
	Value string
}

// HeadTag is an element appended verbatim to every page head.
type HeadTag struct {
	TagName    string
	Attributes []Attribute
	InnerHTML  string
}

// Attr returns the value of the named attribute.
func (h HeadTag) Attr(name string) (string, bool) {
	for _, a := range h.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Script is an external script injected into every page.
type Script struct {
	Src         string
	Async       bool
	CrossOrigin string
}

// AnalyticsConfig holds public client-side identifiers.
type AnalyticsConfig struct {
	GTMContainerID string
	GtagTrackingID string
	AnonymizeIP    bool
	AdSenseClient  string
}

// Organization feeds the JSON-LD structured data block.
type Organization struct {
	Name     string
	LogoPath string
}
