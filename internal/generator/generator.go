// Package generator renders a site.Config into the configuration document
// consumed by the external static-site generator.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "github.com/pabpereza/docsite/internal/foundation/errors"
	"github.com/pabpereza/docsite/internal/logfields"
	"github.com/pabpereza/docsite/internal/metrics"
	"github.com/pabpereza/docsite/internal/observability"
	"github.com/pabpereza/docsite/internal/site"
)

// Format is an output encoding of the configuration document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatJS   Format = "js"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatJS:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "mjs":
		return FormatJS, nil
	}
	return "", ferrors.ConfigError(fmt.Sprintf("unknown output format %q (want json, yaml or js)", s)).Build()
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Generator emits configuration documents for one site.Config.
type Generator struct {
	cfg      *site.Config
	now      func() time.Time
	recorder metrics.Recorder
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the time source used for the copyright year.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

// New creates a Generator. The clock defaults to time.Now.
func New(cfg *site.Config, opts ...Option) *Generator {
	g := &Generator{cfg: cfg, now: time.Now, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Document builds the configuration record. The copyright year is read from
// the clock on every call.
func (g *Generator) Document() (Document, error) {
	c := g.cfg
	headTags, err := c.HeadTags()
	if err != nil {
		return Document{}, ferrors.WrapError(err, ferrors.CategoryRender, "build head tags").Build()
	}

	doc := Document{
		Title:                 c.Identity.Title,
		Tagline:               c.Identity.Tagline,
		Favicon:               c.Identity.Favicon,
		URL:                   c.Identity.URL,
		BaseURL:               c.Identity.BaseURL,
		TrailingSlash:         c.Identity.TrailingSlash,
		OrganizationName:      c.Identity.OrganizationName,
		ProjectName:           c.Identity.ProjectName,
		OnBrokenLinks:         string(c.OnBrokenLinks),
		OnBrokenMarkdownLinks: string(c.OnBrokenMarkdownLinks),
		Markdown:              MarkdownDoc{Mermaid: c.Markdown.Mermaid},
		I18n: I18nDoc{
			DefaultLocale: c.I18n.DefaultLocale,
			Locales:       nonNil(c.I18n.Locales),
		},
		Presets:     []PresetDoc{g.preset()},
		ThemeConfig: g.theme(headTags),
		Themes:      nonNil(c.Themes),
		Plugins:     nonNil(c.Plugins),
		Scripts:     []ScriptDoc{},
	}
	for _, s := range c.Scripts() {
		doc.Scripts = append(doc.Scripts, ScriptDoc{Src: s.Src, Async: s.Async, CrossOrigin: s.CrossOrigin})
	}
	return doc, nil
}

func (g *Generator) preset() PresetDoc {
	p := g.cfg.Preset
	a := g.cfg.Analytics
	opts := PresetOptionsDoc{
		Docs: DocsDoc{SidebarPath: p.Docs.SidebarPath, EditURL: p.Docs.EditURL},
		Blog: BlogDoc{
			ShowReadingTime:  p.Blog.ShowReadingTime,
			EditURL:          p.Blog.EditURL,
			PostsPerPage:     p.Blog.PostsPerPage,
			BlogSidebarCount: sidebarCount(p.Blog.BlogSidebarCount),
		},
		Theme: CSSDoc{CustomCSS: p.Theme.CustomCSS},
	}
	if a.GTMContainerID != "" {
		opts.GoogleTagManager = &GTMDoc{ContainerID: a.GTMContainerID}
	}
	if a.GtagTrackingID != "" {
		opts.Gtag = &GtagDoc{TrackingID: a.GtagTrackingID, AnonymizeIP: a.AnonymizeIP}
	}
	return PresetDoc{Name: p.Name, Options: opts}
}

// sidebarCount emits "ALL" as a string and numeric counts as numbers.
func sidebarCount(v string) any {
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return v
}

func (g *Generator) theme(headTags []site.HeadTag) ThemeDoc {
	t := g.cfg.Theme
	doc := ThemeDoc{
		Image: t.Image,
		Docs: ThemeDocsDoc{Sidebar: SidebarDoc{
			Hideable:               t.Docs.Sidebar.Hideable,
			AutoCollapseCategories: t.Docs.Sidebar.AutoCollapseCategories,
		}},
		Navbar: NavbarDoc{
			Title:        t.Navbar.Title,
			HideOnScroll: t.Navbar.HideOnScroll,
			Items:        make([]NavbarItemDoc, 0, len(t.Navbar.Items)),
		},
		Footer: FooterDoc{
			Style:     t.Footer.Style,
			Links:     make([]FooterGroupDoc, 0, len(t.Footer.Links)),
			Copyright: site.Copyright(g.now().Year()),
		},
		Prism:    PrismDoc{Theme: t.Prism.Theme, DarkTheme: t.Prism.DarkTheme},
		Metadata: []MetaDoc{},
		ColorMode: ColorModeDoc{
			DisableSwitch:             t.ColorMode.DisableSwitch,
			RespectPrefersColorScheme: t.ColorMode.RespectPrefersColorScheme,
		},
		HeadTags: make([]HeadTagDoc, 0, len(headTags)),
	}
	for _, item := range t.Navbar.Items {
		doc.Navbar.Items = append(doc.Navbar.Items, NavbarItemDoc{
			To:        item.To,
			Href:      item.Href,
			Label:     item.Label,
			ClassName: item.ClassName,
			Position:  string(item.Position),
		})
	}
	for _, group := range t.Footer.Links {
		gd := FooterGroupDoc{Title: group.Title, Items: make([]FooterItemDoc, 0, len(group.Items))}
		for _, item := range group.Items {
			gd.Items = append(gd.Items, FooterItemDoc{Label: item.Label, To: item.To, Href: item.Href})
		}
		doc.Footer.Links = append(doc.Footer.Links, gd)
	}
	for _, m := range g.cfg.MetadataTags() {
		doc.Metadata = append(doc.Metadata, MetaDoc{Name: m.Name, Content: m.Content})
	}
	for _, h := range headTags {
		doc.HeadTags = append(doc.HeadTags, HeadTagDoc{
			TagName:    h.TagName,
			Attributes: Attributes(h.Attributes),
			InnerHTML:  h.InnerHTML,
		})
	}
	return doc
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Render encodes the document in the given format.
func (g *Generator) Render(format Format) ([]byte, error) {
	start := time.Now()
	out, err := g.render(format)
	g.recorder.ObserveRenderDuration(string(format), time.Since(start))
	if err != nil {
		g.recorder.IncRender(string(format), metrics.ResultFatal)
		return nil, err
	}
	g.recorder.IncRender(string(format), metrics.ResultSuccess)
	return out, nil
}

func (g *Generator) render(format Format) ([]byte, error) {
	doc, err := g.Document()
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return encodeJSON(doc)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryRender, "encode yaml").Build()
		}
		if err := enc.Close(); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryRender, "encode yaml").Build()
		}
		return buf.Bytes(), nil
	case FormatJS:
		return encodeModule(doc)
	}
	return nil, ferrors.RenderError(fmt.Sprintf("unsupported format %q", format)).Build()
}

func encodeJSON(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "encode json").Build()
	}
	return buf.Bytes(), nil
}

const moduleHeader = `// Generated by docsite. Do not edit; change the site definition and re-render.
import {themes as prismThemes} from 'prism-react-renderer';

/** @type {import('@docusaurus/types').Config} */
const config = `

const moduleFooter = `
config.themeConfig.prism.theme = prismThemes[config.themeConfig.prism.theme];
config.themeConfig.prism.darkTheme = prismThemes[config.themeConfig.prism.darkTheme];

export default config;
`

// encodeModule wraps the JSON document in an ES module. Prism themes are
// carried by name and resolved against prism-react-renderer at load time.
func encodeModule(doc Document) ([]byte, error) {
	body, err := encodeJSON(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(moduleHeader)
	buf.Write(bytes.TrimRight(body, "\n"))
	buf.WriteString(";\n")
	buf.WriteString(moduleFooter)
	return buf.Bytes(), nil
}

// WriteFile renders the document and atomically replaces path with it.
func (g *Generator) WriteFile(ctx context.Context, path string, format Format) error {
	data, err := g.Render(format)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeAtomic(path, data); err != nil {
		return ferrors.FileSystemError("write configuration").WithCause(err).
			WithContext("path", path).
			Build()
	}
	observability.InfoContext(ctx, "Generated site configuration", logfields.Path(path), logfields.Format(string(format)))
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
