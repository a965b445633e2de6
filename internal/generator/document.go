package generator

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/pabpereza/docsite/internal/site"
)

// Document is the configuration record in the external generator's schema.
// Field order is the serialized key order.
type Document struct {
	Title                 string      `json:"title" yaml:"title"`
	Tagline               string      `json:"tagline" yaml:"tagline"`
	Favicon               string      `json:"favicon" yaml:"favicon"`
	URL                   string      `json:"url" yaml:"url"`
	BaseURL               string      `json:"baseUrl" yaml:"baseUrl"`
	TrailingSlash         *bool       `json:"trailingSlash,omitempty" yaml:"trailingSlash,omitempty"`
	OrganizationName      string      `json:"organizationName" yaml:"organizationName"`
	ProjectName           string      `json:"projectName" yaml:"projectName"`
	OnBrokenLinks         string      `json:"onBrokenLinks" yaml:"onBrokenLinks"`
	OnBrokenMarkdownLinks string      `json:"onBrokenMarkdownLinks" yaml:"onBrokenMarkdownLinks"`
	Markdown              MarkdownDoc `json:"markdown" yaml:"markdown"`
	I18n                  I18nDoc     `json:"i18n" yaml:"i18n"`
	Presets               []PresetDoc `json:"presets" yaml:"presets"`
	ThemeConfig           ThemeDoc    `json:"themeConfig" yaml:"themeConfig"`
	Themes                []string    `json:"themes" yaml:"themes"`
	Plugins               []string    `json:"plugins" yaml:"plugins"`
	Scripts               []ScriptDoc `json:"scripts" yaml:"scripts"`
}

type MarkdownDoc struct {
	Mermaid bool `json:"mermaid" yaml:"mermaid"`
}

type I18nDoc struct {
	DefaultLocale string   `json:"defaultLocale" yaml:"defaultLocale"`
	Locales       []string `json:"locales" yaml:"locales"`
}

// PresetDoc serializes as the [name, options] pair the generator expects.
type PresetDoc struct {
	Name    string
	Options PresetOptionsDoc
}

func (p PresetDoc) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Name, p.Options})
}

func (p PresetDoc) MarshalYAML() (any, error) {
	return []any{p.Name, p.Options}, nil
}

type PresetOptionsDoc struct {
	Docs             DocsDoc  `json:"docs" yaml:"docs"`
	Blog             BlogDoc  `json:"blog" yaml:"blog"`
	Theme            CSSDoc   `json:"theme" yaml:"theme"`
	GoogleTagManager *GTMDoc  `json:"googleTagManager,omitempty" yaml:"googleTagManager,omitempty"`
	Gtag             *GtagDoc `json:"gtag,omitempty" yaml:"gtag,omitempty"`
}

type DocsDoc struct {
	SidebarPath string `json:"sidebarPath" yaml:"sidebarPath"`
	EditURL     string `json:"editUrl,omitempty" yaml:"editUrl,omitempty"`
}

type BlogDoc struct {
	ShowReadingTime  bool   `json:"showReadingTime" yaml:"showReadingTime"`
	EditURL          string `json:"editUrl,omitempty" yaml:"editUrl,omitempty"`
	PostsPerPage     int    `json:"postsPerPage" yaml:"postsPerPage"`
	BlogSidebarCount any    `json:"blogSidebarCount" yaml:"blogSidebarCount"`
}

type CSSDoc struct {
	CustomCSS string `json:"customCss" yaml:"customCss"`
}

type GTMDoc struct {
	ContainerID string `json:"containerId" yaml:"containerId"`
}

type GtagDoc struct {
	TrackingID  string `json:"trackingID" yaml:"trackingID"`
	AnonymizeIP bool   `json:"anonymizeIP" yaml:"anonymizeIP"`
}

// ThemeDoc is the flattened themeConfig: metadata and colorMode appear once,
// directly under themeConfig.
type ThemeDoc struct {
	Image     string       `json:"image,omitempty" yaml:"image,omitempty"`
	Docs      ThemeDocsDoc `json:"docs" yaml:"docs"`
	Navbar    NavbarDoc    `json:"navbar" yaml:"navbar"`
	Footer    FooterDoc    `json:"footer" yaml:"footer"`
	Prism     PrismDoc     `json:"prism" yaml:"prism"`
	Metadata  []MetaDoc    `json:"metadata" yaml:"metadata"`
	ColorMode ColorModeDoc `json:"colorMode" yaml:"colorMode"`
	HeadTags  []HeadTagDoc `json:"headTags" yaml:"headTags"`
}

type ThemeDocsDoc struct {
	Sidebar SidebarDoc `json:"sidebar" yaml:"sidebar"`
}

type SidebarDoc struct {
	Hideable               bool `json:"hideable" yaml:"hideable"`
	AutoCollapseCategories bool `json:"autoCollapseCategories" yaml:"autoCollapseCategories"`
}

type NavbarDoc struct {
	Title        string          `json:"title" yaml:"title"`
	HideOnScroll bool            `json:"hideOnScroll" yaml:"hideOnScroll"`
	Items        []NavbarItemDoc `json:"items" yaml:"items"`
}

type NavbarItemDoc struct {
	To        string `json:"to,omitempty" yaml:"to,omitempty"`
	Href      string `json:"href,omitempty" yaml:"href,omitempty"`
	Label     string `json:"label,omitempty" yaml:"label,omitempty"`
	ClassName string `json:"className,omitempty" yaml:"className,omitempty"`
	Position  string `json:"position" yaml:"position"`
}

type FooterDoc struct {
	Style     string           `json:"style,omitempty" yaml:"style,omitempty"`
	Links     []FooterGroupDoc `json:"links" yaml:"links"`
	Copyright string           `json:"copyright" yaml:"copyright"`
}

type FooterGroupDoc struct {
	Title string          `json:"title" yaml:"title"`
	Items []FooterItemDoc `json:"items" yaml:"items"`
}

type FooterItemDoc struct {
	Label string `json:"label" yaml:"label"`
	To    string `json:"to,omitempty" yaml:"to,omitempty"`
	Href  string `json:"href,omitempty" yaml:"href,omitempty"`
}

type PrismDoc struct {
	Theme     string `json:"theme" yaml:"theme"`
	DarkTheme string `json:"darkTheme" yaml:"darkTheme"`
}

type MetaDoc struct {
	Name    string `json:"name" yaml:"name"`
	Content string `json:"content" yaml:"content"`
}

type ColorModeDoc struct {
	DisableSwitch             bool `json:"disableSwitch" yaml:"disableSwitch"`
	RespectPrefersColorScheme bool `json:"respectPrefersColorScheme" yaml:"respectPrefersColorScheme"`
}

type HeadTagDoc struct {
	TagName    string     `json:"tagName" yaml:"tagName"`
	Attributes Attributes `json:"attributes" yaml:"attributes"`
	InnerHTML  string     `json:"innerHTML,omitempty" yaml:"innerHTML,omitempty"`
}

// Attributes is an ordered attribute map; it serializes as an object whose
// keys keep declaration order.
type Attributes []site.Attribute

func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(attr.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(attr.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a Attributes) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, attr := range a {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: attr.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: attr.Value},
		)
	}
	return node, nil
}

type ScriptDoc struct {
	Src         string `json:"src" yaml:"src"`
	Async       bool   `json:"async" yaml:"async"`
	CrossOrigin string `json:"crossorigin,omitempty" yaml:"crossorigin,omitempty"`
}
