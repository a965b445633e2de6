package config

import "github.com/pabpereza/docsite/internal/site"

// CurrentVersion is the only override file version this build understands.
const CurrentVersion = "1"

// Override is the optional docsite.yaml file. Every field is optional; nil
// means "keep the default". Only scalars that differ between deployments of
// the site (identity, locales, policies, analytics, preset paths) can be
// overridden. Navigation and theme content live in code.
type Override struct {
	Version               string                 `yaml:"version"`
	Identity              *IdentityOverride      `yaml:"identity,omitempty"`
	OnBrokenLinks         *site.BrokenLinkPolicy `yaml:"onBrokenLinks,omitempty"`
	OnBrokenMarkdownLinks *site.BrokenLinkPolicy `yaml:"onBrokenMarkdownLinks,omitempty"`
	I18n                  *I18nOverride          `yaml:"i18n,omitempty"`
	Preset                *PresetOverride        `yaml:"preset,omitempty"`
	Analytics             *AnalyticsOverride     `yaml:"analytics,omitempty"`
}

type IdentityOverride struct {
	Title            *string `yaml:"title,omitempty"`
	Tagline          *string `yaml:"tagline,omitempty"`
	Favicon          *string `yaml:"favicon,omitempty"`
	URL              *string `yaml:"url,omitempty"`
	BaseURL          *string `yaml:"baseUrl,omitempty"`
	TrailingSlash    *bool   `yaml:"trailingSlash,omitempty"`
	OrganizationName *string `yaml:"organizationName,omitempty"`
	ProjectName      *string `yaml:"projectName,omitempty"`
}

type I18nOverride struct {
	DefaultLocale *string  `yaml:"defaultLocale,omitempty"`
	Locales       []string `yaml:"locales,omitempty"`
}

type PresetOverride struct {
	Docs  *DocsOverride  `yaml:"docs,omitempty"`
	Blog  *BlogOverride  `yaml:"blog,omitempty"`
	Theme *ThemeOverride `yaml:"theme,omitempty"`
}

type DocsOverride struct {
	SidebarPath *string `yaml:"sidebarPath,omitempty"`
	EditURL     *string `yaml:"editUrl,omitempty"`
}

type BlogOverride struct {
	ShowReadingTime  *bool   `yaml:"showReadingTime,omitempty"`
	EditURL          *string `yaml:"editUrl,omitempty"`
	PostsPerPage     *int    `yaml:"postsPerPage,omitempty"`
	BlogSidebarCount *string `yaml:"blogSidebarCount,omitempty"`
}

type ThemeOverride struct {
	CustomCSS *string `yaml:"customCss,omitempty"`
}

type AnalyticsOverride struct {
	GTMContainerID *string `yaml:"gtmContainerId,omitempty"`
	GtagTrackingID *string `yaml:"gtagTrackingId,omitempty"`
	AnonymizeIP    *bool   `yaml:"anonymizeIP,omitempty"`
	AdSenseClient  *string `yaml:"adsenseClient,omitempty"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Apply copies every non-nil field of o onto cfg.
func (o *Override) Apply(cfg *site.Config) {
	if o == nil {
		return
	}
	if id := o.Identity; id != nil {
		set(&cfg.Identity.Title, id.Title)
		set(&cfg.Identity.Tagline, id.Tagline)
		set(&cfg.Identity.Favicon, id.Favicon)
		set(&cfg.Identity.URL, id.URL)
		set(&cfg.Identity.BaseURL, id.BaseURL)
		if id.TrailingSlash != nil {
			v := *id.TrailingSlash
			cfg.Identity.TrailingSlash = &v
		}
		set(&cfg.Identity.OrganizationName, id.OrganizationName)
		set(&cfg.Identity.ProjectName, id.ProjectName)
	}
	set(&cfg.OnBrokenLinks, o.OnBrokenLinks)
	set(&cfg.OnBrokenMarkdownLinks, o.OnBrokenMarkdownLinks)
	if i := o.I18n; i != nil {
		set(&cfg.I18n.DefaultLocale, i.DefaultLocale)
		if i.Locales != nil {
			cfg.I18n.Locales = append([]string(nil), i.Locales...)
		}
	}
	if p := o.Preset; p != nil {
		if d := p.Docs; d != nil {
			set(&cfg.Preset.Docs.SidebarPath, d.SidebarPath)
			set(&cfg.Preset.Docs.EditURL, d.EditURL)
		}
		if b := p.Blog; b != nil {
			set(&cfg.Preset.Blog.ShowReadingTime, b.ShowReadingTime)
			set(&cfg.Preset.Blog.EditURL, b.EditURL)
			set(&cfg.Preset.Blog.PostsPerPage, b.PostsPerPage)
			set(&cfg.Preset.Blog.BlogSidebarCount, b.BlogSidebarCount)
		}
		if t := p.Theme; t != nil {
			set(&cfg.Preset.Theme.CustomCSS, t.CustomCSS)
		}
	}
	if a := o.Analytics; a != nil {
		set(&cfg.Analytics.GTMContainerID, a.GTMContainerID)
		set(&cfg.Analytics.GtagTrackingID, a.GtagTrackingID)
		set(&cfg.Analytics.AnonymizeIP, a.AnonymizeIP)
		set(&cfg.Analytics.AdSenseClient, a.AdSenseClient)
	}
}
