package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "github.com/pabpereza/docsite/internal/foundation/errors"
	"github.com/pabpereza/docsite/internal/site"
)

const exampleHeader = `# docsite override file.
# Every key is optional; omitted keys keep the built-in defaults.
# Navigation, footer and theme content are defined in code.
`

// Init writes an example override file populated with the current defaults.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).
			WithContext("path", path).
			Build()
	}

	var buf bytes.Buffer
	buf.WriteString(exampleHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Example()); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode example configuration").Build()
	}
	if err := enc.Close(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode example configuration").Build()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create configuration directory").Build()
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write configuration file").
			WithContext("path", path).
			Build()
	}
	return nil
}

// Example returns an override that restates every overridable default.
func Example() *Override {
	d := site.Default()
	ptr := func(s string) *string { return &s }
	return &Override{
		Version: CurrentVersion,
		Identity: &IdentityOverride{
			Title:            ptr(d.Identity.Title),
			Tagline:          ptr(d.Identity.Tagline),
			Favicon:          ptr(d.Identity.Favicon),
			URL:              ptr(d.Identity.URL),
			BaseURL:          ptr(d.Identity.BaseURL),
			TrailingSlash:    d.Identity.TrailingSlash,
			OrganizationName: ptr(d.Identity.OrganizationName),
			ProjectName:      ptr(d.Identity.ProjectName),
		},
		OnBrokenLinks:         &d.OnBrokenLinks,
		OnBrokenMarkdownLinks: &d.OnBrokenMarkdownLinks,
		I18n: &I18nOverride{
			DefaultLocale: ptr(d.I18n.DefaultLocale),
			Locales:       d.I18n.Locales,
		},
		Preset: &PresetOverride{
			Docs: &DocsOverride{
				SidebarPath: ptr(d.Preset.Docs.SidebarPath),
				EditURL:     ptr(d.Preset.Docs.EditURL),
			},
			Blog: &BlogOverride{
				ShowReadingTime:  &d.Preset.Blog.ShowReadingTime,
				EditURL:          ptr(d.Preset.Blog.EditURL),
				PostsPerPage:     &d.Preset.Blog.PostsPerPage,
				BlogSidebarCount: ptr(d.Preset.Blog.BlogSidebarCount),
			},
			Theme: &ThemeOverride{CustomCSS: ptr(d.Preset.Theme.CustomCSS)},
		},
		Analytics: &AnalyticsOverride{
			GTMContainerID: ptr(d.Analytics.GTMContainerID),
			GtagTrackingID: ptr(d.Analytics.GtagTrackingID),
			AnonymizeIP:    &d.Analytics.AnonymizeIP,
			AdSenseClient:  ptr(d.Analytics.AdSenseClient),
		},
	}
}
