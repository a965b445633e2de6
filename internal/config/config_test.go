package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/pabpereza/docsite/internal/foundation/errors"
	"github.com/pabpereza/docsite/internal/site"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, findings, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, site.Default(), cfg)
	assert.Empty(t, findings.Fatal())
	// The duplicated repository navbar link is reported, not rejected.
	assert.NotEmpty(t, findings.Warnings())
}

func TestLoad_AppliesOverrides(t *testing.T) {
	path := writeFile(t, "docsite.yaml", `
version: "1"
identity:
  url: https://staging.pabpereza.dev
  baseUrl: /preview/
  trailingSlash: true
onBrokenLinks: warn
i18n:
  defaultLocale: en
  locales: [es, en]
preset:
  blog:
    postsPerPage: 10
analytics:
  adsenseClient: ca-pub-123
`)
	cfg, _, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.pabpereza.dev/preview/", cfg.Identity.SiteRoot())
	require.NotNil(t, cfg.Identity.TrailingSlash)
	assert.True(t, *cfg.Identity.TrailingSlash)
	assert.Equal(t, site.PolicyWarn, cfg.OnBrokenLinks)
	assert.Equal(t, site.PolicyWarn, cfg.OnBrokenMarkdownLinks)
	assert.Equal(t, []string{"es", "en"}, cfg.I18n.Locales)
	assert.Equal(t, 10, cfg.Preset.Blog.PostsPerPage)
	assert.Equal(t, "ALL", cfg.Preset.Blog.BlogSidebarCount)
	assert.Equal(t, "ca-pub-123", cfg.Analytics.AdSenseClient)

	// Untouched values keep their defaults.
	assert.Equal(t, "Pabpereza", cfg.Identity.Title)
	assert.Equal(t, "GTM-NBFV5MMS", cfg.Analytics.GTMContainerID)
}

func TestLoad_URLOverrideReachesHeadTags(t *testing.T) {
	path := writeFile(t, "docsite.yaml", "identity:\n  url: https://staging.example.org\n")
	cfg, _, err := Load(path)
	require.NoError(t, err)

	tags, err := cfg.HeadTags()
	require.NoError(t, err)
	require.Len(t, tags, 2)
	href, ok := tags[0].Attr("href")
	require.True(t, ok)
	assert.Equal(t, "https://staging.example.org", href)
	assert.Contains(t, tags[1].InnerHTML, `"url":"https://staging.example.org/"`)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, _, err := Load(writeFile(t, "docsite.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, site.Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestLoad_UnknownKey(t *testing.T) {
	_, _, err := Load(writeFile(t, "docsite.yaml", "identity:\n  titel: typo\n"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestLoad_UnsupportedVersion(t *testing.T) {
	_, _, err := Load(writeFile(t, "docsite.yaml", "version: \"2\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported configuration version")
}

func TestLoad_InvalidValuesFailValidation(t *testing.T) {
	for name, content := range map[string]string{
		"policy":        "onBrokenLinks: explode\n",
		"locale":        "i18n:\n  defaultLocale: fr\n",
		"url with path": "identity:\n  url: https://pabpereza.dev/sub\n",
		"posts":         "preset:\n  blog:\n    postsPerPage: 0\n",
		"sidebar count": "preset:\n  blog:\n    blogSidebarCount: some\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, findings, err := Load(writeFile(t, "docsite.yaml", content))
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
			assert.NotEmpty(t, findings.Fatal())
		})
	}
}

func TestLoad_OverrideDoesNotMutateDefaults(t *testing.T) {
	path := writeFile(t, "docsite.yaml", "i18n:\n  locales: [es, en]\n")
	_, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"es"}, site.Default().I18n.Locales)
}

func TestInit_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "docsite.yaml")
	require.NoError(t, Init(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# docsite override file.")
	assert.Contains(t, string(data), "onBrokenLinks: throw")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, site.Default(), cfg)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	path := writeFile(t, "docsite.yaml", "version: \"1\"\n")
	err := Init(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	require.NoError(t, Init(path, true))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "custom.yaml", Resolve("custom.yaml"))

	dir := t.TempDir()
	t.Chdir(dir)
	assert.Equal(t, "", Resolve(""))
	require.NoError(t, os.WriteFile(DefaultFile, []byte(""), 0o644))
	assert.Equal(t, DefaultFile, Resolve(""))
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("DOCSITE_TEST_FORMAT=yaml\nDOCSITE_TEST_KEEP=fromfile\n"), 0o644))
	t.Setenv("DOCSITE_TEST_KEEP", "fromenv")
	t.Setenv("DOCSITE_TEST_FORMAT", "")
	require.NoError(t, os.Unsetenv("DOCSITE_TEST_FORMAT"))

	loaded, err := LoadEnv(env, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, []string{env}, loaded)
	assert.Equal(t, "yaml", os.Getenv("DOCSITE_TEST_FORMAT"))
	assert.Equal(t, "fromenv", os.Getenv("DOCSITE_TEST_KEEP"))
}
