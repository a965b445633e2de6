package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pabpereza/docsite/internal/site"
)

func fixedClock(year int) func() time.Time {
	return func() time.Time { return time.Date(year, time.March, 1, 12, 0, 0, 0, time.UTC) }
}

// topLevelKeys returns the object keys of a JSON document in encounter order.
func topLevelKeys(t *testing.T, data []byte) []string {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	require.NoError(t, err)
	require.Equal(t, json.Delim('{'), tok)

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		keys = append(keys, tok.(string))
		var skip json.RawMessage
		require.NoError(t, dec.Decode(&skip))
	}
	return keys
}

func TestRenderJSON_TopLevelKeys(t *testing.T) {
	out, err := New(site.Default(), WithClock(fixedClock(2026))).Render(FormatJSON)
	require.NoError(t, err)

	want := []string{
		"title", "tagline", "favicon", "url", "baseUrl", "trailingSlash",
		"organizationName", "projectName", "onBrokenLinks", "onBrokenMarkdownLinks",
		"markdown", "i18n", "presets", "themeConfig", "themes", "plugins", "scripts",
	}
	assert.Equal(t, want, topLevelKeys(t, out))
}

func TestRenderJSON_Content(t *testing.T) {
	out, err := New(site.Default(), WithClock(fixedClock(2026))).Render(FormatJSON)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))

	assert.Equal(t, "throw", doc["onBrokenLinks"])
	assert.Equal(t, "warn", doc["onBrokenMarkdownLinks"])
	assert.Equal(t, false, doc["trailingSlash"])
	assert.Equal(t, map[string]any{"mermaid": true}, doc["markdown"])
	assert.Equal(t, []any{"@docusaurus/theme-mermaid"}, doc["themes"])
	assert.Equal(t, []any{"docusaurus-lunr-search"}, doc["plugins"])

	presets := doc["presets"].([]any)
	require.Len(t, presets, 1)
	pair := presets[0].([]any)
	require.Len(t, pair, 2)
	assert.Equal(t, "classic", pair[0])
	opts := pair[1].(map[string]any)
	blog := opts["blog"].(map[string]any)
	assert.Equal(t, "ALL", blog["blogSidebarCount"])
	assert.EqualValues(t, 3, blog["postsPerPage"])
	assert.Equal(t, map[string]any{"containerId": "GTM-NBFV5MMS"}, opts["googleTagManager"])
	assert.Equal(t, map[string]any{"trackingID": "G-40PL0BKGD3", "anonymizeIP": true}, opts["gtag"])

	theme := doc["themeConfig"].(map[string]any)
	_, nested := theme["themeConfig"]
	assert.False(t, nested, "themeConfig must be flattened")
	assert.Equal(t, map[string]any{"disableSwitch": false, "respectPrefersColorScheme": true}, theme["colorMode"])
	assert.Len(t, theme["metadata"], 4)

	footer := theme["footer"].(map[string]any)
	assert.Equal(t, "Copyright © 2026 Pabpereza. Built with Docusaurus.", footer["copyright"])

	navItems := theme["navbar"].(map[string]any)["items"].([]any)
	assert.Len(t, navItems, 9)
	assert.Equal(t, "test", navItems[7].(map[string]any)["className"])
	assert.Equal(t, "header-github-link", navItems[8].(map[string]any)["className"])

	scripts := doc["scripts"].([]any)
	require.Len(t, scripts, 1)
	assert.Equal(t, "anonymous", scripts[0].(map[string]any)["crossorigin"])
	assert.Equal(t, true, scripts[0].(map[string]any)["async"])
}

func TestRenderJSON_StructuredDataURL(t *testing.T) {
	cfg := site.Default()
	doc, err := New(cfg, WithClock(fixedClock(2026))).Document()
	require.NoError(t, err)

	require.Len(t, doc.ThemeConfig.HeadTags, 2)
	ld := doc.ThemeConfig.HeadTags[1]
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(ld.InnerHTML), &payload))
	assert.Equal(t, "Organization", payload["@type"])
	assert.Equal(t, cfg.Identity.SiteRoot(), payload["url"])
}

func TestRender_Deterministic(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML, FormatJS} {
		t.Run(string(f), func(t *testing.T) {
			a, err := New(site.Default(), WithClock(fixedClock(2026))).Render(f)
			require.NoError(t, err)
			b, err := New(site.Default(), WithClock(fixedClock(2026))).Render(f)
			require.NoError(t, err)
			assert.Equal(t, a, b)
		})
	}
}

func TestRender_OnlyCopyrightDependsOnClock(t *testing.T) {
	cfg := site.Default()
	a, err := New(cfg, WithClock(fixedClock(2025))).Render(FormatJSON)
	require.NoError(t, err)
	b, err := New(cfg, WithClock(fixedClock(2031))).Render(FormatJSON)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	normalized := bytes.ReplaceAll(b, []byte("© 2031"), []byte("© 2025"))
	assert.Equal(t, a, normalized)
}

func TestRender_ClockReadPerCall(t *testing.T) {
	year := 2026
	g := New(site.Default(), WithClock(func() time.Time { return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC) }))

	first, err := g.Document()
	require.NoError(t, err)
	year = 2027
	second, err := g.Document()
	require.NoError(t, err)

	assert.Contains(t, first.ThemeConfig.Footer.Copyright, "2026")
	assert.Contains(t, second.ThemeConfig.Footer.Copyright, "2027")
}

func TestRenderYAML(t *testing.T) {
	out, err := New(site.Default(), WithClock(fixedClock(2026))).Render(FormatYAML)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, "Pabpereza", doc["title"])

	pair := doc["presets"].([]any)[0].([]any)
	assert.Equal(t, "classic", pair[0])

	// Attribute order is kept in the mapping.
	assert.Contains(t, string(out), "rel: preconnect\n")
	assert.Less(t, strings.Index(string(out), "rel: preconnect"), strings.Index(string(out), "href: https://pabpereza.dev"))
}

func TestRenderJS(t *testing.T) {
	out, err := New(site.Default(), WithClock(fixedClock(2026))).Render(FormatJS)
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, "// Generated by docsite."))
	assert.Contains(t, s, "import {themes as prismThemes} from 'prism-react-renderer';")
	assert.Contains(t, s, "prismThemes[config.themeConfig.prism.darkTheme]")
	assert.True(t, strings.HasSuffix(s, "export default config;\n"))

	start := strings.Index(s, "const config = ") + len("const config = ")
	end := strings.Index(s, "};\n") + 1
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(s[start:end]), &doc), "embedded object must be valid JSON")
}

func TestRenderEmptyCollections(t *testing.T) {
	cfg := site.Default()
	cfg.Analytics = site.AnalyticsConfig{}
	cfg.Plugins = nil

	doc, err := New(cfg, WithClock(fixedClock(2026))).Document()
	require.NoError(t, err)
	assert.Nil(t, doc.Presets[0].Options.GoogleTagManager)
	assert.Nil(t, doc.Presets[0].Options.Gtag)
	assert.Empty(t, doc.Scripts)

	out, err := encodeJSON(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"plugins": []`)
	assert.Contains(t, string(out), `"scripts": []`)
}

func TestSidebarCountNumeric(t *testing.T) {
	assert.Equal(t, 5, sidebarCount("5"))
	assert.Equal(t, "ALL", sidebarCount("ALL"))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML, "js": FormatJS, "mjs": FormatJS} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("toml")
	assert.Error(t, err)

	f, err := FormatFromPath("out/docusaurus.config.mjs")
	require.NoError(t, err)
	assert.Equal(t, FormatJS, f)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "docusaurus.config.json")
	g := New(site.Default(), WithClock(fixedClock(2026)))

	require.NoError(t, g.WriteFile(context.Background(), path, FormatJSON))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := g.Render(FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, want, data)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}

func TestWriteFile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "out.json")
	err := New(site.Default()).WriteFile(ctx, path, FormatJSON)
	require.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
