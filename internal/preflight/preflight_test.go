package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/pabpereza/docsite/internal/foundation/errors"
	"github.com/pabpereza/docsite/internal/site"
)

func siteRoot(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	return root
}

func completeSite(t *testing.T) string {
	return siteRoot(t,
		"sidebars.js",
		"src/css/custom.css",
		"static/img/logo_icon.png",
		"static/img/docusaurus-social-card.jpg",
		"static/img/logo.png",
	)
}

func TestRun_AllPresent(t *testing.T) {
	findings, err := Run(context.Background(), site.Default(), Options{Root: completeSite(t)})
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestRun_MissingSidebarIsFatal(t *testing.T) {
	root := siteRoot(t, "src/css/custom.css", "static/img/logo_icon.png", "static/img/docusaurus-social-card.jpg", "static/img/logo.png")

	findings, err := Run(context.Background(), site.Default(), Options{Root: root})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
	assert.Contains(t, err.Error(), "sidebars.js")
	require.Len(t, findings.Fatal(), 1)
	assert.Equal(t, "presets.classic.docs.sidebarPath", findings.Fatal()[0].Field)
}

func TestRun_MissingStaticAssetsWarn(t *testing.T) {
	root := siteRoot(t, "sidebars.js", "src/css/custom.css")

	findings, err := Run(context.Background(), site.Default(), Options{Root: root})
	require.NoError(t, err)
	require.Len(t, findings.Warnings(), 3)
	assert.Equal(t, "favicon", findings[0].Field)
	assert.Equal(t, "themeConfig.image", findings[1].Field)
	assert.Equal(t, "organization.logo", findings[2].Field)
}

func TestRun_CheckGit(t *testing.T) {
	for _, tc := range []struct {
		name   string
		origin string
		warns  int
	}{
		{"scp remote", "git@github.com:pabpereza/pabpereza.git", 0},
		{"https remote", "https://github.com/pabpereza/pabpereza", 0},
		{"other repository", "https://github.com/someone/else.git", 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			root := completeSite(t)
			repo, err := git.PlainInit(root, false)
			require.NoError(t, err)
			_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{tc.origin}})
			require.NoError(t, err)

			findings, err := Run(context.Background(), site.Default(), Options{Root: root, CheckGit: true})
			require.NoError(t, err)
			assert.Len(t, findings.Warnings(), tc.warns)
		})
	}
}

func TestRun_CheckGitWithoutOrigin(t *testing.T) {
	root := completeSite(t)
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)

	findings, err := Run(context.Background(), site.Default(), Options{Root: root, CheckGit: true})
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "origin")
}

func TestRun_CheckGitSubdirectory(t *testing.T) {
	repoDir := t.TempDir()
	repo, err := git.PlainInit(repoDir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{"git@github.com:pabpereza/pabpereza.git"}})
	require.NoError(t, err)

	root := filepath.Join(repoDir, "web")
	for _, f := range []string{"sidebars.js", "src/css/custom.css"} {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	findings, err := Run(context.Background(), site.Default(), Options{Root: root, CheckGit: true})
	require.NoError(t, err)
	for _, f := range findings {
		assert.NotEqual(t, "git", f.Field)
		assert.NotContains(t, f.Field, "editUrl")
	}
}

func TestRepoSlug(t *testing.T) {
	for in, want := range map[string]string{
		"https://github.com/pabpereza/pabpereza/tree/main/": "github.com/pabpereza/pabpereza",
		"https://GitHub.com/pabpereza/pabpereza.git":        "github.com/pabpereza/pabpereza",
		"git@github.com:pabpereza/pabpereza.git":            "github.com/pabpereza/pabpereza",
		"ssh://git@github.com:22/pabpereza/pabpereza.git":   "github.com/pabpereza/pabpereza",
		"https://github.com/pabpereza":                      "",
		"not a url":                                         "",
	} {
		assert.Equal(t, want, repoSlug(in), in)
	}
}

func TestStaticPath(t *testing.T) {
	assert.Equal(t, "static/img/logo.png", staticPath("/img/logo.png"))
	assert.Equal(t, "", staticPath("https://cdn.example.com/logo.png"))
	assert.Equal(t, "", staticPath(""))
}
