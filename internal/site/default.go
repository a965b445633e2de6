package site

const (
	siteURL     = "https://pabpereza.dev"
	repoURL     = "https://github.com/pabpereza/pabpereza"
	editURLBase = repoURL + "/tree/main/"
)

// Default builds the Pabpereza site configuration. Each call returns a fresh
// record; nothing is shared between calls.
func Default() *Config {
	trailingSlash := false
	return &Config{
		Identity: Identity{
			Title:            "Pabpereza",
			Tagline:          "Blog, cursos y documentación de Pabpereza DevSecOps",
			Favicon:          "img/logo_icon.png",
			URL:              siteURL,
			BaseURL:          "/",
			TrailingSlash:    &trailingSlash,
			OrganizationName: "pabpereza",
			ProjectName:      "pabpereza",
		},
		OnBrokenLinks:         PolicyThrow,
		OnBrokenMarkdownLinks: PolicyWarn,
		Markdown:              MarkdownOptions{Mermaid: true},
		I18n: I18n{
			DefaultLocale: "es",
			Locales:       []string{"es"},
		},
		Preset: PresetOptions{
			Name: "classic",
			Docs: DocsOptions{
				SidebarPath: "./sidebars.js",
				EditURL:     editURLBase,
			},
			Blog: BlogOptions{
				ShowReadingTime:  true,
				EditURL:          editURLBase,
				PostsPerPage:     3,
				BlogSidebarCount: "ALL",
			},
			Theme: ThemeOptions{CustomCSS: "./src/css/custom.css"},
		},
		Theme: ThemeConfig{
			Image: "img/docusaurus-social-card.jpg",
			Docs: ThemeDocs{Sidebar: DocsSidebar{
				Hideable:               true,
				AutoCollapseCategories: true,
			}},
			Navbar: Navbar{
				Title:        "PPZ - Pabpereza",
				HideOnScroll: true,
				Items: []NavbarItem{
					{To: "/docs", Label: "Cursos", Position: PositionLeft},
					{To: "/blog", Label: "Blog", Position: PositionLeft},
					{To: "https://www.youtube.com/@Pabpereza?sub_confirmation=1", Label: "Youtube", Position: PositionLeft},
					{Href: "https://twitter.com/pabpereza", ClassName: "header-x-link", Position: PositionRight},
					{Href: "https://www.instagram.com/pabpereza/", ClassName: "header-instagram-link", Position: PositionRight},
					{Href: "https://www.linkedin.com/in/pablo-p%C3%A9rez-aradros-calvo-516634109/", ClassName: "header-linkedin-link", Position: PositionRight},
					{Href: "https://www.tiktok.com/@pabpereza", ClassName: "header-tiktok-link", Position: PositionRight},
					// The repository link is declared twice with different classes.
					{Href: repoURL, ClassName: "test", Position: PositionRight},
					{Href: repoURL, ClassName: "header-github-link", Position: PositionRight},
				},
			},
			Footer: Footer{
				Style: "dark",
				Links: []FooterGroup{
					{Title: "Contenido", Items: []FooterItem{
						{Label: "Cursos", To: "/docs"},
					}},
					{Title: "Community", Items: []FooterItem{
						{Label: "Blog", Href: "/blog"},
						{Label: "GitHub", Href: repoURL},
					}},
					{Title: "More", Items: []FooterItem{
						{Label: "LinkedIn", Href: "https://www.linkedin.com/in/pabpereza/"},
						{Label: "X - Twitter", Href: "https://x.com/pabpereza"},
					}},
				},
			},
			ColorMode: ColorMode{
				DisableSwitch:             false,
				RespectPrefersColorScheme: true,
			},
			Metadata: []MetaTag{
				{Name: "keywords", Content: "devsecops, devops, programación, docker, kubernetes, seguridad, Blog"},
				{Name: "twitter:card", Content: "summary"},
				{Name: "description", Content: "Blog, cursos y documentación de DevOps, Seguridad, programación, docker, kubernetes y mucho más."},
			},
			Prism: Prism{Theme: "github", DarkTheme: "dracula"},
		},
		Analytics: AnalyticsConfig{
			GTMContainerID: "GTM-NBFV5MMS",
			GtagTrackingID: "G-40PL0BKGD3",
			AnonymizeIP:    true,
			AdSenseClient:  "ca-pub-2204030225179360",
		},
		Organization: Organization{
			Name:     "Pabpereza.dev",
			LogoPath: "img/logo.png",
		},
		Themes:  []string{"@docusaurus/theme-mermaid"},
		Plugins: []string{"docusaurus-lunr-search"},
	}
}
