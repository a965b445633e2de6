package linkcheck

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
)

const (
	docsRoute = "/docs"
	blogRoute = "/blog"

	lunrSearchPlugin = "docusaurus-lunr-search"
)

var (
	// 01-intro.md is published as "intro".
	numberPrefix = regexp.MustCompile(`^\d+[-_.]`)
	// 2024-05-01-release.md, 2024-05-01-release/index.md
	datedPost = regexp.MustCompile(`^(\d{4})[-/](\d{2})[-/](\d{2})[-/](.+)$`)
)

// RouteSet is the set of URL paths the generator publishes.
type RouteSet map[string]struct{}

func (r RouteSet) add(route string) { r[normalizeRoute(route)] = struct{}{} }

// Has reports whether route is published. Trailing slashes are ignored.
func (r RouteSet) Has(route string) bool {
	_, ok := r[normalizeRoute(route)]
	return ok
}

// Sorted returns the routes in lexical order.
func (r RouteSet) Sorted() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func normalizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
		if route == "" {
			route = "/"
		}
	}
	return route
}

func stripExt(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

func stripNumberPrefixes(rel string) string {
	parts := strings.Split(rel, "/")
	for i, p := range parts {
		if trimmed := numberPrefix.ReplaceAllString(p, ""); trimmed != "" {
			parts[i] = trimmed
		}
	}
	return strings.Join(parts, "/")
}

// isIndexDoc reports whether a doc file stands for its directory: index,
// README, or a file named after its parent directory.
func isIndexDoc(rel string) bool {
	name := strings.ToLower(stripExt(path.Base(rel)))
	if name == "index" || name == "readme" {
		return true
	}
	dir := path.Dir(rel)
	return dir != "." && strings.EqualFold(stripNumberPrefixes(path.Base(dir)), stripNumberPrefixes(stripExt(path.Base(rel))))
}

// docRoute derives the published route of a doc from its path relative to
// the docs directory and its frontmatter.
func docRoute(rel string, meta pageMeta) string {
	dir := path.Dir(rel)
	if dir == "." {
		dir = ""
	}
	cleanDir := stripNumberPrefixes(dir)

	if meta.Slug != "" {
		if strings.HasPrefix(meta.Slug, "/") {
			return normalizeRoute(docsRoute + meta.Slug)
		}
		return normalizeRoute(path.Join(docsRoute, cleanDir, meta.Slug))
	}
	if meta.ID == "" && isIndexDoc(rel) {
		return normalizeRoute(path.Join(docsRoute, cleanDir))
	}
	id := meta.ID
	if id == "" {
		id = stripNumberPrefixes(stripExt(path.Base(rel)))
	}
	return normalizeRoute(path.Join(docsRoute, cleanDir, id))
}

// blogPostRoute derives the published route of a post from its path relative to
// the blog directory and its frontmatter. Dated posts are published under
// /blog/YYYY/MM/DD/name.
func blogPostRoute(rel string, meta pageMeta) string {
	if meta.Slug != "" {
		return normalizeRoute(path.Join(blogRoute, strings.TrimPrefix(meta.Slug, "/")))
	}
	name := stripExt(rel)
	if strings.EqualFold(path.Base(name), "index") {
		name = path.Dir(name)
	}
	if m := datedPost.FindStringSubmatch(name); m != nil {
		return normalizeRoute(path.Join(blogRoute, m[1], m[2], m[3], m[4]))
	}
	return normalizeRoute(path.Join(blogRoute, name))
}

// pageRoute derives the route of a src/pages file.
func pageRoute(rel string) string {
	name := stripExt(rel)
	if strings.EqualFold(path.Base(name), "index") {
		name = path.Dir(name)
		if name == "." {
			name = ""
		}
	}
	return normalizeRoute("/" + name)
}

// tagRoute returns the listing route of a tag under base ("/blog" or "/docs").
func tagRoute(base, label string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(label), "-"))
	return normalizeRoute(path.Join(base, "tags", slug))
}

// blogListingRoutes returns the blog index, archive, tag index and pagination routes.
func blogListingRoutes(posts, perPage int) []string {
	routes := []string{blogRoute, blogRoute + "/archive", blogRoute + "/tags"}
	if perPage <= 0 {
		return routes
	}
	pages := (posts + perPage - 1) / perPage
	for p := 2; p <= pages; p++ {
		routes = append(routes, fmt.Sprintf("%s/page/%d", blogRoute, p))
	}
	return routes
}
