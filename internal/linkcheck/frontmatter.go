package linkcheck

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// pageMeta is the subset of page frontmatter that affects routing.
type pageMeta struct {
	ID    string `yaml:"id"`
	Slug  string `yaml:"slug"`
	Draft bool   `yaml:"draft"`
	Tags  []any  `yaml:"tags"`
}

// tagLabels returns tag labels; tags may be plain strings or {label, permalink} objects.
func (m pageMeta) tagLabels() []string {
	var out []string
	for _, t := range m.Tags {
		switch v := t.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			if label, ok := v["label"].(string); ok {
				out = append(out, label)
			}
		}
	}
	return out
}

// splitFrontmatter separates a leading `---` YAML block from the body. lines
// is the number of lines consumed by the block, used to report body line numbers.
func splitFrontmatter(content []byte) (fm, body []byte, lines int, err error) {
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return nil, normalized, 0, nil
	}
	rest := normalized[len("---\n"):]
	if bytes.HasPrefix(rest, []byte("---\n")) {
		return []byte{}, rest[len("---\n"):], 2, nil
	}
	end := bytes.Index(rest, []byte("\n---\n"))
	if end < 0 {
		if bytes.HasSuffix(rest, []byte("\n---")) {
			end = len(rest) - len("\n---")
			fm = rest[:end+1]
			return fm, nil, bytes.Count(fm, []byte("\n")) + 2, nil
		}
		return nil, nil, 0, fmt.Errorf("frontmatter opened with --- but never closed")
	}
	fm = rest[:end+1]
	body = rest[end+len("\n---\n"):]
	return fm, body, bytes.Count(fm, []byte("\n")) + 2, nil
}

func parseMeta(fm []byte) (pageMeta, error) {
	var meta pageMeta
	if len(bytes.TrimSpace(fm)) == 0 {
		return meta, nil
	}
	if err := yaml.Unmarshal(fm, &meta); err != nil {
		return meta, fmt.Errorf("parse frontmatter: %w", err)
	}
	meta.ID = strings.TrimSpace(meta.ID)
	meta.Slug = strings.TrimSpace(meta.Slug)
	return meta, nil
}
