package linkcheck

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// rawLink is a link destination as written in a page, with its body line.
type rawLink struct {
	Destination string
	Line        int
	Image       bool
}

// extractLinks parses a markdown body and returns inline, reference and image
// links. Autolinks are always absolute and are skipped.
func extractLinks(body []byte, lineOffset int) []rawLink {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var links []rawLink
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Link:
			links = append(links, rawLink{
				Destination: string(node.Destination),
				Line:        lineOf(body, node, lineOffset),
			})
		case *gmast.Image:
			links = append(links, rawLink{
				Destination: string(node.Destination),
				Line:        lineOf(body, node, lineOffset),
				Image:       true,
			})
		}
		return gmast.WalkContinue, nil
	})
	return links
}

// lineOf finds the 1-based file line of a link from its first text segment.
// It returns 0 when the link has no text (e.g. an empty image alt).
func lineOf(body []byte, n gmast.Node, offset int) int {
	for c := n.FirstChild(); c != nil; c = c.FirstChild() {
		if t, ok := c.(*gmast.Text); ok {
			return bytes.Count(body[:t.Segment.Start], []byte("\n")) + 1 + offset
		}
	}
	return 0
}
