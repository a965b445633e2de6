// Package headtags renders the elements injected into every page head: the
// declared head tags, the metadata tags and the external scripts.
package headtags

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	ferrors "github.com/pabpereza/docsite/internal/foundation/errors"
	"github.com/pabpereza/docsite/internal/site"
)

// Nodes builds the head fragment for cfg in injection order: metadata, head
// tags (including JSON-LD), then scripts.
func Nodes(cfg *site.Config) ([]*html.Node, error) {
	headTags, err := cfg.HeadTags()
	if err != nil {
		return nil, err
	}

	var nodes []*html.Node
	for _, m := range cfg.MetadataTags() {
		nodes = append(nodes, element("meta", []html.Attribute{
			{Key: "name", Val: m.Name},
			{Key: "content", Val: m.Content},
		}, ""))
	}
	for _, tag := range headTags {
		attrs := make([]html.Attribute, 0, len(tag.Attributes))
		for _, a := range tag.Attributes {
			attrs = append(attrs, html.Attribute{Key: a.Name, Val: a.Value})
		}
		nodes = append(nodes, element(tag.TagName, attrs, tag.InnerHTML))
	}
	for _, s := range cfg.Scripts() {
		attrs := []html.Attribute{{Key: "src", Val: s.Src}}
		if s.Async {
			attrs = append(attrs, html.Attribute{Key: "async"})
		}
		if s.CrossOrigin != "" {
			attrs = append(attrs, html.Attribute{Key: "crossorigin", Val: s.CrossOrigin})
		}
		nodes = append(nodes, element("script", attrs, ""))
	}
	return nodes, nil
}

// element builds an element node. Script and style bodies are raw text and
// are emitted unescaped by html.Render.
func element(name string, attrs []html.Attribute, inner string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     name,
		DataAtom: atom.Lookup([]byte(name)),
		Attr:     attrs,
	}
	if inner != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: inner})
	}
	return n
}

// Render writes the head fragment as HTML, one element per line.
func Render(cfg *site.Config) ([]byte, error) {
	nodes, err := Nodes(cfg)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "build head tags").Build()
	}
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryRender, fmt.Sprintf("render <%s>", n.Data)).Build()
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
