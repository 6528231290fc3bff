package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// sniffLen is how much of the input is inspected to tell a full document
// from a fragment.
const sniffLen = 512

// RenderHTML parses src, renders its timestamps and writes the serialised
// result to dst. Input that starts like a full document (doctype or <html>)
// is parsed as one; anything else is treated as a body fragment and written
// back without the html/head/body wrappers the parser would add.
func (r *Renderer) RenderHTML(src io.Reader, dst io.Writer) (Stats, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return Stats{}, fmt.Errorf("reading html: %w", err)
	}

	if IsDocument(data) {
		doc, err := html.Parse(bytes.NewReader(data))
		if err != nil {
			return Stats{}, fmt.Errorf("parsing html document: %w", err)
		}
		stats, err := r.Render(doc)
		if err != nil {
			return stats, err
		}
		if err := html.Render(dst, doc); err != nil {
			return stats, fmt.Errorf("writing html: %w", err)
		}
		return stats, nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(data), body)
	if err != nil {
		return Stats{}, fmt.Errorf("parsing html fragment: %w", err)
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	stats, err := r.Render(root)
	if err != nil {
		return stats, err
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(dst, c); err != nil {
			return stats, fmt.Errorf("writing html: %w", err)
		}
	}
	return stats, nil
}

// RenderString is RenderHTML over strings.
func (r *Renderer) RenderString(s string) (string, Stats, error) {
	var buf strings.Builder
	stats, err := r.RenderHTML(strings.NewReader(s), &buf)
	if err != nil {
		return "", stats, err
	}
	return buf.String(), stats, nil
}

// IsDocument reports whether data looks like a complete HTML document
// rather than a fragment.
func IsDocument(data []byte) bool {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	head = bytes.ToLower(head)
	return bytes.Contains(head, []byte("<!doctype")) || bytes.Contains(head, []byte("<html"))
}
