// Package render rewrites epoch timestamps inside marked HTML elements into
// locale-formatted date/time text.
//
// A pass has two halves: Select finds the marked descendants of a root node,
// and FormatText turns one element's text into its replacement. Render runs
// both over a tree and mutates it in place.
package render

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// DefaultMarker is the class that marks elements holding epoch seconds.
const DefaultMarker = "datetime"

var (
	// ErrNilRoot is returned when a pass is asked to walk a nil tree.
	ErrNilRoot = errors.New("render: nil root node")
	// ErrNoFormatter is returned by a Renderer that has no formatter.
	ErrNoFormatter = errors.New("render: no formatter configured")
)

var classIdent = regexp.MustCompile(`^-?[_a-zA-Z][_a-zA-Z0-9-]*$`)

// Formatter renders an instant as display text.
type Formatter interface {
	Format(t time.Time) string
}

// Stats summarises one or more render passes.
type Stats struct {
	Elements int `json:"elements"`
	Invalid  int `json:"invalid"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Elements += o.Elements
	s.Invalid += o.Invalid
}

// Renderer rewrites the text of elements carrying a marker class.
type Renderer struct {
	marker    string
	selector  cascadia.Selector
	formatter Formatter
}

// New returns a Renderer that formats with f and selects elements with the
// class marker. An empty marker means DefaultMarker.
func New(f Formatter, marker string) (*Renderer, error) {
	if f == nil {
		return nil, ErrNoFormatter
	}
	if marker == "" {
		marker = DefaultMarker
	}
	if !classIdent.MatchString(marker) {
		return nil, fmt.Errorf("render: invalid marker class %q", marker)
	}
	sel, err := cascadia.Compile("." + marker)
	if err != nil {
		return nil, fmt.Errorf("render: compiling marker %q: %w", marker, err)
	}
	return &Renderer{marker: marker, selector: sel, formatter: f}, nil
}

// Marker returns the class this renderer selects on.
func (r *Renderer) Marker() string { return r.marker }

// Select returns the marked descendants of root in document order. The root
// itself is never included.
func (r *Renderer) Select(root *html.Node) []*html.Node {
	if root == nil {
		return nil
	}
	return goquery.NewDocumentFromNode(root).FindMatcher(r.selector).Nodes
}

// FormatText converts one element's text. ok is false when the text is not
// a usable timestamp and InvalidDate is returned.
func (r *Renderer) FormatText(text string) (out string, ok bool) {
	t, ok := ParseEpoch(text)
	if !ok {
		return InvalidDate, false
	}
	return r.formatter.Format(t), true
}

// Render replaces the content of every marked descendant of root with its
// formatted timestamp. Preconditions are checked before the tree is touched.
//
// Rendering is not idempotent: formatted text no longer parses as a number,
// so a second pass turns every element into InvalidDate.
func (r *Renderer) Render(root *html.Node) (Stats, error) {
	var stats Stats
	if root == nil {
		return stats, ErrNilRoot
	}
	if r == nil || r.formatter == nil || r.selector == nil {
		return stats, ErrNoFormatter
	}

	for _, n := range r.Select(root) {
		el := goquery.NewDocumentFromNode(n).Selection
		out, ok := r.FormatText(el.Text())
		el.SetText(out)
		stats.Elements++
		if !ok {
			stats.Invalid++
		}
	}
	return stats, nil
}

// RenderTimestamps renders every DefaultMarker element under root with f.
func RenderTimestamps(root *html.Node, f Formatter) (Stats, error) {
	r, err := New(f, DefaultMarker)
	if err != nil {
		return Stats{}, err
	}
	return r.Render(root)
}
