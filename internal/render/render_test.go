package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/locales/en"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/stamp/internal/locale"
)

// utcFormatter renders instants as RFC 3339 in UTC so expectations do not
// depend on locale data.
type utcFormatter struct{}

func (utcFormatter) Format(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func mustRenderer(t *testing.T, marker string) *Renderer {
	t.Helper()
	r, err := New(utcFormatter{}, marker)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("html.Parse: %v", err)
	}
	return doc
}

func textOf(root *html.Node, id string) string {
	return goquery.NewDocumentFromNode(root).Find("#" + id).Text()
}

func TestParseEpoch(t *testing.T) {
	tests := []struct {
		in     string
		wantOK bool
		wantMS int64
	}{
		{"0", true, 0},
		{"1700000000", true, 1700000000000},
		{"  86400\n", true, 86400000},
		{"", true, 0},
		{"   ", true, 0},
		{"+42", true, 42000},
		{"-1", true, -1000},
		{"1.5", true, 1500},
		{"1.9999", true, 1999},
		{"-1.5", true, -1500},
		{".5", true, 500},
		{"5.", true, 5000},
		{"1e3", true, 1000000},
		{"8640000000000", true, 8640000000000000},
		{"-8640000000000", true, -8640000000000000},
		{"8640000000001", false, 0},
		{"1e20", false, 0},
		{"1e400", false, 0},
		{"abc", false, 0},
		{"12abc", false, 0},
		{"0x10", false, 0},
		{"0b1", false, 0},
		{"0o7", false, 0},
		{"Infinity", false, 0},
		{"NaN", false, 0},
		{"1_000", false, 0},
		{"1 000", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseEpoch(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseEpoch(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got.UnixMilli() != tt.wantMS {
				t.Errorf("ParseEpoch(%q) = %d ms, want %d", tt.in, got.UnixMilli(), tt.wantMS)
			}
		})
	}
}

func TestNew(t *testing.T) {
	if _, err := New(nil, ""); !errors.Is(err, ErrNoFormatter) {
		t.Errorf("New(nil) error = %v, want ErrNoFormatter", err)
	}

	r, err := New(utcFormatter{}, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Marker() != DefaultMarker {
		t.Errorf("Marker = %q, want %q", r.Marker(), DefaultMarker)
	}

	for _, bad := range []string{"two words", ".datetime", "1abc", "a>b", "x[y]"} {
		if _, err := New(utcFormatter{}, bad); err == nil {
			t.Errorf("New(%q) should fail", bad)
		}
	}
}

func TestRenderScenario(t *testing.T) {
	doc := parse(t, `<!DOCTYPE html><html><body><div id="root">
<span id="a" class="datetime">0</span>
<span id="b" class="datetime">1700000000</span>
<span id="c">hello</span>
</div></body></html>`)

	stats, err := mustRenderer(t, "").Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if stats.Elements != 2 || stats.Invalid != 0 {
		t.Errorf("stats = %+v, want 2 elements, 0 invalid", stats)
	}

	if got, want := textOf(doc, "a"), "1970-01-01T00:00:00Z"; got != want {
		t.Errorf("a = %q, want %q", got, want)
	}
	if got, want := textOf(doc, "b"), time.Unix(1700000000, 0).UTC().Format(time.RFC3339Nano); got != want {
		t.Errorf("b = %q, want %q", got, want)
	}
	if got := textOf(doc, "c"); got != "hello" {
		t.Errorf("c = %q, want unchanged", got)
	}
}

func TestRenderLeavesUnmarkedElements(t *testing.T) {
	doc := parse(t, `<p id="p" class="date">1700000000</p><p id="q" class="datetimes">1700000000</p>`)

	stats, err := mustRenderer(t, "").Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if stats.Elements != 0 {
		t.Errorf("Elements = %d, want 0", stats.Elements)
	}
	for _, id := range []string{"p", "q"} {
		if got := textOf(doc, id); got != "1700000000" {
			t.Errorf("%s = %q, want unchanged", id, got)
		}
	}
}

func TestRenderIndependentElements(t *testing.T) {
	doc := parse(t, `<i id="late" class="datetime">86400</i><i id="early" class="datetime">0</i>`)

	if _, err := mustRenderer(t, "").Render(doc); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := textOf(doc, "early"); got != "1970-01-01T00:00:00Z" {
		t.Errorf("early = %q", got)
	}
	if got := textOf(doc, "late"); got != "1970-01-02T00:00:00Z" {
		t.Errorf("late = %q", got)
	}
}

func TestRenderInvalidText(t *testing.T) {
	doc := parse(t, `<span id="bad" class="datetime">abc</span><span id="ok" class="datetime">0</span>`)

	stats, err := mustRenderer(t, "").Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if stats.Elements != 2 || stats.Invalid != 1 {
		t.Errorf("stats = %+v, want 2 elements, 1 invalid", stats)
	}
	if got := textOf(doc, "bad"); got != InvalidDate {
		t.Errorf("bad = %q, want %q", got, InvalidDate)
	}
	if got := textOf(doc, "ok"); got != "1970-01-01T00:00:00Z" {
		t.Errorf("ok = %q", got)
	}
}

func TestRenderIsNotIdempotent(t *testing.T) {
	doc := parse(t, `<span id="x" class="datetime">1700000000</span>`)
	r := mustRenderer(t, "")

	if _, err := r.Render(doc); err != nil {
		t.Fatalf("first Render: %v", err)
	}
	stats, err := r.Render(doc)
	if err != nil {
		t.Fatalf("second Render: %v", err)
	}
	if stats.Invalid != 1 {
		t.Errorf("second pass Invalid = %d, want 1", stats.Invalid)
	}
	if got := textOf(doc, "x"); got != InvalidDate {
		t.Errorf("x = %q, want %q", got, InvalidDate)
	}
}

func TestRenderMultipleClassesAndNestedText(t *testing.T) {
	doc := parse(t, `<span id="x" class="muted datetime small"><b>86</b>400</span>`)

	if _, err := mustRenderer(t, "").Render(doc); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := textOf(doc, "x"); got != "1970-01-02T00:00:00Z" {
		t.Errorf("x = %q", got)
	}
	if n := goquery.NewDocumentFromNode(doc).Find("#x b").Length(); n != 0 {
		t.Errorf("child elements remaining = %d, want 0", n)
	}
}

func TestSelectExcludesRoot(t *testing.T) {
	doc := parse(t, `<div id="outer" class="datetime"><span class="datetime">0</span></div>`)
	outer := goquery.NewDocumentFromNode(doc).Find("#outer").Nodes[0]

	nodes := mustRenderer(t, "").Select(outer)
	if len(nodes) != 1 || nodes[0].Data != "span" {
		t.Fatalf("Select = %v, want only the inner span", nodes)
	}
	if got := mustRenderer(t, "").Select(nil); got != nil {
		t.Errorf("Select(nil) = %v, want nil", got)
	}
}

func TestRenderPreconditions(t *testing.T) {
	if _, err := mustRenderer(t, "").Render(nil); !errors.Is(err, ErrNilRoot) {
		t.Errorf("Render(nil) error = %v, want ErrNilRoot", err)
	}

	doc := parse(t, `<span id="x" class="datetime">0</span>`)
	var zero Renderer
	if _, err := zero.Render(doc); !errors.Is(err, ErrNoFormatter) {
		t.Errorf("zero Renderer error = %v, want ErrNoFormatter", err)
	}
	if got := textOf(doc, "x"); got != "0" {
		t.Errorf("x = %q, tree must be untouched on precondition failure", got)
	}
}

func TestRenderEscapesFormattedText(t *testing.T) {
	r, err := New(formatterFunc(func(time.Time) string { return "<b>&</b>" }), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, _, err := r.RenderString(`<span class="datetime">0</span>`)
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if want := `<span class="datetime">&lt;b&gt;&amp;&lt;/b&gt;</span>`; out != want {
		t.Errorf("out = %q, want %q", out, want)
	}
}

type formatterFunc func(time.Time) string

func (f formatterFunc) Format(t time.Time) string { return f(t) }

func TestRenderStringFragment(t *testing.T) {
	out, stats, err := mustRenderer(t, "ts").RenderString(`<p>Created <time class="ts">0</time></p><p class="datetime">0</p>`)
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	want := `<p>Created <time class="ts">1970-01-01T00:00:00Z</time></p><p class="datetime">0</p>`
	if out != want {
		t.Errorf("out = %q, want %q", out, want)
	}
	if stats.Elements != 1 {
		t.Errorf("Elements = %d, want 1", stats.Elements)
	}
}

func TestRenderStringDocument(t *testing.T) {
	out, _, err := mustRenderer(t, "").RenderString(`<!DOCTYPE html><html><head><title>t</title></head><body><span class="datetime">0</span></body></html>`)
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("doctype lost: %q", out)
	}
	if !strings.Contains(out, `<span class="datetime">1970-01-01T00:00:00Z</span>`) {
		t.Errorf("timestamp not rendered: %q", out)
	}
}

func TestIsDocument(t *testing.T) {
	tests := map[string]bool{
		"<!DOCTYPE html><html></html>": true,
		"  <html lang=\"en\">":          true,
		"<p>hi</p>":                     false,
		"":                              false,
	}
	for in, want := range tests {
		if got := IsDocument([]byte(in)); got != want {
			t.Errorf("IsDocument(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRenderTimestampsWithLocale(t *testing.T) {
	doc := parse(t, `<span id="x" class="datetime">1700000000</span>`)
	f := locale.NewFormatter(en.New(), time.UTC)

	if _, err := RenderTimestamps(doc, f); err != nil {
		t.Fatalf("RenderTimestamps: %v", err)
	}
	if got, want := textOf(doc, "x"), f.Format(time.Unix(1700000000, 0)); got != want {
		t.Errorf("x = %q, want %q", got, want)
	}
}

func TestStatsAdd(t *testing.T) {
	s := Stats{Elements: 1, Invalid: 1}
	s.Add(Stats{Elements: 2})
	if s != (Stats{Elements: 3, Invalid: 1}) {
		t.Errorf("stats = %+v", s)
	}
}
