// Package site builds a directory of HTML and Markdown pages into a static
// site whose timestamps are already rendered.
package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/stamp/internal/progress"
	"github.com/ziadkadry99/stamp/internal/render"
	"github.com/ziadkadry99/stamp/internal/walker"
)

// Builder renders every page under SourceDir into OutputDir.
type Builder struct {
	SourceDir   string
	OutputDir   string
	Renderer    *render.Renderer
	Reporter    progress.Reporter // optional
	Lang        string            // lang attribute of generated Markdown pages
	Include     []string
	Exclude     []string
	MaxFileSize int64
}

// Result summarises a build.
type Result struct {
	Files int          `json:"files"` // files written, pages and assets
	Pages int          `json:"pages"` // HTML and Markdown pages rendered
	Stats render.Stats `json:"stats"`
}

// pageData holds the data passed to the HTML template for each Markdown page.
type pageData struct {
	Title    string
	Lang     string
	Content  template.HTML
	TreeHTML template.HTML
	BasePath string
}

// Build walks SourceDir and writes the rendered site. It stops between files
// once ctx is done and returns the context error.
func (b *Builder) Build(ctx context.Context) (Result, error) {
	if b.Renderer == nil {
		return Result{}, render.ErrNoFormatter
	}

	files, err := walker.Walk(walker.Config{
		RootDir:     b.SourceDir,
		Include:     b.Include,
		Exclude:     append(b.outputExcludes(), b.Exclude...),
		MaxFileSize: b.MaxFileSize,
	})
	if err != nil {
		return Result{}, fmt.Errorf("walking %s: %w", b.SourceDir, err)
	}
	if len(files) == 0 {
		return Result{}, fmt.Errorf("no files found in %s", b.SourceDir)
	}

	var mdPaths []string
	titleMap := make(map[string]string)
	for _, f := range files {
		if f.Kind != walker.KindMarkdown {
			continue
		}
		mdPaths = append(mdPaths, f.RelPath)
		if content, err := os.ReadFile(f.Path); err == nil {
			titleMap[f.RelPath] = extractTitle(string(content), f.RelPath)
		}
	}
	tree := BuildTree(mdPaths, titleMap)

	if err := os.MkdirAll(b.OutputDir, 0o755); err != nil {
		return Result{}, err
	}
	if len(mdPaths) > 0 {
		if err := os.WriteFile(filepath.Join(b.OutputDir, "stamp.css"), []byte(cssContent), 0o644); err != nil {
			return Result{}, err
		}
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return Result{}, fmt.Errorf("parsing page template: %w", err)
	}

	if b.Reporter != nil {
		b.Reporter.Start(len(files))
		defer b.Reporter.Finish()
	}

	var res Result
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var stats render.Stats
		switch f.Kind {
		case walker.KindHTML:
			stats, err = b.renderHTML(f)
		case walker.KindMarkdown:
			stats, err = b.renderMarkdown(md, tmpl, tree, f)
		default:
			err = copyFile(f.Path, filepath.Join(b.OutputDir, filepath.FromSlash(f.RelPath)))
		}
		if err != nil {
			return res, fmt.Errorf("building %s: %w", f.RelPath, err)
		}

		res.Files++
		if f.Kind != walker.KindAsset {
			res.Pages++
			res.Stats.Add(stats)
		}
		if b.Reporter != nil {
			b.Reporter.Update(i+1, f.RelPath)
		}
	}
	if len(mdPaths) > 0 {
		res.Files++
	}

	return res, nil
}

// outputExcludes keeps a build from reading its own output when OutputDir
// lives inside SourceDir.
func (b *Builder) outputExcludes() []string {
	src, err := filepath.Abs(b.SourceDir)
	if err != nil {
		return nil
	}
	out, err := filepath.Abs(b.OutputDir)
	if err != nil {
		return nil
	}
	rel, err := filepath.Rel(src, out)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}
	rel = filepath.ToSlash(rel)
	return []string{rel + "/**"}
}

func (b *Builder) renderHTML(f walker.FileInfo) (render.Stats, error) {
	src, err := os.ReadFile(f.Path)
	if err != nil {
		return render.Stats{}, err
	}
	return b.writePage(src, f.RelPath)
}

// renderMarkdown converts a single Markdown file to an HTML page and renders it.
func (b *Builder) renderMarkdown(md goldmark.Markdown, tmpl *template.Template, tree *FileTree, f walker.FileInfo) (render.Stats, error) {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		return render.Stats{}, err
	}

	var body bytes.Buffer
	if err := md.Convert(content, &body); err != nil {
		return render.Stats{}, fmt.Errorf("converting markdown: %w", err)
	}

	htmlRelPath := mdPathToHTML(f.RelPath)
	basePath := strings.Repeat("../", strings.Count(htmlRelPath, "/"))

	lang := b.Lang
	if lang == "" {
		lang = "en"
	}

	var page bytes.Buffer
	err = tmpl.Execute(&page, pageData{
		Title:    extractTitle(string(content), f.RelPath),
		Lang:     lang,
		Content:  template.HTML(rewriteMDLinks(body.String())),
		TreeHTML: template.HTML(tree.ToHTML(f.RelPath, basePath)),
		BasePath: basePath,
	})
	if err != nil {
		return render.Stats{}, fmt.Errorf("executing page template: %w", err)
	}

	return b.writePage(page.Bytes(), htmlRelPath)
}

func (b *Builder) writePage(src []byte, relPath string) (render.Stats, error) {
	outPath := filepath.Join(b.OutputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return render.Stats{}, err
	}

	var out bytes.Buffer
	stats, err := b.Renderer.RenderHTML(bytes.NewReader(src), &out)
	if err != nil {
		return stats, err
	}
	return stats, os.WriteFile(outPath, out.Bytes(), 0o644)
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

// extractTitle pulls the first # heading from markdown content, or falls back to the filename.
func extractTitle(content, relPath string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))
}

// rewriteMDLinks changes .md links in HTML content to .html links.
func rewriteMDLinks(content string) string {
	content = strings.ReplaceAll(content, `.md"`, `.html"`)
	return strings.ReplaceAll(content, `.md#`, `.html#`)
}
