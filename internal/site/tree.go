package site

import (
	"fmt"
	"html"
	"path"
	"sort"
	"strings"
)

// FileTree is a node in the navigation tree of generated Markdown pages.
type FileTree struct {
	Name     string
	Title    string // from the page's H1, or the formatted directory name
	Path     string // relative source path for pages, directory path for dirs
	IsDir    bool
	Children []*FileTree
}

// BuildTree constructs a FileTree from slash-separated relative paths.
// titleMap optionally maps a path to its display title.
func BuildTree(paths []string, titleMap map[string]string) *FileTree {
	root := &FileTree{Name: "", IsDir: true}

	for _, p := range paths {
		parts := strings.Split(p, "/")
		current := root
		for i, part := range parts {
			isLast := i == len(parts)-1
			var next *FileTree
			for _, child := range current.Children {
				if child.Name == part && child.IsDir != isLast {
					next = child
					break
				}
			}
			if next == nil {
				next = &FileTree{Name: part, IsDir: !isLast}
				if isLast {
					next.Path = p
					next.Title = titleMap[p]
				} else {
					next.Path = strings.Join(parts[:i+1], "/")
					next.Title = formatDirName(part)
				}
				current.Children = append(current.Children, next)
			}
			current = next
		}
	}

	sortTree(root)
	return root
}

// sortTree orders children directories first, then by name.
func sortTree(node *FileTree) {
	sort.Slice(node.Children, func(i, j int) bool {
		if node.Children[i].IsDir != node.Children[j].IsDir {
			return node.Children[i].IsDir
		}
		return node.Children[i].Name < node.Children[j].Name
	})
	for _, child := range node.Children {
		if child.IsDir {
			sortTree(child)
		}
	}
}

// ToHTML renders the tree as nested lists. basePath leads from the active
// page back to the site root, e.g. "../" for a page one directory deep.
func (t *FileTree) ToHTML(activePath, basePath string) string {
	var b strings.Builder
	renderChildren(&b, t, activePath, basePath)
	return b.String()
}

func renderChildren(b *strings.Builder, node *FileTree, activePath, basePath string) {
	if len(node.Children) == 0 {
		return
	}
	b.WriteString("<ul>\n")
	for _, child := range node.Children {
		if child.IsDir {
			open := ""
			if strings.HasPrefix(activePath, child.Path+"/") {
				open = " open"
			}
			fmt.Fprintf(b, `<li class="dir%s"><span>%s</span>`+"\n", open, html.EscapeString(child.Title))
			renderChildren(b, child, activePath, basePath)
			b.WriteString("</li>\n")
			continue
		}

		label := child.Title
		if label == "" {
			label = strings.TrimSuffix(child.Name, path.Ext(child.Name))
		}
		active := ""
		if child.Path == activePath {
			active = ` class="active"`
		}
		fmt.Fprintf(b, `<li><a href="%s%s"%s>%s</a></li>`+"\n",
			basePath, mdPathToHTML(child.Path), active, html.EscapeString(label))
	}
	b.WriteString("</ul>\n")
}

// mdPathToHTML converts a Markdown path to the path of its generated page.
func mdPathToHTML(p string) string {
	for _, ext := range []string{".md", ".markdown"} {
		if strings.HasSuffix(strings.ToLower(p), ext) {
			return p[:len(p)-len(ext)] + ".html"
		}
	}
	return p
}

// formatDirName title-cases a directory slug: "release-notes" → "Release Notes".
func formatDirName(name string) string {
	words := strings.FieldsFunc(name, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
