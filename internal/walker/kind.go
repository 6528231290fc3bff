package walker

import (
	"path/filepath"
	"strings"
)

// Kind classifies a discovered file by how a build treats it.
type Kind string

const (
	KindHTML     Kind = "html"
	KindMarkdown Kind = "markdown"
	KindAsset    Kind = "asset"
)

// extensionToKind maps lower-cased file extensions to kinds. Anything not
// listed is an asset.
var extensionToKind = map[string]Kind{
	".html":     KindHTML,
	".htm":      KindHTML,
	".xhtml":    KindHTML,
	".md":       KindMarkdown,
	".markdown": KindMarkdown,
}

// DetectKind returns the Kind for a file name.
func DetectKind(name string) Kind {
	if k, ok := extensionToKind[strings.ToLower(filepath.Ext(name))]; ok {
		return k
	}
	return KindAsset
}
