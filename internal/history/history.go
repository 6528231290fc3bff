// Package history records render runs in the stamp database.
package history

import "time"

// Source identifies what triggered a run.
type Source string

const (
	SourceCLI   Source = "cli"
	SourceBuild Source = "build"
	SourceHTTP  Source = "http"
	SourceMCP   Source = "mcp"
)

// Run is one render pass over one or more files.
type Run struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Source     Source     `json:"source"`
	Target     string     `json:"target"`
	Locale     string     `json:"locale"`
	Timezone   string     `json:"timezone"`
	Files      int        `json:"files"`
	Elements   int        `json:"elements"`
	Invalid    int        `json:"invalid"`
	Error      string     `json:"error,omitempty"`
}
