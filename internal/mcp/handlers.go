package mcp

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/stamp/internal/history"
	"github.com/ziadkadry99/stamp/internal/locale"
	"github.com/ziadkadry99/stamp/internal/render"
)

// handleFormatTimestamp formats a single epoch value.
func (s *Server) handleFormatTimestamp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ts, err := request.RequireString("ts")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: ts"), nil
	}

	f, err := s.formatterFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t, ok := render.ParseEpoch(ts)
	if !ok {
		return mcp.NewToolResultText(render.InvalidDate), nil
	}
	return mcp.NewToolResultText(f.Format(t)), nil
}

// handleRenderHTML renders the timestamps of an HTML document or fragment.
func (s *Server) handleRenderHTML(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := request.RequireString("html")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: html"), nil
	}

	f, err := s.formatterFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	r, err := render.New(f, s.marker)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	run := history.Run{
		StartedAt: time.Now(),
		Source:    history.SourceMCP,
		Target:    "render_html",
		Locale:    f.Tag().String(),
		Timezone:  f.Location().String(),
		Files:     1,
	}
	out, stats, err := r.RenderString(src)
	finished := time.Now()
	run.FinishedAt = &finished
	run.Elements, run.Invalid = stats.Elements, stats.Invalid
	if err != nil {
		run.Error = err.Error()
	}
	s.record(ctx, run)

	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

// handleListLocales lists the supported locales, marking the default one.
func (s *Server) handleListLocales(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	def := s.fallback.Tag()

	var sb strings.Builder
	for _, tag := range s.registry.Tags() {
		sb.WriteString(tag.String())
		if tag == def {
			sb.WriteString(" (default)")
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatterFor resolves the optional locale and timezone arguments against
// the server's fallback formatter.
func (s *Server) formatterFor(request mcp.CallToolRequest) (*locale.Formatter, error) {
	name := request.GetString("locale", "")
	tz := request.GetString("timezone", "")
	if name == "" && tz == "" {
		return s.fallback, nil
	}

	loc := s.fallback.Location()
	if tz != "" {
		l, err := locale.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("unknown timezone %q", tz)
		}
		loc = l
	}
	if name == "" {
		name = s.fallback.Tag().String()
	}
	return s.registry.ForLocale(name, loc), nil
}

func (s *Server) record(ctx context.Context, run history.Run) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Record(ctx, run); err != nil {
		log.Printf("mcp: recording run: %v", err)
	}
}
