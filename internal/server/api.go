package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ziadkadry99/stamp/internal/history"
	"github.com/ziadkadry99/stamp/internal/locale"
	"github.com/ziadkadry99/stamp/internal/render"
)

// maxRenderBody caps POST /api/render request bodies.
const maxRenderBody = 8 << 20

type localesResponse struct {
	Default string   `json:"default"`
	Locales []string `json:"locales"`
}

type formatResponse struct {
	Timestamp string `json:"ts"`
	Text      string `json:"text"`
	Valid     bool   `json:"valid"`
	Locale    string `json:"locale"`
	Timezone  string `json:"timezone"`
}

func (s *Server) handleLocales(w http.ResponseWriter, r *http.Request) {
	tags := s.registry.Tags()
	resp := localesResponse{
		Default: s.fallback.Tag().String(),
		Locales: make([]string, len(tags)),
	}
	for i, t := range tags {
		resp.Locales[i] = t.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("ts") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ts is required"})
		return
	}

	f, err := s.formatterFor(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	text := render.InvalidDate
	t, ok := render.ParseEpoch(q.Get("ts"))
	if ok {
		text = f.Format(t)
	}
	writeJSON(w, http.StatusOK, formatResponse{
		Timestamp: q.Get("ts"),
		Text:      text,
		Valid:     ok,
		Locale:    f.Tag().String(),
		Timezone:  f.Location().String(),
	})
}

// handleRender renders the HTML request body and returns it. The response
// carries the element counts in X-Stamp-Elements and X-Stamp-Invalid.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	f, err := s.formatterFor(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	renderer, err := s.rendererForRequest(f)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	run := history.Run{
		StartedAt: started,
		Source:    history.SourceHTTP,
		Target:    r.URL.Path,
		Locale:    f.Tag().String(),
		Timezone:  f.Location().String(),
		Files:     1,
	}

	var out bytes.Buffer
	stats, err := renderer.RenderHTML(http.MaxBytesReader(w, r.Body, maxRenderBody), &out)
	finished := time.Now()
	run.FinishedAt = &finished
	run.Elements, run.Invalid = stats.Elements, stats.Invalid
	if err != nil {
		run.Error = err.Error()
		s.record(r.Context(), run)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.record(r.Context(), run)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", f.Tag().String())
	w.Header().Set("X-Stamp-Elements", strconv.Itoa(stats.Elements))
	w.Header().Set("X-Stamp-Invalid", strconv.Itoa(stats.Invalid))
	w.WriteHeader(http.StatusOK)
	out.WriteTo(w)
}

// formatterFor resolves the locale and zone of an API request: the locale
// and tz query parameters win, then Accept-Language, then the fallback.
func (s *Server) formatterFor(r *http.Request) (*locale.Formatter, error) {
	q := r.URL.Query()

	loc := s.fallback.Location()
	if tz := q.Get("tz"); tz != "" {
		l, err := locale.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("unknown timezone %q", tz)
		}
		loc = l
	}

	if name := q.Get("locale"); name != "" {
		_, t := s.registry.Match(name)
		return locale.NewFormatter(t, loc), nil
	}
	if _, t, ok := s.registry.MatchAcceptLanguage(r.Header.Get("Accept-Language")); ok {
		return locale.NewFormatter(t, loc), nil
	}
	if loc == s.fallback.Location() {
		return s.fallback, nil
	}
	return s.registry.ForLocale(s.fallback.Tag().String(), loc), nil
}

// rendererForRequest is rendererFor for formatters whose zone may differ
// from the fallback; those are not cached.
func (s *Server) rendererForRequest(f *locale.Formatter) (*render.Renderer, error) {
	if f.Location() == s.fallback.Location() {
		return s.rendererFor(f), nil
	}
	return render.New(f, s.cfg.Marker)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
