package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/stamp/internal/db"
	"github.com/ziadkadry99/stamp/internal/history"
	"github.com/ziadkadry99/stamp/internal/locale"
)

func formatterFor(t *testing.T, name string) *locale.Formatter {
	t.Helper()
	return locale.Default().ForLocale(name, time.UTC)
}

func newTestServer(t *testing.T, cfg Config, store *history.Store) *Server {
	t.Helper()
	srv, err := New(cfg, formatterFor(t, "en"), store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func setupStore(t *testing.T) *history.Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return history.NewStore(database)
}

func TestNew(t *testing.T) {
	if _, err := New(Config{}, nil, nil); err == nil {
		t.Error("expected error for nil fallback formatter")
	}
	if _, err := New(Config{Marker: "not a class"}, formatterFor(t, "en"), nil); err == nil {
		t.Error("expected error for invalid marker")
	}
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, Config{}, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, Config{AllowAll: true}, nil)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestLocales(t *testing.T) {
	srv := newTestServer(t, Config{}, nil)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/locales", nil))

	var resp localesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Default != "en" {
		t.Errorf("Default = %q, want en", resp.Default)
	}
	if !strings.Contains(strings.Join(resp.Locales, ","), "de") {
		t.Errorf("Locales = %v, want de among them", resp.Locales)
	}
}

func TestFormat(t *testing.T) {
	srv := newTestServer(t, Config{}, nil)
	de := formatterFor(t, "de")
	fr := formatterFor(t, "fr")
	en := formatterFor(t, "en")

	tests := []struct {
		name       string
		query      string
		acceptLang string
		wantStatus int
		wantText   string
		wantLocale string
		wantValid  bool
	}{
		{"explicit locale", "ts=0&locale=de", "", 200, de.Format(time.Unix(0, 0)), "de", true},
		{"accept-language", "ts=86400", "fr-CH, fr;q=0.9", 200, fr.Format(time.Unix(86400, 0)), "fr", true},
		{"fallback", "ts=1700000000", "", 200, en.Format(time.Unix(1700000000, 0)), "en", true},
		{"invalid timestamp", "ts=soon", "", 200, "Invalid Date", "en", false},
		{"missing ts", "locale=de", "", 400, "", "", false},
		{"bad timezone", "ts=0&tz=Mars/Olympus", "", 400, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/format?"+tt.query, nil)
			if tt.acceptLang != "" {
				req.Header.Set("Accept-Language", tt.acceptLang)
			}
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != 200 {
				return
			}

			var resp formatResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if resp.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", resp.Text, tt.wantText)
			}
			if resp.Locale != tt.wantLocale {
				t.Errorf("Locale = %q, want %q", resp.Locale, tt.wantLocale)
			}
			if resp.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", resp.Valid, tt.wantValid)
			}
		})
	}
}

func TestFormat_Timezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	srv := newTestServer(t, Config{}, nil)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/format?ts=0&tz=Asia/Tokyo", nil))

	var resp formatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := locale.Default().ForLocale("en", tokyo).Format(time.Unix(0, 0))
	if resp.Text != want || resp.Timezone != "Asia/Tokyo" {
		t.Errorf("got %q (%s), want %q (Asia/Tokyo)", resp.Text, resp.Timezone, want)
	}
}

func TestRender(t *testing.T) {
	store := setupStore(t)
	srv := newTestServer(t, Config{}, store)
	de := formatterFor(t, "de")

	body := `<p>Built <span class="datetime">86400</span> and <b class="datetime">x</b></p>`
	req := httptest.NewRequest("POST", "/api/render?locale=de", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	want := `<p>Built <span class="datetime">` + de.Format(time.Unix(86400, 0)) +
		`</span> and <b class="datetime">Invalid Date</b></p>`
	if got := w.Body.String(); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
	if got := w.Header().Get("X-Stamp-Elements"); got != "2" {
		t.Errorf("X-Stamp-Elements = %q, want 2", got)
	}
	if got := w.Header().Get("X-Stamp-Invalid"); got != "1" {
		t.Errorf("X-Stamp-Invalid = %q, want 1", got)
	}
	if got := w.Header().Get("Content-Language"); got != "de" {
		t.Errorf("Content-Language = %q, want de", got)
	}

	runs, err := store.List(context.Background(), history.Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(runs))
	}
	if runs[0].Source != history.SourceHTTP || runs[0].Elements != 2 || runs[0].Locale != "de" {
		t.Errorf("run = %+v", runs[0])
	}

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/runs", nil))
	if w.Code != http.StatusOK {
		t.Errorf("GET /api/runs status = %d, want 200", w.Code)
	}
}

func TestRunsRoutesNeedHistory(t *testing.T) {
	srv := newTestServer(t, Config{}, nil)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/runs", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without a history store", w.Code)
	}
}

func setupSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	page := `<!DOCTYPE html><html><head></head><body><span class="datetime">0</span></body></html>`
	os.WriteFile(filepath.Join(dir, "index.html"), []byte(page), 0o644)
	os.WriteFile(filepath.Join(dir, "raw.txt"), []byte(`<span class="datetime">0</span>`), 0o644)
	return dir
}

func TestLocalize(t *testing.T) {
	srv := newTestServer(t, Config{Dir: setupSite(t), CacheMaxAge: 60}, nil)
	epoch := time.Unix(0, 0)

	tests := []struct {
		name       string
		acceptLang string
		want       string
		wantLang   string
	}{
		{"negotiated", "de-DE,de;q=0.9,en;q=0.5", formatterFor(t, "de").Format(epoch), "de"},
		{"fallback", "", formatterFor(t, "en").Format(epoch), "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.acceptLang != "" {
				req.Header.Set("Accept-Language", tt.acceptLang)
			}
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			body := w.Body.String()
			if !strings.Contains(body, `<span class="datetime">`+tt.want+`</span>`) {
				t.Errorf("body = %q, want rendered %q", body, tt.want)
			}
			if got := w.Header().Get("Content-Language"); got != tt.wantLang {
				t.Errorf("Content-Language = %q, want %q", got, tt.wantLang)
			}
			if got := w.Header().Get("Content-Length"); got != strconv.Itoa(len(body)) {
				t.Errorf("Content-Length = %q, body is %d bytes", got, len(body))
			}
			if got := strings.Join(w.Header().Values("Vary"), ", "); !strings.Contains(got, "Accept-Language") {
				t.Errorf("Vary = %q, want Accept-Language", got)
			}
			if got := w.Header().Get("Cache-Control"); got != "public, max-age=60" {
				t.Errorf("Cache-Control = %q", got)
			}
		})
	}
}

func TestLocalize_UnmatchedLanguageUsesFallback(t *testing.T) {
	srv, err := New(Config{Dir: setupSite(t)}, formatterFor(t, "de"), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept-Language", "tlh")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	want := formatterFor(t, "de").Format(time.Unix(0, 0))
	if body := w.Body.String(); !strings.Contains(body, `<span class="datetime">`+want+`</span>`) {
		t.Errorf("body = %q, want rendered %q", body, want)
	}
	if got := w.Header().Get("Content-Language"); got != "de" {
		t.Errorf("Content-Language = %q, want de", got)
	}
}

func TestLocalize_RangeIgnored(t *testing.T) {
	srv := newTestServer(t, Config{Dir: setupSite(t)}, nil)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Range", "bytes=0-10")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if strings.Contains(w.Body.String(), `datetime">0<`) {
		t.Error("page should be rendered in full")
	}
}

func TestLocalize_NonHTMLUntouched(t *testing.T) {
	srv := newTestServer(t, Config{Dir: setupSite(t)}, nil)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/raw.txt", nil))

	if got := w.Body.String(); got != `<span class="datetime">0</span>` {
		t.Errorf("body = %q, want the file unchanged", got)
	}
	if got := w.Header().Get("Content-Language"); got != "" {
		t.Errorf("Content-Language = %q, want none", got)
	}
	if got := w.Header().Get("Cache-Control"); got != "" {
		t.Errorf("Cache-Control = %q, want none when max age is 0", got)
	}
}

func TestFormatSocket(t *testing.T) {
	srv := newTestServer(t, Config{}, nil)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/format?locale=de"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	exchange := func(msg string) formatReply {
		t.Helper()
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatalf("write: %v", err)
		}
		var reply formatReply
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatalf("read: %v", err)
		}
		return reply
	}

	reply := exchange(`{"ts":"0"}`)
	if want := formatterFor(t, "de").Format(time.Unix(0, 0)); reply.Text != want || !reply.Valid {
		t.Errorf("reply = %+v, want %q", reply, want)
	}

	reply = exchange(`{"ts":"later","locale":"fr"}`)
	if reply.Text != "Invalid Date" || reply.Valid || reply.Locale != "fr" {
		t.Errorf("reply = %+v, want invalid fr reply", reply)
	}

	reply = exchange(`not json`)
	if reply.Error == "" {
		t.Errorf("reply = %+v, want an error", reply)
	}
}

func TestShutdownWithoutStart(t *testing.T) {
	srv := newTestServer(t, Config{}, nil)
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}
