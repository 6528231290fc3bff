package server

import (
	"bytes"
	"log"
	"mime"
	"net/http"
	"strconv"
)

// Localize renders the timestamps of text/html responses in the locale
// negotiated from Accept-Language. Other responses pass through untouched.
func (s *Server) Localize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Partial content cannot be rendered, so always fetch whole pages.
		if r.Header.Get("Range") != "" {
			r = r.Clone(r.Context())
			r.Header.Del("Range")
		}

		f := s.negotiate(r)
		w.Header().Add("Vary", "Accept-Language")

		bw := &bufferedWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(bw, r)

		if !bw.renderable() {
			bw.flush()
			return
		}

		w.Header().Set("Content-Language", f.Tag().String())
		if r.Method == http.MethodHead {
			w.Header().Del("Content-Length")
			bw.flush()
			return
		}

		var out bytes.Buffer
		if _, err := s.rendererFor(f).RenderHTML(&bw.buf, &out); err != nil {
			log.Printf("server: rendering %s: %v", r.URL.Path, err)
			http.Error(w, "rendering failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(out.Len()))
		w.WriteHeader(bw.status)
		if _, err := out.WriteTo(w); err != nil {
			log.Printf("server: writing %s: %v", r.URL.Path, err)
		}
	})
}

// bufferedWriter holds a response back until the handler is done so the
// body can be rewritten.
type bufferedWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (b *bufferedWriter) WriteHeader(status int) { b.status = status }

func (b *bufferedWriter) Write(p []byte) (int, error) { return b.buf.Write(p) }

// renderable reports whether the buffered response is an uncompressed,
// successful HTML page.
func (b *bufferedWriter) renderable() bool {
	h := b.Header()
	if b.status != http.StatusOK || h.Get("Content-Encoding") != "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(h.Get("Content-Type"))
	return err == nil && mt == "text/html"
}

func (b *bufferedWriter) flush() {
	b.ResponseWriter.WriteHeader(b.status)
	if _, err := b.buf.WriteTo(b.ResponseWriter); err != nil {
		log.Printf("server: writing response: %v", err)
	}
}
