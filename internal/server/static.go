package server

import (
	"fmt"
	"net/http"
)

// cacheControl marks static responses as cacheable for CacheMaxAge seconds.
// Localized pages also carry Vary: Accept-Language, so shared caches keep
// one copy per language.
func (s *Server) cacheControl(next http.Handler) http.Handler {
	if s.cfg.CacheMaxAge <= 0 {
		return next
	}
	value := fmt.Sprintf("public, max-age=%d", s.cfg.CacheMaxAge)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", value)
		next.ServeHTTP(w, r)
	})
}
