package config

import "github.com/ziadkadry99/stamp/internal/render"

// DefaultExcludes are glob patterns excluded from builds by default.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"*.min.js",
	"*.min.css",
	".stamp.yml",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Marker:      render.DefaultMarker,
		Include:     []string{"**"},
		Exclude:     DefaultExcludes,
		OutputDir:   "public",
		HistoryDB:   ".stamp/history.db",
		MaxFileSize: 8 << 20,
		Server: ServerConfig{
			Port:        8080,
			CacheMaxAge: 3600,
		},
	}
}
