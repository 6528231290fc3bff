package config

// Config is the top-level stamp configuration, corresponding to .stamp.yml.
type Config struct {
	// Locale is a BCP 47 or POSIX locale name. Empty means the ambient
	// locale of the process (LC_ALL, LC_TIME, LANG).
	Locale string `yaml:"locale" koanf:"locale"`
	// Timezone is an IANA zone name. Empty or "Local" means the process zone.
	Timezone    string       `yaml:"timezone" koanf:"timezone"`
	Marker      string       `yaml:"marker" koanf:"marker"`
	Include     []string     `yaml:"include" koanf:"include"`
	Exclude     []string     `yaml:"exclude" koanf:"exclude"`
	OutputDir   string       `yaml:"output_dir" koanf:"output_dir"`
	HistoryDB   string       `yaml:"history_db" koanf:"history_db"`
	MaxFileSize int64        `yaml:"max_file_size" koanf:"max_file_size"`
	Server      ServerConfig `yaml:"server" koanf:"server"`
}

// ServerConfig holds settings for `stamp serve`.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	// CacheMaxAge is the Cache-Control max-age, in seconds, sent with static
	// files. Zero disables the header.
	CacheMaxAge int `yaml:"cache_max_age" koanf:"cache_max_age"`
}
