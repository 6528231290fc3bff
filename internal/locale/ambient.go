package locale

import (
	"os"
	"strings"
	"time"
)

// Fallback is the locale used when neither configuration nor the
// environment name one.
const Fallback = "en"

// Ambient returns the process locale as reported by the POSIX environment,
// checking LC_ALL, LC_TIME and LANG in that order. The "C" and "POSIX"
// locales map to Fallback.
func Ambient() string {
	return ambientFrom(os.Getenv)
}

func ambientFrom(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		v := normalize(getenv(key))
		if v == "" {
			continue
		}
		if strings.EqualFold(v, "C") || strings.EqualFold(v, "POSIX") {
			return Fallback
		}
		return v
	}
	return Fallback
}

// LoadLocation resolves an IANA zone name. An empty name or "Local" yields
// the process zone.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
