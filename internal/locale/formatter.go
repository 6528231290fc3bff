// Package locale renders instants as locale-aware short-date / long-time
// strings and negotiates which locale to use.
package locale

import (
	"time"

	"github.com/go-playground/locales"
	"golang.org/x/text/language"
)

// Formatter renders instants with one translator in one time zone. It is
// immutable and safe for concurrent use.
type Formatter struct {
	translator locales.Translator
	tag        language.Tag
	location   *time.Location
	glue       string
}

// NewFormatter returns a Formatter for the translator and zone. A nil zone
// means time.Local.
func NewFormatter(t locales.Translator, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.Local
	}
	tag := TagOf(t)
	return &Formatter{
		translator: t,
		tag:        tag,
		location:   loc,
		glue:       glueFor(tag),
	}
}

// ForLocale matches name against the registry and returns a Formatter for
// the best translator. An empty name uses the ambient locale.
func (r *Registry) ForLocale(name string, loc *time.Location) *Formatter {
	if name == "" {
		name = Ambient()
	}
	_, t := r.Match(name)
	return NewFormatter(t, loc)
}

// Tag is the BCP 47 tag of the formatter's locale.
func (f *Formatter) Tag() language.Tag { return f.tag }

// Location is the zone instants are converted to before formatting.
func (f *Formatter) Location() *time.Location { return f.location }

// Format renders t as the short date followed by the long time, e.g.
// "11/14/23, 10:13:20 pm UTC" for en in UTC.
func (f *Formatter) Format(t time.Time) string {
	t = t.In(f.location)
	return f.translator.FmtDateShort(t) + f.glue + f.translator.FmtTimeLong(t)
}

// glueFor returns the separator CLDR places between the date and time parts.
func glueFor(tag language.Tag) string {
	base, _ := tag.Base()
	switch base.String() {
	case "fr", "ja", "zh":
		return " "
	default:
		return ", "
	}
}
