package locale

import (
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/en_GB"
	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/it"
	"github.com/go-playground/locales/ja"
	"github.com/go-playground/locales/nl"
	"github.com/go-playground/locales/pt"
	"github.com/go-playground/locales/pt_BR"
	"github.com/go-playground/locales/zh"
	"golang.org/x/text/language"
)

// Registry holds the translators a Formatter can be built from and matches
// user preferences against them. The first translator is the fallback.
type Registry struct {
	translators []locales.Translator
	tags        []language.Tag
	matcher     language.Matcher
}

// NewRegistry builds a registry from the given translators. The first one is
// used when no preference matches.
func NewRegistry(translators ...locales.Translator) *Registry {
	r := &Registry{
		translators: translators,
		tags:        make([]language.Tag, len(translators)),
	}
	for i, t := range translators {
		r.tags[i] = TagOf(t)
	}
	r.matcher = language.NewMatcher(r.tags)
	return r
}

var defaultRegistry = NewRegistry(
	en.New(),
	en_US.New(),
	en_GB.New(),
	de.New(),
	fr.New(),
	es.New(),
	it.New(),
	ja.New(),
	zh.New(),
	pt.New(),
	pt_BR.New(),
	nl.New(),
)

// Default returns the registry of built-in locales.
func Default() *Registry { return defaultRegistry }

// TagOf converts a translator's CLDR locale name ("pt_BR") into a BCP 47 tag.
func TagOf(t locales.Translator) language.Tag {
	return language.Make(strings.ReplaceAll(t.Locale(), "_", "-"))
}

// Tags returns the supported tags in registry order.
func (r *Registry) Tags() []language.Tag {
	out := make([]language.Tag, len(r.tags))
	copy(out, r.tags)
	return out
}

// Match picks the best translator for the given preferences, most preferred
// first. Preferences may use either "pt-BR" or "pt_BR" spelling; unparsable
// entries are skipped.
func (r *Registry) Match(prefs ...string) (language.Tag, locales.Translator) {
	var tags []language.Tag
	for _, p := range prefs {
		p = normalize(p)
		if p == "" {
			continue
		}
		tag, err := language.Parse(p)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}
	tag, t, _ := r.match(tags)
	return tag, t
}

// MatchAcceptLanguage picks the best translator for an Accept-Language header
// value. ok is false when the header is empty, cannot be parsed or names no
// supported language, in which case the fallback translator is returned.
func (r *Registry) MatchAcceptLanguage(header string) (tag language.Tag, t locales.Translator, ok bool) {
	prefs, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(prefs) == 0 {
		return r.tags[0], r.translators[0], false
	}
	tag, t, conf := r.match(prefs)
	return tag, t, conf != language.No
}

func (r *Registry) match(tags []language.Tag) (language.Tag, locales.Translator, language.Confidence) {
	if len(tags) == 0 {
		return r.tags[0], r.translators[0], language.No
	}
	_, idx, conf := r.matcher.Match(tags...)
	if conf == language.No {
		idx = 0
	}
	return r.tags[idx], r.translators[idx], conf
}

// normalize strips POSIX codeset and modifier suffixes and converts
// underscores, so "de_DE.UTF-8@euro" becomes "de-DE".
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	return strings.ReplaceAll(s, "_", "-")
}
