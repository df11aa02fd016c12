// Package i18n holds the localized user-facing strings (errors, page chrome,
// builder labels) and resolves the request language.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "pb_lang"
)

var (
	supported = []language.Tag{language.English, language.Persian}
	matcher   = language.NewMatcher(supported)
	cat       = mustBuild()
)

// Parse maps a raw tag to the closest supported tag.
func Parse(raw string) (language.Tag, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return language.Und, false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return language.Und, false
	}
	return Match(tag)
}

// Match returns the best supported tag for the preferences.
func Match(prefs ...language.Tag) (language.Tag, bool) {
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return language.Und, false
	}
	return supported[idx], true
}

// ResolveTag picks the request language: query param, cookie, Accept-Language,
// then def.
func ResolveTag(r *http.Request, def language.Tag) language.Tag {
	if r == nil {
		return def
	}
	if tag, ok := Parse(r.URL.Query().Get(LangParam)); ok {
		return tag
	}
	if c, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := Parse(c.Value); ok {
			return tag
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			if tag, ok := Match(tags...); ok {
				return tag
			}
		}
	}
	return def
}

// Printer returns a message printer bound to the catalog.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(cat))
}

// T translates key for tag. Unknown keys are returned as-is.
func T(tag language.Tag, key string, args ...any) string {
	return Printer(tag).Sprintf(key, args...)
}

// IsRTL reports whether the language is written right to left.
func IsRTL(tag language.Tag) bool {
	base, _ := tag.Base()
	switch base.String() {
	case "fa", "ar", "he", "ur":
		return true
	}
	return false
}

func mustBuild() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range english {
		if err := b.SetString(language.English, key, msg); err != nil {
			panic(err)
		}
	}
	for key, msg := range persian {
		if err := b.SetString(language.Persian, key, msg); err != nil {
			panic(err)
		}
	}
	return b
}
