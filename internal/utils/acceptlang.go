package utils

import (
	"strings"

	"golang.org/x/text/language"
)

// DetermineLocale resolves a locale from an explicit query param, then the
// Accept-Language header (highest q first), then def. Only the base language
// is compared, so "es-AR" selects "es".
func DetermineLocale(queryLang, acceptLang string, supported []string, def string) string {
	sup := map[string]struct{}{}
	for _, s := range supported {
		sup[strings.ToLower(s)] = struct{}{}
	}
	pick := func(tag language.Tag) (string, bool) {
		base, conf := tag.Base()
		if conf == language.No {
			return "", false
		}
		_, ok := sup[base.String()]
		return base.String(), ok
	}

	if queryLang != "" {
		if tag, err := language.Parse(queryLang); err == nil {
			if v, ok := pick(tag); ok {
				return v
			}
		}
	}
	if tags, _, err := language.ParseAcceptLanguage(acceptLang); err == nil {
		for _, tag := range tags {
			if v, ok := pick(tag); ok {
				return v
			}
		}
	}
	def = strings.ToLower(def)
	if _, ok := sup[def]; ok {
		return def
	}
	if len(supported) > 0 {
		return strings.ToLower(supported[0])
	}
	return DefaultLocale
}
