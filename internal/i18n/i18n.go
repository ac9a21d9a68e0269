// Package i18n negotiates request locales and translates user facing
// messages. Locale codes use the shop's underscore form, e.g. de_DE.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Locale codes with message translations.
const (
	EnUS = "en_US"
	DeDE = "de_DE"
)

var translated = language.NewMatcher([]language.Tag{language.English, language.German})

var catalogue = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, de := range german {
		_ = b.SetString(language.English, key, key)
		_ = b.SetString(language.German, key, de)
	}
	return b
}

// Tag parses a locale code. Unknown codes yield language.Und.
func Tag(locale string) language.Tag {
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return language.Und
	}
	return tag
}

// Code formats a tag in the shop's locale form.
func Code(tag language.Tag) string {
	return strings.ReplaceAll(tag.String(), "-", "_")
}

// Printer returns a printer translating into the closest language of locale.
func Printer(locale string) *message.Printer {
	_, index, _ := translated.Match(Tag(locale))
	tag := language.English
	if index == 1 {
		tag = language.German
	}
	return message.NewPrinter(tag, message.Catalog(catalogue))
}

// T translates key into locale. Keys are the English messages.
func T(locale, key string, args ...any) string {
	return Printer(locale).Sprintf(key, args...)
}

// Negotiate picks the locale of a request among the channel locales: an
// explicit locale first, then the Accept-Language header, then fallback.
func Negotiate(explicit, acceptLanguage string, available []string, fallback string) string {
	for _, l := range available {
		if explicit != "" && strings.EqualFold(l, explicit) {
			return l
		}
	}
	if acceptLanguage == "" || len(available) == 0 {
		return fallback
	}

	tags := make([]language.Tag, len(available))
	for i, l := range available {
		tags[i] = Tag(l)
	}
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return fallback
	}

	_, index, confidence := language.NewMatcher(tags).Match(desired...)
	if confidence == language.No {
		return fallback
	}
	return available[index]
}
