// Package i18n resolves the request locale and translates message keys.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const DefaultLocale = "en"

// supported is ordered: the first entry is the matcher's fallback.
var supported = []language.Tag{
	language.English,
	language.Spanish,
	language.Russian,
}

var (
	matcher  = language.NewMatcher(supported)
	printers = buildPrinters()
)

// Locales returns the supported locale codes
func Locales() []string {
	locales := make([]string, 0, len(supported))
	for _, tag := range supported {
		base, _ := tag.Base()
		locales = append(locales, base.String())
	}
	return locales
}

func IsSupported(locale string) bool {
	_, ok := printers[locale]
	return ok
}

// Match picks the best supported locale for an Accept-Language header value.
func Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	tag, _, _ := matcher.Match(tags...)
	base, _ := tag.Base()
	if !IsSupported(base.String()) {
		return DefaultLocale
	}
	return base.String()
}

// T translates key for locale. Unknown keys are returned unchanged.
func T(locale, key string, args ...any) string {
	p, ok := printers[locale]
	if !ok {
		p = printers[DefaultLocale]
	}
	return p.Sprintf(key, args...)
}

func buildPrinters() map[string]*message.Printer {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, translations := range messages {
		for locale, text := range translations {
			err := b.SetString(language.MustParse(locale), key, text)
			if err != nil {
				panic(fmt.Sprintf("i18n: invalid message %q for %s: %v", key, locale, err))
			}
		}
	}

	result := make(map[string]*message.Printer, len(supported))
	for _, tag := range supported {
		base, _ := tag.Base()
		result[base.String()] = message.NewPrinter(tag, message.Catalog(b))
	}
	return result
}
