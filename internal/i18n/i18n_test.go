package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocales(t *testing.T) {
	assert.Equal(t, []string{"en", "es", "ru"}, Locales())
	assert.True(t, IsSupported("ru"))
	assert.False(t, IsSupported("de"))
}

func TestMatch(t *testing.T) {
	tests := map[string]string{
		"":                        "en",
		"es-MX,es;q=0.9,en;q=0.8": "es",
		"ru-RU":                   "ru",
		"de-DE,de;q=0.9":          "en",
		"fr;q=0.9,ru;q=0.5":       "ru",
		"not a header;;":          "en",
	}
	for header, want := range tests {
		assert.Equal(t, want, Match(header), "header %q", header)
	}
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, "Invalid email or password", T("en", "auth.error.common"))
	assert.Equal(t, "Неверный email или пароль", T("ru", "auth.error.common"))
	assert.Equal(t, "Invalid email or password", T("de", "auth.error.common"))
	assert.Equal(t, "unknown.key", T("es", "unknown.key"))
}

func TestEveryMessageHasAllLocales(t *testing.T) {
	for key, translations := range messages {
		for _, locale := range Locales() {
			assert.NotEmpty(t, translations[locale], "%s missing %s", key, locale)
		}
	}
}
