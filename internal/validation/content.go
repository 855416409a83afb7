package validation

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/fanaberia/fanaberia/internal/model"
)

const (
	TextMinLength    = 5
	ContentMinLength = 50
)

var (
	ErrRequired        = errors.New("error.field.required")
	ErrTooShort        = errors.New("error.field.too_short")
	ErrContentTooShort = errors.New("error.content.too_short")
	ErrSlugInvalid     = errors.New("error.slug.invalid")
	ErrURLInvalid      = errors.New("error.url.invalid")
	ErrCategoryInvalid = errors.New("error.category.invalid")
	ErrLocaleInvalid   = errors.New("error.locale.invalid")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

func text(value string, min int, short error) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrRequired
	}
	if len([]rune(value)) < min {
		return short
	}
	return nil
}

func ValidateSlug(slug string) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ErrRequired
	}
	if !slugPattern.MatchString(slug) {
		return ErrSlugInvalid
	}
	if len(slug) < TextMinLength {
		return ErrTooShort
	}
	return nil
}

func ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrRequired
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrURLInvalid
	}
	return nil
}

// ValidateLocale checks membership in the given set of supported locales
func ValidateLocale(locale string, supported []string) error {
	for _, s := range supported {
		if locale == s {
			return nil
		}
	}
	return ErrLocaleInvalid
}

func Category(c *model.Category, locales []string) Errors {
	errs := Errors{}
	errs.Add("name", text(c.Name, TextMinLength, ErrTooShort))
	errs.Add("slug", ValidateSlug(c.Slug))
	errs.Add("title", text(c.Title, TextMinLength, ErrTooShort))
	errs.Add("keywords", text(c.Keywords, TextMinLength, ErrTooShort))
	errs.Add("description", text(c.Description, TextMinLength, ErrTooShort))
	errs.Add("heading", text(c.Heading, TextMinLength, ErrTooShort))
	errs.Add("locale", ValidateLocale(c.Locale, locales))
	return errs
}

func Post(p *model.Post) Errors {
	errs := Errors{}
	errs.Add("slug", ValidateSlug(p.Slug))
	errs.Add("title", text(p.Title, TextMinLength, ErrTooShort))
	errs.Add("keywords", text(p.Keywords, TextMinLength, ErrTooShort))
	errs.Add("description", text(p.Description, TextMinLength, ErrTooShort))
	errs.Add("heading", text(p.Heading, TextMinLength, ErrTooShort))
	errs.Add("summary", text(p.Summary, TextMinLength, ErrTooShort))
	errs.Add("picture", ValidateURL(p.Picture))
	errs.Add("content", text(p.Content, ContentMinLength, ErrContentTooShort))
	if p.CategoryID <= 0 {
		errs.Add("category_id", ErrCategoryInvalid)
	}
	return errs
}

func Page(p *model.Page, locales []string) Errors {
	errs := Errors{}
	errs.Add("name", text(p.Name, TextMinLength, ErrTooShort))
	errs.Add("slug", ValidateSlug(p.Slug))
	errs.Add("title", text(p.Title, TextMinLength, ErrTooShort))
	errs.Add("keywords", text(p.Keywords, TextMinLength, ErrTooShort))
	errs.Add("description", text(p.Description, TextMinLength, ErrTooShort))
	errs.Add("heading", text(p.Heading, TextMinLength, ErrTooShort))
	errs.Add("locale", ValidateLocale(p.Locale, locales))
	errs.Add("content", text(p.Content, ContentMinLength, ErrContentTooShort))
	return errs
}
