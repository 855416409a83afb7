// Package components holds the building blocks every page is made of.
package components

import (
	"context"
	"fmt"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"

	"github.com/fanaberia/fanaberia/internal/ctxkeys"
	"github.com/fanaberia/fanaberia/internal/i18n"
)

const inputClass = "w-full rounded border border-zinc-300 bg-transparent px-3 py-2 dark:border-zinc-600"

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Field describes one form control. Error holds a message key.
type Field struct {
	Name     string
	Label    string // message key
	Type     string // text, email, password, textarea, select, file, checkbox
	Value    string
	Error    string
	Options  []Option
	Required bool
}

func (f Field) inputType() string {
	if f.Type == "" {
		return "text"
	}
	return f.Type
}

func (f Field) class() string {
	if f.Error != "" {
		return Class(inputClass, "border-red-500")
	}
	return inputClass
}

// Class merges tailwind classes, later ones winning conflicts.
func Class(classes ...string) string {
	return twmerge.Merge(classes...)
}

// T translates key in the request locale.
func T(ctx context.Context, key string, args ...any) string {
	return i18n.T(ctxkeys.Locale(ctx), key, args...)
}

func AppName(ctx context.Context) string {
	if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
		return cfg.AppName
	}
	return "Fanaberia"
}

func PostPath(locale, slug string) string {
	return "/" + locale + "/posts/" + slug
}

func CategoryPath(locale, slug string) string {
	return "/" + locale + "/posts/categories/" + slug
}

func pageURL(basePath string, page int) string {
	return fmt.Sprintf("%s?page=%d", basePath, page)
}

func noticeClass(variant string) string {
	class := "mb-4 rounded border p-3"
	if variant == "error" {
		return Class(class, "border-red-400 bg-red-50 text-red-800 dark:bg-red-950 dark:text-red-200")
	}
	return Class(class, "border-emerald-400 bg-emerald-50 text-emerald-800 dark:bg-emerald-950 dark:text-emerald-200")
}

// navLinkClass highlights a link while the request path is at or below href.
func navLinkClass(ctx context.Context, href string) string {
	path := ctxkeys.URLPath(ctx)
	if path == href || strings.HasPrefix(path, href+"/") {
		return Class("hover:underline", "font-semibold underline")
	}
	return "hover:underline"
}
