// Package layouts holds the page shells shared by public and warp pages.
package layouts

import (
	"context"

	"github.com/fanaberia/fanaberia/internal/ctxkeys"
	"github.com/fanaberia/fanaberia/internal/ui/components"
)

// Meta feeds the <head> of a page.
type Meta struct {
	Title       string
	Description string
	Keywords    string
}

func (m Meta) title(ctx context.Context) string {
	if m.Title == "" {
		return components.AppName(ctx)
	}
	return m.Title
}

type warpSection struct {
	href string
	key  string
}

var warpSections = []warpSection{
	{"/warp/posts", "warp.posts"},
	{"/warp/categories", "warp.categories"},
	{"/warp/pages", "warp.pages"},
	{"/warp/files", "warp.files"},
	{"/warp/users", "warp.users"},
	{"/warp/admins", "warp.admins"},
}

func htmlClass(ctx context.Context) string {
	if ctxkeys.DarkMode(ctx) {
		return "dark"
	}
	return ""
}

func postsPath(ctx context.Context) string {
	return "/" + ctxkeys.Locale(ctx) + "/posts"
}

func localeButtonClass(active bool) string {
	class := "rounded px-2 py-1 text-xs uppercase"
	if active {
		return components.Class(class, "bg-zinc-200 dark:bg-zinc-700")
	}
	return class
}
