package components

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanaberia/fanaberia/internal/ctxkeys"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func TestLinksSanitizeURLs(t *testing.T) {
	ctx := context.Background()

	assert.Contains(t, render(t, ctx, Link("/en/posts", "posts.next")), `href="/en/posts"`)

	for _, c := range []templ.Component{
		Link("javascript:alert(1)", "posts.next"),
		NavLink("javascript:alert(1)", "posts.next"),
		Form("javascript:alert(1)", ""),
	} {
		html := render(t, ctx, c)
		assert.NotContains(t, html, "javascript:")
		assert.Contains(t, html, "about:invalid#TemplFailedSanitizationURL")
	}
}

func TestTextIsEscaped(t *testing.T) {
	html := render(t, context.Background(), Details("field.title", `<script>alert("x")</script>`))
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestArticleKeepsRenderedMarkdown(t *testing.T) {
	html := render(t, context.Background(), Article("<Heading>", "<p><em>body</em></p>"))
	assert.Contains(t, html, "<h1>&lt;Heading&gt;</h1>")
	assert.Contains(t, html, "<p><em>body</em></p>")
}

func TestNavLinkHighlightsCurrentSection(t *testing.T) {
	ctx := ctxkeys.WithURLPath(context.Background(), "/warp/posts/4/show")
	assert.Contains(t, render(t, ctx, NavLink("/warp/posts", "warp.posts")), "font-semibold")
	assert.NotContains(t, render(t, ctx, NavLink("/warp/pages", "warp.pages")), "font-semibold")
}

func TestInputShowsError(t *testing.T) {
	html := render(t, context.Background(), Input(Field{Name: "email", Label: "form.email", Type: "email", Value: "a@b.c", Error: "validation.email"}))
	assert.Contains(t, html, `value="a@b.c"`)
	assert.Contains(t, html, "border-red-500")
	assert.Contains(t, html, `<p class="mt-1 text-sm text-red-600">`)
}
