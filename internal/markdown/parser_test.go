package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	p := NewParser()

	html, err := p.Render("# Hello\n\nSome *text*.")
	require.NoError(t, err)
	assert.Contains(t, string(html), `<h1 id="hello">Hello</h1>`)
	assert.Contains(t, string(html), "<em>text</em>")
}

func TestRenderDropsRawHTML(t *testing.T) {
	p := NewParser()

	html, err := p.Render("<script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>")
}

func TestParseDocument(t *testing.T) {
	p := NewParser()

	source := []byte("---\ntitle: First post\nslug: first-post\n---\n\nBody text\n")
	doc, err := p.ParseDocument(source)
	require.NoError(t, err)
	assert.Equal(t, "First post", doc.Meta["title"])
	assert.Equal(t, "first-post", doc.Meta["slug"])
	assert.Equal(t, "Body text\n", doc.Body)
}

func TestParseDocumentWithoutFrontmatter(t *testing.T) {
	p := NewParser()

	doc, err := p.ParseDocument([]byte("Just text"))
	require.NoError(t, err)
	assert.Empty(t, doc.Meta)
	assert.Equal(t, "Just text", doc.Body)
}
