package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanaberia/fanaberia/internal/markdown"
)

func TestGenerateSitemap(t *testing.T) {
	f := newContentFixture(t, 9)
	category := validCategory("travel", "es")
	require.NoError(t, f.categories.Create(category))
	require.NoError(t, f.posts.Create(validPost("viaje-uno", category.ID)))

	sitemaps := NewSitemapService(f.posts, f.categories, f.pages, "https://blog.test/")
	out, err := sitemaps.GenerateSitemap()
	require.NoError(t, err)

	xml := string(out)
	assert.True(t, strings.HasPrefix(xml, "<?xml"))
	assert.Contains(t, xml, "<loc>https://blog.test/en/posts</loc>")
	assert.Contains(t, xml, "<loc>https://blog.test/ru/posts</loc>")
	assert.Contains(t, xml, "<loc>https://blog.test/es/posts/viaje-uno</loc>")
	assert.Contains(t, xml, "<loc>https://blog.test/es/posts/categories/travel</loc>")

	assert.Contains(t, sitemaps.Robots(), "Sitemap: https://blog.test/sitemap.xml")
}

func TestImportDir(t *testing.T) {
	f := newContentFixture(t, 9)
	require.NoError(t, f.categories.Create(validCategory("travel", "en")))
	imports := NewImportService(markdown.NewParser(), f.posts, f.categories, f.pages)

	dir := t.TempDir()
	post := "---\nslug: imported-post\ntitle: Imported post\nkeywords: import test\ndescription: Imported from disk\n" +
		"heading: Imported\nsummary: From a markdown file\npicture: https://example.com/p.png\ncategory: travel\nlocale: en\n---\n\n" +
		strings.Repeat("Imported body text. ", 5)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01-post.md"), []byte(post), 0o644))

	n, err := imports.ImportDir(dir, "posts")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	found, err := f.posts.BySlug("imported-post", "en")
	require.NoError(t, err)
	assert.Equal(t, "Imported", found.Heading)
	assert.NotContains(t, found.Content, "slug:")

	orphan := strings.Replace(post, "category: travel", "category: missing", 1)
	orphan = strings.Replace(orphan, "imported-post", "orphan-post", 1)
	_, err = imports.ImportPost([]byte(orphan))
	assert.ErrorIs(t, err, ErrImportCategory)
}
