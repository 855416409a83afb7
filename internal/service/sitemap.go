package service

import (
	"encoding/xml"
	"log/slog"
	"strings"
	"time"

	"github.com/fanaberia/fanaberia/internal/i18n"
	"github.com/fanaberia/fanaberia/internal/model"
)

const lastModLayout = "2006-01-02"

type SitemapService struct {
	postService     *PostService
	categoryService *CategoryService
	pageService     *PageService
	baseURL         string
}

func NewSitemapService(postService *PostService, categoryService *CategoryService, pageService *PageService, baseURL string) *SitemapService {
	return &SitemapService{
		postService:     postService,
		categoryService: categoryService,
		pageService:     pageService,
		baseURL:         strings.TrimSuffix(baseURL, "/"),
	}
}

// GenerateSitemap lists the post index of every locale followed by all posts,
// categories and pages. A failing section is logged and left out.
func (s *SitemapService) GenerateSitemap() ([]byte, error) {
	sitemap := model.Sitemap{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []model.SitemapURL{},
	}

	today := time.Now().UTC().Format(lastModLayout)
	for _, locale := range i18n.Locales() {
		sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
			Loc:        s.baseURL + "/" + locale + "/posts",
			LastMod:    today,
			ChangeFreq: "daily",
			Priority:   "1.0",
		})
	}

	posts, err := s.postService.All()
	if err != nil {
		slog.Warn("failed to get posts for sitemap", "error", err)
	}
	for _, post := range posts {
		sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
			Loc:        s.baseURL + "/" + post.Locale + "/posts/" + post.Slug,
			LastMod:    post.UpdatedAt.Format(lastModLayout),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	categories, err := s.categoryService.All()
	if err != nil {
		slog.Warn("failed to get categories for sitemap", "error", err)
	}
	for _, category := range categories {
		sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
			Loc:        s.baseURL + "/" + category.Locale + "/posts/categories/" + category.Slug,
			LastMod:    category.UpdatedAt.Format(lastModLayout),
			ChangeFreq: "weekly",
			Priority:   "0.6",
		})
	}

	pages, err := s.pageService.All()
	if err != nil {
		slog.Warn("failed to get pages for sitemap", "error", err)
	}
	for _, page := range pages {
		sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
			Loc:        s.baseURL + "/" + page.Locale + "/pages/" + page.Slug,
			LastMod:    page.UpdatedAt.Format(lastModLayout),
			ChangeFreq: "monthly",
			Priority:   "0.5",
		})
	}

	output, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	result := xml.Header + string(output)
	return []byte(result), nil
}

// Robots returns robots.txt, keeping crawlers out of auth and warp.
func (s *SitemapService) Robots() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Disallow: /auth/\n")
	b.WriteString("Disallow: /warp\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("\nSitemap: " + s.baseURL + "/sitemap.xml\n")
	return b.String()
}
