package service

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/fanaberia/fanaberia/internal/markdown"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/repository"
)

var ErrImportCategory = errors.New("import: unknown category")

// ImportService loads markdown files with YAML frontmatter into posts and pages.
//
// Post frontmatter: slug, title, keywords, description, heading, summary,
// picture, category (slug) and locale (of the category).
// Page frontmatter: name, slug, title, keywords, description, heading, locale.
type ImportService struct {
	parser          *markdown.Parser
	postService     *PostService
	categoryService *CategoryService
	pageService     *PageService
}

func NewImportService(parser *markdown.Parser, postService *PostService, categoryService *CategoryService, pageService *PageService) *ImportService {
	return &ImportService{
		parser:          parser,
		postService:     postService,
		categoryService: categoryService,
		pageService:     pageService,
	}
}

func metaString(meta map[string]any, key string) string {
	value, _ := meta[key].(string)
	return value
}

func (s *ImportService) ImportPost(source []byte) (*model.Post, error) {
	doc, err := s.parser.ParseDocument(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse post: %w", err)
	}

	category, err := s.categoryService.BySlug(metaString(doc.Meta, "category"), metaString(doc.Meta, "locale"))
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrImportCategory, metaString(doc.Meta, "locale"), metaString(doc.Meta, "category"))
		}
		return nil, err
	}

	post := &model.Post{
		Slug:        metaString(doc.Meta, "slug"),
		Title:       metaString(doc.Meta, "title"),
		Keywords:    metaString(doc.Meta, "keywords"),
		Description: metaString(doc.Meta, "description"),
		Heading:     metaString(doc.Meta, "heading"),
		Summary:     metaString(doc.Meta, "summary"),
		Picture:     metaString(doc.Meta, "picture"),
		Content:     doc.Body,
		CategoryID:  category.ID,
	}

	err = s.postService.Create(post)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *ImportService) ImportPage(source []byte) (*model.Page, error) {
	doc, err := s.parser.ParseDocument(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	page := &model.Page{
		Name:        metaString(doc.Meta, "name"),
		Slug:        metaString(doc.Meta, "slug"),
		Title:       metaString(doc.Meta, "title"),
		Keywords:    metaString(doc.Meta, "keywords"),
		Description: metaString(doc.Meta, "description"),
		Heading:     metaString(doc.Meta, "heading"),
		Locale:      metaString(doc.Meta, "locale"),
		Content:     doc.Body,
	}

	err = s.pageService.Create(page)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// ImportDir imports every *.md file in dir as kind ("posts" or "pages"), in
// name order. It stops at the first failure and reports how many succeeded.
func (s *ImportService) ImportDir(dir, kind string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return 0, err
	}
	sort.Strings(files)

	imported := 0
	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			return imported, fmt.Errorf("failed to read %s: %w", file, err)
		}

		switch kind {
		case "posts":
			_, err = s.ImportPost(source)
		case "pages":
			_, err = s.ImportPage(source)
		default:
			return imported, fmt.Errorf("unknown import kind: %s", kind)
		}
		if err != nil {
			return imported, fmt.Errorf("failed to import %s: %w", filepath.Base(file), err)
		}

		imported++
		slog.Info("imported", "kind", kind, "file", filepath.Base(file))
	}
	return imported, nil
}
