package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fanaberia/fanaberia/internal/markdown"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/repository"
	"github.com/fanaberia/fanaberia/internal/validation"
)

var ErrSlugTaken = errors.New("slug already taken")

type PostService struct {
	postRepository     repository.PostRepository
	categoryRepository repository.CategoryRepository
	parser             *markdown.Parser
	perPage            int
	now                func() time.Time
}

func NewPostService(
	postRepository repository.PostRepository,
	categoryRepository repository.CategoryRepository,
	parser *markdown.Parser,
	perPage int,
) *PostService {
	if perPage <= 0 {
		perPage = 9
	}
	return &PostService{
		postRepository:     postRepository,
		categoryRepository: categoryRepository,
		parser:             parser,
		perPage:            perPage,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

// paginate clamps page to 1 and returns the offset and an empty PostPage
// carrying the page count for total items. Pages past the end start at total,
// so the offset never exceeds the row count.
func (s *PostService) paginate(page, total int) (int, *model.PostPage) {
	if page < 1 {
		page = 1
	}
	totalPages := (total + s.perPage - 1) / s.perPage
	offset := total
	if page <= totalPages {
		offset = (page - 1) * s.perPage
	}
	return offset, &model.PostPage{Page: page, TotalPages: totalPages, Total: total}
}

// ByLocale lists posts whose category is in locale, newest first. Pages past
// the end are empty.
func (s *PostService) ByLocale(locale string, page int) (*model.PostPage, error) {
	total, err := s.postRepository.CountByLocale(locale)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	offset, result := s.paginate(page, total)
	result.Posts, err = s.postRepository.ByLocale(locale, s.perPage, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return result, nil
}

// ByCategory resolves the category by slug within locale and lists its posts.
func (s *PostService) ByCategory(slug, locale string, page int) (*model.Category, *model.PostPage, error) {
	category, err := s.categoryRepository.BySlug(slug, locale)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.postRepository.CountByCategory(category.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count posts: %w", err)
	}

	offset, result := s.paginate(page, total)
	result.Posts, err = s.postRepository.ByCategory(category.ID, s.perPage, offset)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return category, result, nil
}

// BySlug returns a rendered post. Posts belong to the locale of their category.
func (s *PostService) BySlug(slug, locale string) (*model.Post, error) {
	post, err := s.postRepository.BySlug(slug, locale)
	if err != nil {
		return nil, err
	}
	err = s.render(post)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) render(post *model.Post) error {
	html, err := s.parser.Render(post.Content)
	if err != nil {
		return fmt.Errorf("failed to render post: %w", err)
	}
	post.HTMLContent = html
	return nil
}

func (s *PostService) All() ([]*model.Post, error) {
	return s.postRepository.All()
}

func (s *PostService) ByID(id int64) (*model.Post, error) {
	post, err := s.postRepository.ByID(id)
	if err != nil {
		return nil, err
	}
	err = s.render(post)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Create validates and stores a new post. Rule violations come back as
// validation.Errors.
func (s *PostService) Create(post *model.Post) error {
	err := s.validate(post)
	if err != nil {
		return err
	}

	now := s.now()
	post.CreatedAt = now
	post.UpdatedAt = now

	err = s.postRepository.Create(post)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created", "post_id", post.ID, "slug", post.Slug)
	return nil
}

func (s *PostService) Update(post *model.Post) error {
	err := s.validate(post)
	if err != nil {
		return err
	}

	post.UpdatedAt = s.now()
	err = s.postRepository.Update(post)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to update post: %w", err)
	}

	slog.Info("post updated", "post_id", post.ID)
	return nil
}

func (s *PostService) validate(post *model.Post) error {
	errs := validation.Post(post)
	if errs.Any() {
		return errs
	}

	_, err := s.categoryRepository.ByID(post.CategoryID)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		errs.Add("category_id", validation.ErrCategoryInvalid)
		return errs
	}
	return err
}
