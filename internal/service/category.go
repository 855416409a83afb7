package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fanaberia/fanaberia/internal/i18n"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/repository"
	"github.com/fanaberia/fanaberia/internal/validation"
)

type CategoryService struct {
	categoryRepository repository.CategoryRepository
	now                func() time.Time
}

func NewCategoryService(categoryRepository repository.CategoryRepository) *CategoryService {
	return &CategoryService{
		categoryRepository: categoryRepository,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

func (s *CategoryService) BySlug(slug, locale string) (*model.Category, error) {
	return s.categoryRepository.BySlug(slug, locale)
}

func (s *CategoryService) ByLocale(locale string) ([]*model.Category, error) {
	return s.categoryRepository.ByLocale(locale)
}

func (s *CategoryService) All() ([]*model.Category, error) {
	return s.categoryRepository.All()
}

func (s *CategoryService) ByID(id int64) (*model.Category, error) {
	return s.categoryRepository.ByID(id)
}

func (s *CategoryService) Create(category *model.Category) error {
	errs := validation.Category(category, i18n.Locales())
	if errs.Any() {
		return errs
	}

	now := s.now()
	category.CreatedAt = now
	category.UpdatedAt = now

	err := s.categoryRepository.Create(category)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	slog.Info("category created", "category_id", category.ID, "slug", category.Slug, "locale", category.Locale)
	return nil
}

func (s *CategoryService) Update(category *model.Category) error {
	errs := validation.Category(category, i18n.Locales())
	if errs.Any() {
		return errs
	}

	category.UpdatedAt = s.now()
	err := s.categoryRepository.Update(category)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	slog.Info("category updated", "category_id", category.ID)
	return nil
}
