package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fanaberia/fanaberia/internal/i18n"
	"github.com/fanaberia/fanaberia/internal/markdown"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/repository"
	"github.com/fanaberia/fanaberia/internal/validation"
)

type PageService struct {
	pageRepository repository.PageRepository
	parser         *markdown.Parser
	now            func() time.Time
}

func NewPageService(pageRepository repository.PageRepository, parser *markdown.Parser) *PageService {
	return &PageService{
		pageRepository: pageRepository,
		parser:         parser,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *PageService) BySlug(slug, locale string) (*model.Page, error) {
	page, err := s.pageRepository.BySlug(slug, locale)
	if err != nil {
		return nil, err
	}
	page.HTMLContent, err = s.parser.Render(page.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return page, nil
}

func (s *PageService) ByLocale(locale string) ([]*model.Page, error) {
	return s.pageRepository.ByLocale(locale)
}

func (s *PageService) All() ([]*model.Page, error) {
	return s.pageRepository.All()
}

func (s *PageService) ByID(id int64) (*model.Page, error) {
	page, err := s.pageRepository.ByID(id)
	if err != nil {
		return nil, err
	}
	page.HTMLContent, err = s.parser.Render(page.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return page, nil
}

func (s *PageService) Create(page *model.Page) error {
	errs := validation.Page(page, i18n.Locales())
	if errs.Any() {
		return errs
	}

	now := s.now()
	page.CreatedAt = now
	page.UpdatedAt = now

	err := s.pageRepository.Create(page)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to create page: %w", err)
	}

	slog.Info("page created", "page_id", page.ID, "slug", page.Slug, "locale", page.Locale)
	return nil
}

func (s *PageService) Update(page *model.Page) error {
	errs := validation.Page(page, i18n.Locales())
	if errs.Any() {
		return errs
	}

	page.UpdatedAt = s.now()
	err := s.pageRepository.Update(page)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to update page: %w", err)
	}

	slog.Info("page updated", "page_id", page.ID)
	return nil
}
