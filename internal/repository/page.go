package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/fanaberia/fanaberia/internal/model"
)

var (
	ErrPageNotFound = errors.New("page not found")
)

type PageRepository interface {
	Create(page *model.Page) error
	ByID(id int64) (*model.Page, error)
	BySlug(slug, locale string) (*model.Page, error)
	ByLocale(locale string) ([]*model.Page, error)
	All() ([]*model.Page, error)
	Update(page *model.Page) error
}

type pageRepository struct {
	db *sqlx.DB
}

func NewPageRepository(db *sqlx.DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Create(page *model.Page) error {
	query := `INSERT INTO pages (name, slug, title, keywords, description, heading, locale, content, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`

	err := r.db.Get(&page.ID, query,
		page.Name,
		page.Slug,
		page.Title,
		page.Keywords,
		page.Description,
		page.Heading,
		page.Locale,
		page.Content,
		page.CreatedAt,
		page.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	return err
}

func (r *pageRepository) ByID(id int64) (*model.Page, error) {
	page := &model.Page{}
	err := r.db.Get(page, `SELECT * FROM pages WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (r *pageRepository) BySlug(slug, locale string) (*model.Page, error) {
	page := &model.Page{}
	err := r.db.Get(page, `SELECT * FROM pages WHERE slug = $1 AND locale = $2`, slug, locale)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (r *pageRepository) ByLocale(locale string) ([]*model.Page, error) {
	var pages []*model.Page
	err := r.db.Select(&pages, `SELECT * FROM pages WHERE locale = $1 ORDER BY name`, locale)
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) All() ([]*model.Page, error) {
	var pages []*model.Page
	err := r.db.Select(&pages, `SELECT * FROM pages ORDER BY locale, name`)
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) Update(page *model.Page) error {
	query := `UPDATE pages
	          SET name = $1, slug = $2, title = $3, keywords = $4, description = $5, heading = $6,
	              locale = $7, content = $8, updated_at = $9
	          WHERE id = $10`

	result, err := r.db.Exec(query,
		page.Name,
		page.Slug,
		page.Title,
		page.Keywords,
		page.Description,
		page.Heading,
		page.Locale,
		page.Content,
		page.UpdatedAt,
		page.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return err
	}
	ok, err := affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPageNotFound
	}
	return nil
}
