package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/fanaberia/fanaberia/internal/model"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

type CategoryRepository interface {
	Create(category *model.Category) error
	ByID(id int64) (*model.Category, error)
	BySlug(slug, locale string) (*model.Category, error)
	ByLocale(locale string) ([]*model.Category, error)
	All() ([]*model.Category, error)
	Update(category *model.Category) error
}

type categoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	query := `INSERT INTO categories (name, slug, title, keywords, description, heading, locale, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	err := r.db.Get(&category.ID, query,
		category.Name,
		category.Slug,
		category.Title,
		category.Keywords,
		category.Description,
		category.Heading,
		category.Locale,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	return err
}

func (r *categoryRepository) ByID(id int64) (*model.Category, error) {
	category := &model.Category{}
	err := r.db.Get(category, `SELECT * FROM categories WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepository) BySlug(slug, locale string) (*model.Category, error) {
	category := &model.Category{}
	err := r.db.Get(category, `SELECT * FROM categories WHERE slug = $1 AND locale = $2`, slug, locale)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepository) ByLocale(locale string) ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.Select(&categories, `SELECT * FROM categories WHERE locale = $1 ORDER BY name`, locale)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) All() ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.Select(&categories, `SELECT * FROM categories ORDER BY locale, name`)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	query := `UPDATE categories
	          SET name = $1, slug = $2, title = $3, keywords = $4, description = $5, heading = $6, locale = $7, updated_at = $8
	          WHERE id = $9`

	result, err := r.db.Exec(query,
		category.Name,
		category.Slug,
		category.Title,
		category.Keywords,
		category.Description,
		category.Heading,
		category.Locale,
		category.UpdatedAt,
		category.ID,
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
		return ErrCategoryNotFound
	}
	return nil
}
