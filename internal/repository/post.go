package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/fanaberia/fanaberia/internal/model"
)

var (
	ErrPostNotFound = errors.New("post not found")
)

// postSelect joins the owning category, which carries the post's locale
const postSelect = `SELECT p.*, c.slug AS category_slug, c.name AS category_name, c.locale AS locale
	FROM posts p
	JOIN categories c ON c.id = p.category_id`

type PostRepository interface {
	Create(post *model.Post) error
	ByID(id int64) (*model.Post, error)
	BySlug(slug, locale string) (*model.Post, error)
	ByLocale(locale string, limit, offset int) ([]*model.Post, error)
	CountByLocale(locale string) (int, error)
	ByCategory(categoryID int64, limit, offset int) ([]*model.Post, error)
	CountByCategory(categoryID int64) (int, error)
	All() ([]*model.Post, error)
	Update(post *model.Post) error
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *model.Post) error {
	query := `INSERT INTO posts (slug, title, keywords, description, heading, summary, content, picture, category_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`

	err := r.db.Get(&post.ID, query,
		post.Slug,
		post.Title,
		post.Keywords,
		post.Description,
		post.Heading,
		post.Summary,
		post.Content,
		post.Picture,
		post.CategoryID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	return err
}

func (r *postRepository) ByID(id int64) (*model.Post, error) {
	post := &model.Post{}
	err := r.db.Get(post, postSelect+` WHERE p.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) BySlug(slug, locale string) (*model.Post, error) {
	post := &model.Post{}
	err := r.db.Get(post, postSelect+` WHERE p.slug = $1 AND c.locale = $2`, slug, locale)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) ByLocale(locale string, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	query := postSelect + ` WHERE c.locale = $1 ORDER BY p.created_at DESC, p.id DESC LIMIT $2 OFFSET $3`

	err := r.db.Select(&posts, query, locale, limit, offset)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) CountByLocale(locale string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM posts p JOIN categories c ON c.id = p.category_id WHERE c.locale = $1`

	err := r.db.Get(&n, query, locale)
	return n, err
}

func (r *postRepository) ByCategory(categoryID int64, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	query := postSelect + ` WHERE p.category_id = $1 ORDER BY p.created_at DESC, p.id DESC LIMIT $2 OFFSET $3`

	err := r.db.Select(&posts, query, categoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) CountByCategory(categoryID int64) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM posts WHERE category_id = $1`, categoryID)
	return n, err
}

func (r *postRepository) All() ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.Select(&posts, postSelect+` ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(post *model.Post) error {
	query := `UPDATE posts
	          SET slug = $1, title = $2, keywords = $3, description = $4, heading = $5, summary = $6,
	              content = $7, picture = $8, category_id = $9, updated_at = $10
	          WHERE id = $11`

	result, err := r.db.Exec(query,
		post.Slug,
		post.Title,
		post.Keywords,
		post.Description,
		post.Heading,
		post.Summary,
		post.Content,
		post.Picture,
		post.CategoryID,
		post.UpdatedAt,
		post.ID,
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
		return ErrPostNotFound
	}
	return nil
}
