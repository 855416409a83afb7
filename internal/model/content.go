package model

import (
	"html/template"
	"time"
)

type Category struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Title       string    `db:"title"`
	Keywords    string    `db:"keywords"`
	Description string    `db:"description"`
	Heading     string    `db:"heading"`
	Locale      string    `db:"locale"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type Post struct {
	ID          int64     `db:"id"`
	Slug        string    `db:"slug"`
	Title       string    `db:"title"`
	Keywords    string    `db:"keywords"`
	Description string    `db:"description"`
	Heading     string    `db:"heading"`
	Summary     string    `db:"summary"`
	Content     string    `db:"content"`
	Picture     string    `db:"picture"`
	CategoryID  int64     `db:"category_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	// Joined from categories
	CategorySlug string `db:"category_slug"`
	CategoryName string `db:"category_name"`
	Locale       string `db:"locale"`

	// Computed fields (not in database)
	HTMLContent template.HTML `db:"-"`
}

type Page struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Title       string    `db:"title"`
	Keywords    string    `db:"keywords"`
	Description string    `db:"description"`
	Heading     string    `db:"heading"`
	Locale      string    `db:"locale"`
	Content     string    `db:"content"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	// Computed fields (not in database)
	HTMLContent template.HTML `db:"-"`
}

// PostPage is one page of a paginated post listing.
type PostPage struct {
	Posts      []*Post
	Page       int
	TotalPages int
	Total      int
}

func (p *PostPage) HasPrev() bool {
	return p.Page > 1
}

func (p *PostPage) HasNext() bool {
	return p.Page < p.TotalPages
}
