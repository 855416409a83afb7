package model

import (
	"time"
)

type File struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Alt       string    `db:"alt"`
	Title     string    `db:"title"`
	Path      string    `db:"path"` // Storage key, not a filesystem path for S3
	MimeType  string    `db:"mime_type"`
	Size      int64     `db:"size"`
	AdminID   int64     `db:"admin_id"` // Who uploaded this file
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Computed fields (not in database)
	URL string `db:"-"`
}
