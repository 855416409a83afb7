package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fanaberia/fanaberia/internal/model"
)

var (
	ErrFileNotFound = errors.New("file not found")
)

type FileRepository interface {
	Create(file *model.File) error
	ByID(id int64) (*model.File, error)
	All() ([]*model.File, error)
	UpdateMeta(id int64, alt, title string, at time.Time) error
	Delete(id int64) error
}

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(file *model.File) error {
	query := `INSERT INTO files (name, alt, title, path, mime_type, size, admin_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	return r.db.Get(&file.ID, query,
		file.Name,
		file.Alt,
		file.Title,
		file.Path,
		file.MimeType,
		file.Size,
		file.AdminID,
		file.CreatedAt,
		file.UpdatedAt,
	)
}

func (r *fileRepository) ByID(id int64) (*model.File, error) {
	file := &model.File{}
	err := r.db.Get(file, `SELECT * FROM files WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (r *fileRepository) All() ([]*model.File, error) {
	var files []*model.File
	err := r.db.Select(&files, `SELECT * FROM files ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fileRepository) UpdateMeta(id int64, alt, title string, at time.Time) error {
	query := `UPDATE files SET alt = $1, title = $2, updated_at = $3 WHERE id = $4`

	result, err := r.db.Exec(query, alt, title, at, id)
	if err != nil {
		return err
	}
	ok, err := affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFileNotFound
	}
	return nil
}

func (r *fileRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	ok, err := affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFileNotFound
	}
	return nil
}
