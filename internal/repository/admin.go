package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/fanaberia/fanaberia/internal/model"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
)

type AdminRepository interface {
	Create(admin *model.Admin) error
	ByID(id int64) (*model.Admin, error)
	ByEmail(email string) (*model.Admin, error)
	All() ([]*model.Admin, error)
	Update(admin *model.Admin) error
}

type adminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(admin *model.Admin) error {
	query := `INSERT INTO admins (email, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`

	err := r.db.Get(&admin.ID, query, admin.Email, admin.PasswordHash, admin.CreatedAt, admin.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *adminRepository) ByID(id int64) (*model.Admin, error) {
	admin := &model.Admin{}
	err := r.db.Get(admin, `SELECT * FROM admins WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *adminRepository) ByEmail(email string) (*model.Admin, error) {
	admin := &model.Admin{}
	err := r.db.Get(admin, `SELECT * FROM admins WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *adminRepository) All() ([]*model.Admin, error) {
	var admins []*model.Admin
	err := r.db.Select(&admins, `SELECT * FROM admins ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *adminRepository) Update(admin *model.Admin) error {
	query := `UPDATE admins SET email = $1, password_hash = $2, updated_at = $3 WHERE id = $4`

	result, err := r.db.Exec(query, admin.Email, admin.PasswordHash, admin.UpdatedAt, admin.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	ok, err := affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAdminNotFound
	}
	return nil
}
