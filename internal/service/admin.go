package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/repository"
)

type AdminService struct {
	adminRepository repository.AdminRepository
	now             func() time.Time
	compare         func(password, hash string) error
}

func NewAdminService(adminRepository repository.AdminRepository) *AdminService {
	return &AdminService{
		adminRepository: adminRepository,
		now:             func() time.Time { return time.Now().UTC() },
		compare:         comparePassword,
	}
}

// ValidateCredentials signs an admin in. Admins have no confirmation step and
// no sign-in bookkeeping.
func (s *AdminService) ValidateCredentials(email, password string) (*model.Admin, error) {
	admin, err := s.adminRepository.ByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			_ = s.compare(password, dummyPasswordHash())
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	err = s.compare(password, admin.PasswordHash)
	if err != nil {
		slog.Warn("admin sign in rejected", "admin_id", admin.ID)
		return nil, ErrInvalidCredentials
	}

	admin.PasswordHash = ""
	return admin, nil
}

func (s *AdminService) All() ([]*model.Admin, error) {
	return s.adminRepository.All()
}

func (s *AdminService) ByID(id int64) (*model.Admin, error) {
	return s.adminRepository.ByID(id)
}

func (s *AdminService) Create(email, password string) (*model.Admin, error) {
	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	admin := &model.Admin{
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.adminRepository.Create(admin)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("admin created", "admin_id", admin.ID)
	return admin, nil
}

// Update changes an admin's email and password.
func (s *AdminService) Update(id int64, email, password string) (*model.Admin, error) {
	admin, err := s.adminRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin.Email = strings.TrimSpace(email)
	admin.PasswordHash = passwordHash
	admin.UpdatedAt = s.now()

	err = s.adminRepository.Update(admin)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to update admin: %w", err)
	}

	slog.Info("admin updated", "admin_id", admin.ID)
	return admin, nil
}
