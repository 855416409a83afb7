package service

import (
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/repository"
)

// UserService is the read-only view of user accounts used by warp.
type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{userRepository: userRepository}
}

func (s *UserService) All() ([]*model.User, error) {
	users, err := s.userRepository.All()
	if err != nil {
		return nil, err
	}
	for i, user := range users {
		users[i] = user.Sanitize()
	}
	return users, nil
}

func (s *UserService) ByID(id int64) (*model.User, error) {
	user, err := s.userRepository.ByID(id)
	if err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}
