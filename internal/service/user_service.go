package service

import (
	"context"
	"fmt"

	"github.com/stemsi/exstem-paper/internal/model"
	"github.com/stemsi/exstem-paper/internal/repository"
)

// UserService handles admin and instructor accounts.
type UserService struct {
	userRepo       *repository.UserRepository
	disciplineRepo *repository.DisciplineRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository, disciplineRepo *repository.DisciplineRepository) *UserService {
	return &UserService{userRepo: userRepo, disciplineRepo: disciplineRepo}
}

// GetByEmail retrieves a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Create creates a user and, for instructors, assigns the given disciplines.
func (s *UserService) Create(ctx context.Context, user *model.User, disciplineIDs []int) error {
	if !user.Role.Valid() {
		return fmt.Errorf("unknown role %q", user.Role)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if user.Role != model.RoleInstructor {
		return nil
	}
	for _, id := range disciplineIDs {
		if err := s.disciplineRepo.AssignInstructor(ctx, user.ID, id); err != nil {
			return fmt.Errorf("assign discipline %d: %w", id, err)
		}
	}
	return nil
}
