package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agusaisen/recopro/models"
	"github.com/agusaisen/recopro/repositories"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserInput struct {
	Nombre     string          `json:"nombre"`
	Apellido   string          `json:"apellido"`
	Email      string          `json:"email"`
	Password   string          `json:"password"`
	Role       models.UserRole `json:"role"`
	LocalityID *int            `json:"localidad_id,omitempty"`
}

type UpdateUserInput struct {
	Nombre     *string `json:"nombre,omitempty"`
	Apellido   *string `json:"apellido,omitempty"`
	Email      *string `json:"email,omitempty"`
	Password   *string `json:"password,omitempty"`
	LocalityID *int    `json:"localidad_id,omitempty"`
}

// UserService is the admin-facing account management: admins create
// gestor accounts bound to a locality.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	Update(ctx context.Context, id int, input UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]*models.User, error)
}

type userService struct {
	repo repositories.UserRepository
}

func NewUserService(repo repositories.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if input.Role != models.RoleAdmin && input.Role != models.RoleGestor {
		return nil, ErrValidationFailed
	}
	if input.Role == models.RoleGestor && input.LocalityID == nil {
		return nil, ErrGestorLocalityRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Nombre:       strings.TrimSpace(input.Nombre),
		Apellido:     strings.TrimSpace(input.Apellido),
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		LocalityID:   input.LocalityID,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserEmailConflict):
			return nil, ErrUserEmailConflict
		case errors.Is(err, repositories.ErrUserLocalityInvalid):
			return nil, ErrLocalityNotFound
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) Update(ctx context.Context, id int, input UpdateUserInput) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if input.Nombre != nil {
		user.Nombre = strings.TrimSpace(*input.Nombre)
	}
	if input.Apellido != nil {
		user.Apellido = strings.TrimSpace(*input.Apellido)
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(strings.ToLower(*input.Email))
	}
	if input.LocalityID != nil {
		user.LocalityID = input.LocalityID
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repositories.ErrUserEmailConflict):
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}
