package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agusaisen/recopro/models"
	"github.com/agusaisen/recopro/repositories"
)

type LocalityService interface {
	Create(ctx context.Context, nombre string) (*models.Locality, error)
	Update(ctx context.Context, id int, nombre string) (*models.Locality, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]*models.Locality, error)
}

type localityService struct {
	repo repositories.LocalityRepository
}

func NewLocalityService(repo repositories.LocalityRepository) LocalityService {
	return &localityService{repo: repo}
}

func (s *localityService) Create(ctx context.Context, nombre string) (*models.Locality, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return nil, ErrLocalityNameRequired
	}

	l := &models.Locality{Nombre: nombre}
	if err := s.repo.Create(ctx, l); err != nil {
		if errors.Is(err, repositories.ErrLocalityNameConflict) {
			return nil, ErrLocalityNameConflict
		}
		return nil, fmt.Errorf("failed to create locality: %w", err)
	}
	return l, nil
}

func (s *localityService) Update(ctx context.Context, id int, nombre string) (*models.Locality, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return nil, ErrLocalityNameRequired
	}

	l := &models.Locality{ID: id, Nombre: nombre}
	if err := s.repo.Update(ctx, l); err != nil {
		switch {
		case errors.Is(err, repositories.ErrLocalityNotFound):
			return nil, ErrLocalityNotFound
		case errors.Is(err, repositories.ErrLocalityNameConflict):
			return nil, ErrLocalityNameConflict
		}
		return nil, fmt.Errorf("failed to update locality: %w", err)
	}
	return l, nil
}

func (s *localityService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrLocalityNotFound):
			return ErrLocalityNotFound
		case errors.Is(err, repositories.ErrLocalityInUse):
			return ErrLocalityInUse
		}
		return fmt.Errorf("failed to delete locality: %w", err)
	}
	return nil
}

func (s *localityService) List(ctx context.Context) ([]*models.Locality, error) {
	return s.repo.List(ctx)
}
