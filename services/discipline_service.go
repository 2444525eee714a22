package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agusaisen/recopro/models"
	"github.com/agusaisen/recopro/repositories"
)

type DisciplineInput struct {
	Nombre              string `json:"nombre"`
	Genero              string `json:"genero"`
	AnioDesde           int    `json:"anio_desde"`
	AnioHasta           int    `json:"anio_hasta"`
	CantidadIntegrantes int    `json:"cantidad_integrantes"`
	Entrenadores        int    `json:"entrenadores"`
	Delegados           int    `json:"delegados"`
	Activa              *bool  `json:"activa,omitempty"`
}

type DisciplineService interface {
	Create(ctx context.Context, input DisciplineInput) (*models.Discipline, error)
	GetByID(ctx context.Context, id int) (*models.Discipline, error)
	Update(ctx context.Context, id int, input DisciplineInput) (*models.Discipline, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, onlyActive bool) ([]*models.Discipline, error)
}

type disciplineService struct {
	repo repositories.DisciplineRepository
}

func NewDisciplineService(repo repositories.DisciplineRepository) DisciplineService {
	return &disciplineService{repo: repo}
}

func (s *disciplineService) validate(input *DisciplineInput) error {
	input.Nombre = strings.TrimSpace(input.Nombre)
	if input.Nombre == "" {
		return ErrDisciplineInvalidName
	}
	input.Genero = strings.ToUpper(strings.TrimSpace(input.Genero))
	if g := models.DisciplineGender(input.Genero); g != models.GenderMasculino && g != models.GenderFemenino {
		return ErrDisciplineInvalidGender
	}
	if input.AnioDesde <= 0 || input.AnioHasta <= 0 || input.AnioDesde > input.AnioHasta {
		return ErrDisciplineInvalidYearRange
	}
	if input.CantidadIntegrantes <= 0 || input.Entrenadores < 0 || input.Delegados < 0 {
		return ErrDisciplineInvalidCapacity
	}
	return nil
}

func (s *disciplineService) Create(ctx context.Context, input DisciplineInput) (*models.Discipline, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	active := true
	if input.Activa != nil {
		active = *input.Activa
	}

	d := &models.Discipline{
		Nombre:              input.Nombre,
		Genero:              models.DisciplineGender(input.Genero),
		AnioDesde:           input.AnioDesde,
		AnioHasta:           input.AnioHasta,
		CantidadIntegrantes: input.CantidadIntegrantes,
		Entrenadores:        input.Entrenadores,
		Delegados:           input.Delegados,
		Activa:              active,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		if errors.Is(err, repositories.ErrDisciplineNameConflict) {
			return nil, ErrDisciplineNameConflict
		}
		return nil, fmt.Errorf("failed to create discipline: %w", err)
	}
	return d, nil
}

func (s *disciplineService) GetByID(ctx context.Context, id int) (*models.Discipline, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrDisciplineNotFound) {
			return nil, ErrDisciplineNotFound
		}
		return nil, fmt.Errorf("failed to load discipline: %w", err)
	}
	return d, nil
}

func (s *disciplineService) Update(ctx context.Context, id int, input DisciplineInput) (*models.Discipline, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d.Nombre = input.Nombre
	d.Genero = models.DisciplineGender(input.Genero)
	d.AnioDesde = input.AnioDesde
	d.AnioHasta = input.AnioHasta
	d.CantidadIntegrantes = input.CantidadIntegrantes
	d.Entrenadores = input.Entrenadores
	d.Delegados = input.Delegados
	if input.Activa != nil {
		d.Activa = *input.Activa
	}

	if err := s.repo.Update(ctx, d); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDisciplineNotFound):
			return nil, ErrDisciplineNotFound
		case errors.Is(err, repositories.ErrDisciplineNameConflict):
			return nil, ErrDisciplineNameConflict
		}
		return nil, fmt.Errorf("failed to update discipline: %w", err)
	}
	return d, nil
}

func (s *disciplineService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrDisciplineNotFound) {
			return ErrDisciplineNotFound
		}
		return fmt.Errorf("failed to delete discipline: %w", err)
	}
	return nil
}

func (s *disciplineService) List(ctx context.Context, onlyActive bool) ([]*models.Discipline, error) {
	return s.repo.List(ctx, onlyActive)
}
